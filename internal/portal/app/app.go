package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/shiphyhq/portal/internal/portal/http"
	"github.com/shiphyhq/portal/internal/portal/service"
	"github.com/shiphyhq/portal/internal/portal/store"
	"github.com/shiphyhq/portal/internal/portal/store/drivers/sqlite"
	"github.com/shiphyhq/portal/pkg/jwtx"
	"github.com/shiphyhq/portal/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the portal with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	keys     *jwtx.KeySet
	verifier jwtx.Verifier

	state               *service.State
	gateService         *service.GateService
	otpService          *service.OTPService
	uploadService       *service.UploadService
	securityService     *service.SecurityService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "shiphy-portal",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initKeys(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("portal starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down portal...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("portal stopped")
	return nil
}

// initDatabase initializes the snapshot database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initKeys generates the ephemeral signing key. Tokens do not survive a
// restart, but the server-side session they reference is restored from the
// snapshot anyway, so a restart only forces a fresh login.
func (app *Application) initKeys() error {
	signer, err := jwtx.GenerateSignerEdDSA("portal-" + BuildVersion)
	if err != nil {
		return fmt.Errorf("failed to generate signing key: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return fmt.Errorf("failed to register signing key: %w", err)
	}

	app.keys = keys
	app.verifier = jwtx.NewVerifierEdDSA(keys, app.cfg.Issuer)

	app.state = service.NewState(service.StateConfig{
		Store:      app.db,
		Logger:     app.logger,
		Signer:     signer,
		Issuer:     app.cfg.Issuer,
		SessionTTL: app.cfg.SessionTTL,
	})
	return nil
}

// initServices restores state from snapshots and wires the service set.
func (app *Application) initServices() error {
	if err := app.state.Load(context.Background()); err != nil {
		return fmt.Errorf("failed to load state snapshots: %w", err)
	}

	app.otpService = service.NewOTPService(app.state, service.OTPConfig{
		MaxAttempts: app.cfg.MaxOTPAttempts,
		Cooldown:    app.cfg.OTPCooldown,
	})
	app.gateService = service.NewGateService(app.state, app.otpService, service.GateConfig{
		BurstWindow:    app.cfg.BurstWindow,
		BurstThreshold: app.cfg.BurstThreshold,
		AdminLockout:   app.cfg.AdminLockout,
	})
	app.uploadService = service.NewUploadService(app.state, service.UploadConfig{
		Window: app.cfg.UploadWindow,
	})
	app.securityService = service.NewSecurityService(app.state, app.otpService)

	app.housekeepingService = service.NewHousekeepingService(
		app.gateService,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		app.verifier,
		BuildVersion,
		app.db,
		app.state,
		app.logger,
	)

	router.GateService = app.gateService
	router.OTPService = app.otpService
	router.UploadService = app.uploadService
	router.SecurityService = app.securityService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
