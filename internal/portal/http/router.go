package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shiphyhq/portal/internal/portal/service"
	"github.com/shiphyhq/portal/internal/portal/store"
	"github.com/shiphyhq/portal/pkg/httpx"
	"github.com/shiphyhq/portal/pkg/jwtx"
	"github.com/shiphyhq/portal/pkg/slogx"

	_ "github.com/shiphyhq/portal/api/portal" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	sessions sessionResolver

	GateService     *service.GateService
	OTPService      *service.OTPService
	UploadService   *service.UploadService
	SecurityService *service.SecurityService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	sessions sessionResolver,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		sessions:     sessions,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerOTP()
	r.registerUpload()
	r.registerBlueTeam()
	r.registerState()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			ShiPhy Corporate Intranet API
//	@version		0.1.0
//	@description	Authentication and security-state API for the ShiPhy intranet training
//	@description	portal. The portal is a capture-the-flag target: several endpoints expose
//	@description	state or accept mutations that a production system never would. Those
//	@description	exposures are documented per endpoint and are the point of the exercise.
//
//	@contact.name				ShiPhy Security Operations
//	@contact.url				https://github.com/shiphyhq/portal
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Portal session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authed wraps h with token verification, the live-session check, the given
// scope requirement and a per-user rate limit.
func (r *Router) authed(h http.Handler, scopes ...string) http.Handler {
	mws := []httpx.Middleware{
		httpx.AuthnMiddleware(r.verifier),
		requireLiveSession(r.sessions),
	}
	if len(scopes) > 0 {
		mws = append(mws, httpx.RequireAnyScope(scopes...))
	}
	mws = append(mws, httpx.RateLimitByUser(httpx.LenientLimit))
	return httpx.Chain(h, mws...)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Gate: r.GateService}

	// POST /login - generous limit: the gate's own rolling-window burst
	// check is the abuse control under test, and the transport layer must
	// not mask it.
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("POST /v1/auth/logout", r.authed(http.HandlerFunc(h.HandleLogout)))
}

func (r *Router) registerOTP() {
	h := &OTPHandler{OTP: r.OTPService}

	// The whole OTP surface is unauthenticated: verification happens before
	// a session exists, and the inspection/tuning endpoints are the
	// documented soft spots.
	r.Mux.Handle("POST /v1/auth/otp/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/otp/resend",
		httpx.Chain(http.HandlerFunc(h.HandleResend),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/auth/otp",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PUT /v1/auth/otp/max-attempts",
		httpx.Chain(http.HandlerFunc(h.HandleMaxAttempts),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUpload() {
	h := &UploadHandler{Upload: r.UploadService}

	r.Mux.Handle("POST /v1/upload/flag/verify", r.authed(http.HandlerFunc(h.HandleVerifyFlag), "upload:write"))
	r.Mux.Handle("POST /v1/upload", r.authed(http.HandlerFunc(h.HandleUpload), "upload:write"))
	r.Mux.Handle("GET /v1/upload/status", r.authed(http.HandlerFunc(h.HandleStatus)))
	r.Mux.Handle("POST /v1/upload/reset", r.authed(http.HandlerFunc(h.HandleReset), "blueteam:write"))
}

func (r *Router) registerBlueTeam() {
	h := &BlueTeamHandler{
		Security: r.SecurityService,
		Gate:     r.GateService,
		OTP:      r.OTPService,
		Upload:   r.UploadService,
	}

	r.Mux.Handle("POST /v1/blueteam/users/{username}/block", r.authed(http.HandlerFunc(h.HandleBlock), "blueteam:write"))
	r.Mux.Handle("POST /v1/blueteam/users/{username}/unblock", r.authed(http.HandlerFunc(h.HandleUnblock), "blueteam:write"))
	r.Mux.Handle("POST /v1/blueteam/kick-all", r.authed(http.HandlerFunc(h.HandleKickAll), "blueteam:write"))
	r.Mux.Handle("POST /v1/blueteam/emergency", r.authed(http.HandlerFunc(h.HandleEmergencyOn), "blueteam:write"))
	r.Mux.Handle("DELETE /v1/blueteam/emergency", r.authed(http.HandlerFunc(h.HandleEmergencyOff), "blueteam:write"))
	r.Mux.Handle("POST /v1/blueteam/fte-login", r.authed(http.HandlerFunc(h.HandleFTELogin), "blueteam:write"))
	r.Mux.Handle("PUT /v1/blueteam/security-level", r.authed(http.HandlerFunc(h.HandleSecurityLevel), "blueteam:write"))
	r.Mux.Handle("GET /v1/blueteam/config", r.authed(http.HandlerFunc(h.HandleConfig), "blueteam:read"))
}

func (r *Router) registerState() {
	h := &StateHandler{Security: r.SecurityService}

	// Public read: the login portal renders from this view.
	r.Mux.Handle("GET /v1/state",
		httpx.Chain(http.HandlerFunc(h.HandleState),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("POST /v1/announcements", r.authed(http.HandlerFunc(h.HandleAddAnnouncement), "blueteam:write"))
	r.Mux.Handle("POST /v1/alerts", r.authed(http.HandlerFunc(h.HandleAddAlert), "blueteam:write"))
	r.Mux.Handle("DELETE /v1/alerts", r.authed(http.HandlerFunc(h.HandleClearAlerts), "blueteam:write"))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Security: r.SecurityService}

	r.Mux.Handle("GET /v1/users", r.authed(http.HandlerFunc(h.HandleList), "blueteam:read"))
	r.Mux.Handle("GET /v1/admin/ssh/flag", r.authed(http.HandlerFunc(h.HandleSSHFlag), "admin:read"))

	// The planted "forgotten diagnostics" leak. Stays unauthenticated.
	r.Mux.Handle("GET /v1/debug/users",
		httpx.Chain(http.HandlerFunc(h.HandleDebug),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys))
}
