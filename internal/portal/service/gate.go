package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shiphyhq/portal/internal/portal/domain"
)

// GateConfig tunes the authentication gate's abuse thresholds. The zero
// value is filled with the standard exercise parameters.
type GateConfig struct {
	// BurstWindow and BurstThreshold drive the rolling-window burst check:
	// BurstThreshold or more attempts inside BurstWindow, across all
	// usernames, trips automated-attack handling.
	BurstWindow    time.Duration
	BurstThreshold int

	// AdminLockout is how long admin accounts lock after
	// AdminLockoutThreshold consecutive failures.
	AdminLockout          time.Duration
	AdminLockoutThreshold int

	// BruteForceThreshold is the failed-attempt count at which a single
	// high-severity alert fires for non-admin accounts.
	BruteForceThreshold int
}

func (c *GateConfig) applyDefaults() {
	if c.BurstWindow <= 0 {
		c.BurstWindow = 5 * time.Second
	}
	if c.BurstThreshold <= 0 {
		c.BurstThreshold = 10
	}
	if c.AdminLockout <= 0 {
		c.AdminLockout = 60 * time.Second
	}
	if c.AdminLockoutThreshold <= 0 {
		c.AdminLockoutThreshold = 3
	}
	if c.BruteForceThreshold <= 0 {
		c.BruteForceThreshold = 4
	}
}

// GateService is the authentication gate: the single decision procedure for
// establishing a session. Every login, normal or emergency, funnels through
// Login; the gate is also the only writer of failed-attempt counters and
// lockout state.
type GateService struct {
	State  *State
	OTP    *OTPService
	Config GateConfig

	// attempts is the rolling burst window, guarded by State.mu.
	attempts []time.Time

	lockout *countdown
	// lockedUser is the admin account whose counter the lockout expiry
	// resets. Guarded by State.mu.
	lockedUser string
}

func NewGateService(state *State, otp *OTPService, cfg GateConfig) *GateService {
	cfg.applyDefaults()
	return &GateService{
		State:   state,
		OTP:     otp,
		Config:  cfg,
		lockout: newCountdown(state.now),
	}
}

// Login runs the gate's decision procedure. The returned LoginResult is
// always user-presentable; the error is reserved for infrastructure
// failures (token signing) and never encodes an authentication outcome.
func (g *GateService) Login(ctx context.Context, username, password string, emergencyAttempt bool) (domain.LoginResult, error) {
	st := g.State
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()

	// Burst detection runs before anything else, user lookup included.
	g.pruneAttemptsLocked(now)
	g.attempts = append(g.attempts, now)
	if len(g.attempts) >= g.Config.BurstThreshold {
		st.newAlertLocked(
			domain.AlertBruteForce,
			domain.SeverityCritical,
			"Automated login burst detected",
			username,
			fmt.Sprintf("%d attempts within %s across all accounts", len(g.attempts), g.Config.BurstWindow),
		)
		st.persistLocked(ctx)
		return fail(domain.MessageTooManyRequests), nil
	}

	// A standing admin lockout rejects by username substring alone,
	// without touching counters. Probing "admin"-ish names during a
	// lockout is itself a signal the exercise wants surfaced.
	if strings.Contains(username, "admin") && g.lockout.Active() {
		return fail(domain.MessageAccountLocked(g.lockout.Remaining())), nil
	}

	u := st.findUserLocked(username)
	if u == nil {
		// Same message as a wrong password; only the alert records the
		// not-found distinction.
		st.newAlertLocked(
			domain.AlertLoginAttempt,
			domain.SeverityLow,
			fmt.Sprintf("Failed login attempt for non-existent user: %s", username),
			username,
			"User not found in database",
		)
		st.persistLocked(ctx)
		return fail(domain.MessageInvalidCredentials), nil
	}

	if u.IsBlocked || st.system.IsBlockedUser(username) {
		st.newAlertLocked(
			domain.AlertUnauthorizedAccess,
			domain.SeverityMedium,
			fmt.Sprintf("Blocked user attempted login: %s", username),
			username,
			"",
		)
		st.persistLocked(ctx)
		return fail(domain.MessageAccountBlocked), nil
	}

	if st.system.EmergencyMode && u.Role.HasEmergencyPassword() {
		if !emergencyAttempt {
			return fail(domain.MessageEmergencyRequired), nil
		}
		if password != u.EmergencyPassword {
			return fail(domain.MessageInvalidEmergency), nil
		}

		u.FailedAttempts = 0
		token, err := st.establishSessionLocked(u, []string{"emergency"})
		if err != nil {
			return domain.LoginResult{}, err
		}
		st.log.InfoContext(ctx, "emergency login",
			slog.String("username", u.Username),
			slog.String("role", u.Role.String()))
		st.persistLocked(ctx)
		return domain.LoginResult{Success: true, Message: domain.MessageEmergencyLoginSuccess, Token: token}, nil
	}

	if password == u.Password {
		if u.Role.RequiresTwoFactor() {
			// Correct password alone does not establish a session for HR;
			// the OTP engine owns the rest of the flow.
			g.OTP.beginChallengeLocked(ctx, u.Username)
			return domain.LoginResult{Success: true, Message: domain.MessageTwoFactorRequired}, nil
		}

		u.FailedAttempts = 0
		token, err := st.establishSessionLocked(u, []string{"pwd"})
		if err != nil {
			return domain.LoginResult{}, err
		}
		st.log.InfoContext(ctx, "login",
			slog.String("username", u.Username),
			slog.String("role", u.Role.String()))
		st.persistLocked(ctx)
		return domain.LoginResult{Success: true, Message: domain.MessageLoginSuccess, Token: token}, nil
	}

	// Failure path.
	u.FailedAttempts++

	if u.Role == domain.RoleAdmin && u.FailedAttempts >= g.Config.AdminLockoutThreshold {
		g.lockedUser = u.Username
		g.lockout.Start(g.Config.AdminLockout, g.onLockoutExpire)
		st.newAlertLocked(
			domain.AlertBruteForce,
			domain.SeverityCritical,
			fmt.Sprintf("Admin account locked after repeated failures: %s", u.Username),
			u.Username,
			fmt.Sprintf("%d failed attempts", u.FailedAttempts),
		)
		st.persistLocked(ctx)
		secs := int(g.Config.AdminLockout / time.Second)
		return fail(domain.MessageAccountLocked(secs)), nil
	}

	if u.FailedAttempts == g.Config.BruteForceThreshold {
		st.newAlertLocked(
			domain.AlertBruteForce,
			domain.SeverityHigh,
			fmt.Sprintf("Possible brute force attack detected on: %s", u.Username),
			u.Username,
			fmt.Sprintf("%d failed attempts", u.FailedAttempts),
		)
	}
	st.persistLocked(ctx)
	return fail(domain.MessageInvalidCredentials), nil
}

// Logout clears the active session. Idempotent.
func (g *GateService) Logout(ctx context.Context) {
	st := g.State
	st.mu.Lock()
	defer st.mu.Unlock()

	st.clearSessionLocked()
	g.OTP.clearChallengeLocked()
	st.persistLocked(ctx)
}

// LockoutRemaining reports the seconds left on the admin lockout, zero when
// no lockout is standing.
func (g *GateService) LockoutRemaining() int {
	return g.lockout.Remaining()
}

// PruneAttempts drops burst-window entries older than the window. The gate
// already prunes on every login; this is the housekeeping entry point so an
// idle portal does not hold stale timestamps.
func (g *GateService) PruneAttempts() {
	st := g.State
	st.mu.Lock()
	defer st.mu.Unlock()
	g.pruneAttemptsLocked(st.now())
}

func (g *GateService) pruneAttemptsLocked(now time.Time) {
	cutoff := now.Add(-g.Config.BurstWindow)
	kept := g.attempts[:0]
	for _, t := range g.attempts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	g.attempts = kept
}

func (g *GateService) onLockoutExpire() {
	st := g.State
	st.mu.Lock()
	defer st.mu.Unlock()

	if u := st.findUserLocked(g.lockedUser); u != nil {
		u.FailedAttempts = 0
	}
	g.lockedUser = ""
	st.persistLocked(context.Background())
}

func fail(message string) domain.LoginResult {
	return domain.LoginResult{Success: false, Message: message}
}
