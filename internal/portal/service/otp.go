package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shiphyhq/portal/internal/portal/domain"
)

// ErrNoChallenge is returned when an OTP operation arrives with no HR login
// pending verification.
var ErrNoChallenge = errors.New("service: no verification challenge in progress")

// OTPConfig tunes the HR two-factor engine.
type OTPConfig struct {
	// MaxAttempts before the cooldown trips. Runtime-settable afterwards;
	// that mutability being reachable is part of the exercise.
	MaxAttempts int

	// Cooldown after attempts are exhausted. On expiry the attempt counter
	// resets and a fresh code is generated.
	Cooldown time.Duration
}

func (c *OTPConfig) applyDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 30 * time.Second
	}
}

// OTPResult is the outcome of one verification attempt.
type OTPResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	Token           string `json:"token,omitempty"`
	AttemptsLeft    int    `json:"attempts_left"`
	CooldownSeconds int    `json:"cooldown_seconds,omitempty"`
}

// OTPService runs the HR two-factor challenge. The code derivation is
// deliberately reversible from the seed, and the whole challenge state is
// inspectable through the service's getters; recovering the code without
// receiving it is the intended solve.
type OTPService struct {
	State  *State
	Config OTPConfig

	// challenge and pendingUser are guarded by State.mu. pendingUser is the
	// HR account whose password already checked out and who becomes the
	// session owner once a code matches.
	challenge   *domain.OTPChallenge
	pendingUser string
	maxAttempts int

	cooldown *countdown
}

func NewOTPService(state *State, cfg OTPConfig) *OTPService {
	cfg.applyDefaults()
	return &OTPService{
		State:       state,
		Config:      cfg,
		maxAttempts: cfg.MaxAttempts,
		cooldown:    newCountdown(state.now),
	}
}

// otpCode derives the 6-digit code from a whole-second timestamp seed. The
// arithmetic is fixed; the predictability is the curriculum, not a bug.
func otpCode(seed int64) string {
	n := ((seed*7)+13*(seed%100)+42)%900000 + 100000
	s := strconv.FormatInt(n, 10)
	if len(s) > 6 {
		s = s[:6]
	}
	return s
}

// beginChallengeLocked starts a fresh challenge for username. Called by the
// gate after an HR password check succeeds. Caller holds State.mu.
func (o *OTPService) beginChallengeLocked(ctx context.Context, username string) {
	o.pendingUser = username
	o.cooldown.Stop()
	o.generateLocked(ctx)
}

// generateLocked mints a new seed and code and resets the attempt counter.
// Caller holds State.mu.
func (o *OTPService) generateLocked(ctx context.Context) {
	seed := o.State.now().Unix()
	o.challenge = &domain.OTPChallenge{
		Seed:        seed,
		Code:        otpCode(seed),
		MaxAttempts: o.maxAttempts,
	}
	o.State.log.DebugContext(ctx, "otp generated",
		slog.Int64("seed", seed),
		slog.String("code", o.challenge.Code))
}

func (o *OTPService) clearChallengeLocked() {
	o.challenge = nil
	o.pendingUser = ""
	o.cooldown.Stop()
}

// Verify checks a submitted code against the pending challenge and, on a
// match, establishes the session for the pending HR account.
func (o *OTPService) Verify(ctx context.Context, submitted string) (OTPResult, error) {
	st := o.State
	st.mu.Lock()
	defer st.mu.Unlock()

	if o.challenge == nil || o.pendingUser == "" {
		return OTPResult{}, ErrNoChallenge
	}

	if remaining := o.cooldown.Remaining(); remaining > 0 {
		return OTPResult{
			Message:         fmt.Sprintf("Please wait %d seconds before trying again", remaining),
			CooldownSeconds: remaining,
		}, nil
	}

	if o.challenge.Attempts >= o.maxAttempts {
		secs := int(o.Config.Cooldown / time.Second)
		o.cooldown.Start(o.Config.Cooldown, o.onCooldownExpire)
		return OTPResult{
			Message:         fmt.Sprintf("Maximum OTP attempts exceeded. Please wait %d seconds.", secs),
			CooldownSeconds: secs,
		}, nil
	}

	o.challenge.Attempts++

	if submitted != o.challenge.Code {
		left := o.maxAttempts - o.challenge.Attempts
		if left < 0 {
			left = 0
		}
		return OTPResult{
			Message:      fmt.Sprintf("Invalid OTP. %d attempts remaining.", left),
			AttemptsLeft: left,
		}, nil
	}

	u := st.findUserLocked(o.pendingUser)
	if u == nil {
		// Pending account vanished between password check and code entry.
		o.clearChallengeLocked()
		return OTPResult{}, ErrNoChallenge
	}

	u.FailedAttempts = 0
	token, err := st.establishSessionLocked(u, []string{"pwd", "otp"})
	if err != nil {
		return OTPResult{}, err
	}

	st.log.InfoContext(ctx, "two-factor login",
		slog.String("username", u.Username))

	o.clearChallengeLocked()
	st.persistLocked(ctx)

	return OTPResult{
		Success: true,
		Message: "2FA verification successful",
		Token:   token,
	}, nil
}

func (o *OTPService) onCooldownExpire() {
	st := o.State
	st.mu.Lock()
	defer st.mu.Unlock()

	if o.challenge == nil {
		return
	}
	o.generateLocked(context.Background())
}

// Resend discards the current code and issues a fresh challenge for the
// pending HR login, clearing any running cooldown.
func (o *OTPService) Resend(ctx context.Context) (domain.OTPChallenge, error) {
	st := o.State
	st.mu.Lock()
	defer st.mu.Unlock()

	if o.pendingUser == "" {
		return domain.OTPChallenge{}, ErrNoChallenge
	}

	o.cooldown.Stop()
	o.generateLocked(ctx)
	return o.snapshotLocked(), nil
}

// Challenge exposes the live challenge, code included. That exposure is
// intentional.
func (o *OTPService) Challenge() (domain.OTPChallenge, bool) {
	st := o.State
	st.mu.Lock()
	defer st.mu.Unlock()

	if o.challenge == nil {
		return domain.OTPChallenge{}, false
	}
	return o.snapshotLocked(), true
}

func (o *OTPService) snapshotLocked() domain.OTPChallenge {
	c := *o.challenge
	c.MaxAttempts = o.maxAttempts
	c.CooldownSeconds = o.cooldown.Remaining()
	return c
}

// MaxAttempts reads the current attempt ceiling.
func (o *OTPService) MaxAttempts() int {
	st := o.State
	st.mu.Lock()
	defer st.mu.Unlock()
	return o.maxAttempts
}

// SetMaxAttempts reconfigures the attempt ceiling at runtime. The setter is
// reachable by the same trust domain the verifier tests; raising it is a
// documented bypass path for the exercise.
func (o *OTPService) SetMaxAttempts(n int) error {
	if n < 1 {
		return fmt.Errorf("service: max attempts must be >= 1, got %d", n)
	}

	st := o.State
	st.mu.Lock()
	defer st.mu.Unlock()

	o.maxAttempts = n
	if o.challenge != nil {
		o.challenge.MaxAttempts = n
	}
	return nil
}
