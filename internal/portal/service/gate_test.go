package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shiphyhq/portal/internal/portal/domain"
	"github.com/stretchr/testify/require"
)

// quietGate raises the burst threshold so tests that loop logins don't trip
// the automated-attack check by accident.
func quietGate() GateConfig {
	return GateConfig{BurstThreshold: 1000}
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureConfig{gate: quietGate()})
	ctx := context.Background()

	res, err := f.gate.Login(ctx, "intern_001", "Password@123", false)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, domain.MessageLoginSuccess, res.Message)
	require.NotEmpty(t, res.Token)

	sess, ok := f.security.CurrentSession()
	require.True(t, ok)
	require.Equal(t, "intern_001", sess.Username)
	require.Equal(t, domain.RoleIntern, sess.Role)

	for _, u := range f.security.Users() {
		if u.Username == "intern_001" {
			require.NotNil(t, u.LastLogin)
			require.Zero(t, u.FailedAttempts)
		}
	}
}

func TestLoginUnknownUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureConfig{gate: quietGate()})

	res, err := f.gate.Login(context.Background(), "ghost", "whatever", false)
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, domain.MessageInvalidCredentials, res.Message)

	alerts := f.security.SystemState().SecurityAlerts
	require.Len(t, alerts, 1)
	require.Equal(t, domain.AlertLoginAttempt, alerts[0].Type)
	require.Equal(t, domain.SeverityLow, alerts[0].Severity)
	require.Equal(t, "ghost", alerts[0].Username)
}

func TestLoginWrongPasswordBruteForceAlert(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureConfig{gate: quietGate()})
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		res, err := f.gate.Login(ctx, "emp_001", "nope", false)
		require.NoError(t, err)
		require.False(t, res.Success)
		require.Equal(t, domain.MessageInvalidCredentials, res.Message)
	}

	var bruteForce int
	for _, a := range f.security.SystemState().SecurityAlerts {
		if a.Type == domain.AlertBruteForce && a.Severity == domain.SeverityHigh {
			bruteForce++
		}
	}
	require.Equal(t, 1, bruteForce, "exactly one high alert, on the 4th failure")

	// A success resets the counter.
	res, err := f.gate.Login(ctx, "emp_001", "EmpPass@456", false)
	require.NoError(t, err)
	require.True(t, res.Success)
	for _, u := range f.security.Users() {
		if u.Username == "emp_001" {
			require.Zero(t, u.FailedAttempts)
		}
	}
}

func TestLoginHRRequiresTwoFactor(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureConfig{gate: quietGate()})

	res, err := f.gate.Login(context.Background(), "hr_team", "HR@9999", false)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, domain.MessageTwoFactorRequired, res.Message)
	require.True(t, res.TwoFactorRequired())
	require.Empty(t, res.Token, "no token before the code is verified")

	_, ok := f.security.CurrentSession()
	require.False(t, ok, "no session before the code is verified")

	ch, ok := f.otp.Challenge()
	require.True(t, ok)
	require.Len(t, ch.Code, 6)
	require.Zero(t, ch.Attempts)
}

func TestLoginBurstDetection(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureConfig{})
	ctx := context.Background()

	for i := 0; i < 9; i++ {
		res, err := f.gate.Login(ctx, fmt.Sprintf("ghost_%d", i), "x", false)
		require.NoError(t, err)
		require.NotEqual(t, domain.MessageTooManyRequests, res.Message)
	}

	res, err := f.gate.Login(ctx, "intern_001", "Password@123", false)
	require.NoError(t, err)
	require.False(t, res.Success, "burst check runs before credentials")
	require.Equal(t, domain.MessageTooManyRequests, res.Message)

	alerts := f.security.SystemState().SecurityAlerts
	require.Equal(t, domain.AlertBruteForce, alerts[0].Type)
	require.Equal(t, domain.SeverityCritical, alerts[0].Severity)
}

func TestLoginAdminLockout(t *testing.T) {
	t.Parallel()

	cfg := quietGate()
	cfg.AdminLockout = 150 * time.Millisecond
	f := newFixture(t, fixtureConfig{gate: cfg})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := f.gate.Login(ctx, "admin_abhishek", "wrong", false)
		require.NoError(t, err)
		require.Equal(t, domain.MessageInvalidCredentials, res.Message)
	}

	res, err := f.gate.Login(ctx, "admin_abhishek", "wrong", false)
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Contains(t, res.Message, "Account locked")

	alerts := f.security.SystemState().SecurityAlerts
	require.Equal(t, domain.AlertBruteForce, alerts[0].Type)
	require.Equal(t, domain.SeverityCritical, alerts[0].Severity)

	// During the lockout even the correct password is rejected, and the
	// counter does not move.
	res, err = f.gate.Login(ctx, "admin_abhishek", "Admin@123", false)
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Contains(t, res.Message, "Account locked")
	for _, u := range f.security.Users() {
		if u.Username == "admin_abhishek" {
			require.Equal(t, 3, u.FailedAttempts)
		}
	}

	// Lockout expiry resets the counter and restores normal login.
	require.Eventually(t, func() bool {
		r, err := f.gate.Login(ctx, "admin_abhishek", "Admin@123", false)
		return err == nil && r.Success
	}, 2*time.Second, 50*time.Millisecond)
}

func TestLoginBlockedUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureConfig{gate: quietGate()})
	ctx := context.Background()

	require.NoError(t, f.security.BlockUser(ctx, "emp_001"))

	res, err := f.gate.Login(ctx, "emp_001", "EmpPass@456", false)
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, domain.MessageAccountBlocked, res.Message)

	require.NoError(t, f.security.UnblockUser(ctx, "emp_001"))

	res, err = f.gate.Login(ctx, "emp_001", "EmpPass@456", false)
	require.NoError(t, err)
	require.True(t, res.Success)
}

func TestLoginEmergencyMode(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureConfig{gate: quietGate()})
	ctx := context.Background()

	f.security.TriggerEmergency(ctx)
	_, ok := f.security.CurrentSession()
	require.False(t, ok, "emergency kicks the active session")

	// Normal password path is refused for boss during lockdown.
	res, err := f.gate.Login(ctx, "boss", "1@mth3bossPr@k@5h", false)
	require.NoError(t, err)
	require.Equal(t, domain.MessageEmergencyRequired, res.Message)

	res, err = f.gate.Login(ctx, "boss", "1@mth3bossPr@k@5h", true)
	require.NoError(t, err)
	require.Equal(t, domain.MessageInvalidEmergency, res.Message)

	res, err = f.gate.Login(ctx, "boss", "58913022EEHS", true)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, domain.MessageEmergencyLoginSuccess, res.Message)
	require.NotEmpty(t, res.Token)

	// Lower roles keep logging in with their normal passwords.
	res, err = f.gate.Login(ctx, "intern_001", "Password@123", false)
	require.NoError(t, err)
	require.True(t, res.Success)

	f.security.DisableEmergency(ctx)
	st := f.security.SystemState()
	require.False(t, st.EmergencyMode)
	require.Equal(t, domain.LevelNormal, st.SecurityLevel)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureConfig{gate: quietGate()})
	ctx := context.Background()

	_, err := f.gate.Login(ctx, "intern_001", "Password@123", false)
	require.NoError(t, err)

	f.gate.Logout(ctx)
	_, ok := f.security.CurrentSession()
	require.False(t, ok)

	// Idempotent.
	f.gate.Logout(ctx)
}
