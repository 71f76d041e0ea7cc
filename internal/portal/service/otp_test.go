package service

import (
	"context"
	"testing"
	"time"

	"github.com/shiphyhq/portal/internal/portal/domain"
	"github.com/stretchr/testify/require"
)

func TestOTPCodeDerivation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seed int64
		want string
	}{
		{0, "100042"},
		{1_700_000_000, "300042"},
		{123_456_789, "298722"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, otpCode(tt.seed), "seed %d", tt.seed)
	}
}

// startHRLogin runs the password half of the HR flow and returns the live
// challenge.
func startHRLogin(t *testing.T, f *fixture) domain.OTPChallenge {
	t.Helper()

	res, err := f.gate.Login(context.Background(), "hr_team", "HR@9999", false)
	require.NoError(t, err)
	require.True(t, res.TwoFactorRequired())

	ch, ok := f.otp.Challenge()
	require.True(t, ok)
	return ch
}

func TestOTPVerifyEstablishesSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureConfig{gate: quietGate()})
	ch := startHRLogin(t, f)

	res, err := f.otp.Verify(context.Background(), ch.Code)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotEmpty(t, res.Token)

	sess, ok := f.security.CurrentSession()
	require.True(t, ok)
	require.Equal(t, "hr_team", sess.Username)
	require.Equal(t, domain.RoleHR, sess.Role)

	// Challenge is consumed.
	_, ok = f.otp.Challenge()
	require.False(t, ok)
	_, err = f.otp.Verify(context.Background(), ch.Code)
	require.ErrorIs(t, err, ErrNoChallenge)
}

func TestOTPVerifyWrongCode(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureConfig{gate: quietGate(), otp: OTPConfig{MaxAttempts: 3}})
	startHRLogin(t, f)

	res, err := f.otp.Verify(context.Background(), "000000")
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, 2, res.AttemptsLeft)
	require.Contains(t, res.Message, "2 attempts remaining")

	_, ok := f.security.CurrentSession()
	require.False(t, ok)
}

func TestOTPVerifyWithoutChallenge(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureConfig{gate: quietGate()})

	_, err := f.otp.Verify(context.Background(), "123456")
	require.ErrorIs(t, err, ErrNoChallenge)
}

func TestOTPCooldownAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureConfig{
		gate: quietGate(),
		otp:  OTPConfig{MaxAttempts: 1, Cooldown: 150 * time.Millisecond},
	})
	startHRLogin(t, f)
	ctx := context.Background()

	res, err := f.otp.Verify(ctx, "000000")
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Zero(t, res.AttemptsLeft)

	// Attempts exhausted: this call trips the cooldown.
	res, err = f.otp.Verify(ctx, "000000")
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Contains(t, res.Message, "Maximum OTP attempts exceeded")

	// During the cooldown nothing moves.
	res, err = f.otp.Verify(ctx, "000000")
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Contains(t, res.Message, "before trying again")
	require.Positive(t, res.CooldownSeconds)

	// Cooldown expiry resets attempts and regenerates the challenge.
	require.Eventually(t, func() bool {
		ch, ok := f.otp.Challenge()
		return ok && ch.Attempts == 0
	}, 2*time.Second, 20*time.Millisecond)

	ch, ok := f.otp.Challenge()
	require.True(t, ok)
	res, err = f.otp.Verify(ctx, ch.Code)
	require.NoError(t, err)
	require.True(t, res.Success)
}

func TestOTPResend(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureConfig{
		gate: quietGate(),
		otp:  OTPConfig{MaxAttempts: 1, Cooldown: time.Hour},
	})
	startHRLogin(t, f)
	ctx := context.Background()

	// Exhaust attempts and trip the long cooldown.
	_, err := f.otp.Verify(ctx, "000000")
	require.NoError(t, err)
	_, err = f.otp.Verify(ctx, "000000")
	require.NoError(t, err)

	ch, err := f.otp.Resend(ctx)
	require.NoError(t, err)
	require.Zero(t, ch.Attempts)
	require.Zero(t, ch.CooldownSeconds, "resend clears any running cooldown")
	require.Len(t, ch.Code, 6)

	res, err := f.otp.Verify(ctx, ch.Code)
	require.NoError(t, err)
	require.True(t, res.Success)
}

func TestOTPResendWithoutChallenge(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureConfig{gate: quietGate()})

	_, err := f.otp.Resend(context.Background())
	require.ErrorIs(t, err, ErrNoChallenge)
}

func TestOTPMaxAttemptsTunable(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureConfig{gate: quietGate(), otp: OTPConfig{MaxAttempts: 3}})
	startHRLogin(t, f)

	require.Equal(t, 3, f.otp.MaxAttempts())
	require.NoError(t, f.otp.SetMaxAttempts(99))
	require.Equal(t, 99, f.otp.MaxAttempts())

	ch, ok := f.otp.Challenge()
	require.True(t, ok)
	require.Equal(t, 99, ch.MaxAttempts)

	require.Error(t, f.otp.SetMaxAttempts(0))
}
