package service

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shiphyhq/portal/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually-advanced clock for deterministic time-derived
// secrets and window expiry checks.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixtureConfig struct {
	gate   GateConfig
	otp    OTPConfig
	upload UploadConfig
	now    func() time.Time
}

type fixture struct {
	state    *State
	gate     *GateService
	otp      *OTPService
	upload   *UploadService
	security *SecurityService
}

// newFixture wires a full service set over in-memory state, no database.
func newFixture(t *testing.T, cfg fixtureConfig) *fixture {
	t.Helper()

	signer, err := jwtx.GenerateSignerEdDSA("test-key")
	require.NoError(t, err)

	state := NewState(StateConfig{
		Signer: signer,
		Issuer: "shiphy-portal-test",
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    cfg.now,
	})

	otp := NewOTPService(state, cfg.otp)
	gate := NewGateService(state, otp, cfg.gate)
	upload := NewUploadService(state, cfg.upload)
	security := NewSecurityService(state, otp)

	return &fixture{
		state:    state,
		gate:     gate,
		otp:      otp,
		upload:   upload,
		security: security,
	}
}
