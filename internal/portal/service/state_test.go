package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shiphyhq/portal/internal/portal/domain"
	"github.com/shiphyhq/portal/internal/portal/store"
	"github.com/shiphyhq/portal/internal/portal/store/drivers/sqlite"
	"github.com/shiphyhq/portal/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newPersistentFixture(t *testing.T, db store.Store) *fixture {
	t.Helper()

	signer, err := jwtx.GenerateSignerEdDSA("test-key")
	require.NoError(t, err)

	state := NewState(StateConfig{
		Store:  db,
		Signer: signer,
		Issuer: "shiphy-portal-test",
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, state.Load(context.Background()))

	otp := NewOTPService(state, OTPConfig{})
	return &fixture{
		state:    state,
		gate:     NewGateService(state, otp, quietGate()),
		otp:      otp,
		upload:   NewUploadService(state, UploadConfig{}),
		security: NewSecurityService(state, otp),
	}
}

func TestStateSurvivesReload(t *testing.T) {
	ctx := context.Background()

	db, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.ApplyMigrations())

	f := newPersistentFixture(t, db)

	require.NoError(t, f.security.BlockUser(ctx, "intern_001"))
	f.security.TriggerEmergency(ctx)

	res, err := f.gate.Login(ctx, "boss", "58913022EEHS", true)
	require.NoError(t, err)
	require.True(t, res.Success)

	// A second service set over the same database sees the same world.
	g := newPersistentFixture(t, db)

	st := g.security.SystemState()
	require.True(t, st.EmergencyMode)
	require.Equal(t, domain.LevelLockdown, st.SecurityLevel)
	require.Contains(t, st.BlockedUsers, "intern_001")
	require.NotEmpty(t, st.Announcements)

	sess, ok := g.security.CurrentSession()
	require.True(t, ok)
	require.Equal(t, "boss", sess.Username)

	for _, u := range g.security.Users() {
		switch u.Username {
		case "intern_001":
			require.True(t, u.IsBlocked)
		case "boss":
			require.NotNil(t, u.LastLogin)
		}
	}
}

func TestCorruptSnapshotFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()

	db, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.ApplyMigrations())

	require.NoError(t, db.Snapshots().Put(ctx, store.SnapshotUsers, []byte("not json")))
	require.NoError(t, db.Snapshots().Put(ctx, store.SnapshotSecurityState, []byte("{broken")))

	f := newPersistentFixture(t, db)

	require.Len(t, f.security.Users(), len(domain.SeedUsers()))
	st := f.security.SystemState()
	require.False(t, st.EmergencyMode)
	require.Equal(t, domain.LevelNormal, st.SecurityLevel)
	require.Empty(t, st.BlockedUsers)
}
