package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shiphyhq/portal/internal/portal/domain"
	"github.com/shiphyhq/portal/internal/portal/store"
	"github.com/shiphyhq/portal/pkg/idx"
	"github.com/shiphyhq/portal/pkg/jwtx"
)

// State owns every piece of mutable portal state: the account table, the
// single active session and the system security state. All services share
// one State and serialize through its mutex, which maps the portal's
// single-operator model onto concurrent HTTP handlers.
type State struct {
	mu sync.Mutex

	users   []domain.UserAccount
	session *domain.Session
	system  domain.SystemState

	db  store.Store
	log *slog.Logger

	signer     jwtx.Signer
	issuer     string
	sessionTTL time.Duration

	// now is swappable for deterministic tests.
	now func() time.Time
}

type StateConfig struct {
	Store      store.Store
	Logger     *slog.Logger
	Signer     jwtx.Signer
	Issuer     string
	SessionTTL time.Duration

	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

func NewState(cfg StateConfig) *State {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = jwtx.DefaultSessionTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &State{
		users:      domain.SeedUsers(),
		system:     domain.DefaultSystemState(),
		db:         cfg.Store,
		log:        cfg.Logger,
		signer:     cfg.Signer,
		issuer:     cfg.Issuer,
		sessionTTL: cfg.SessionTTL,
		now:        cfg.Now,
	}
}

// Load restores users, session and system state from snapshots. A missing
// or unreadable snapshot falls back to defaults for that record only; a
// half-corrupt database never prevents the portal from booting.
func (s *State) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	snaps := s.db.Snapshots()

	var users []domain.UserAccount
	if ok := s.loadSnapshot(ctx, snaps, store.SnapshotUsers, &users); ok && len(users) > 0 {
		s.users = users
	}

	var session *domain.Session
	if ok := s.loadSnapshot(ctx, snaps, store.SnapshotSession, &session); ok {
		s.session = session
	}

	var system domain.SystemState
	if ok := s.loadSnapshot(ctx, snaps, store.SnapshotSecurityState, &system); ok && system.SecurityLevel.Valid() {
		if system.BlockedUsers == nil {
			system.BlockedUsers = []string{}
		}
		if system.Announcements == nil {
			system.Announcements = []domain.Announcement{}
		}
		if system.SecurityAlerts == nil {
			system.SecurityAlerts = []domain.SecurityAlert{}
		}
		s.system = system
	}

	return nil
}

// loadSnapshot decodes one named snapshot into out. It reports whether out
// now holds usable data; not-found and corrupt records both come back false.
func (s *State) loadSnapshot(ctx context.Context, snaps store.Snapshots, name string, out any) bool {
	data, err := snaps.Get(ctx, name)
	if err != nil {
		if err != store.ErrNotFound {
			s.log.WarnContext(ctx, "snapshot read failed, using defaults",
				slog.String("snapshot", name),
				slog.Any("error", err))
		}
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.log.WarnContext(ctx, "snapshot corrupt, using defaults",
			slog.String("snapshot", name),
			slog.Any("error", err))
		return false
	}

	return true
}

// persistLocked writes all three state records in one transaction.
// Persistence is best effort: a write failure is logged and the in-memory
// state remains authoritative for the process lifetime.
func (s *State) persistLocked(ctx context.Context) {
	if s.db == nil {
		return
	}

	usersJSON, err := json.Marshal(s.users)
	if err != nil {
		s.log.ErrorContext(ctx, "encode users snapshot", slog.Any("error", err))
		return
	}
	sessionJSON, err := json.Marshal(s.session)
	if err != nil {
		s.log.ErrorContext(ctx, "encode session snapshot", slog.Any("error", err))
		return
	}
	systemJSON, err := json.Marshal(s.system)
	if err != nil {
		s.log.ErrorContext(ctx, "encode security state snapshot", slog.Any("error", err))
		return
	}

	err = s.db.WithTx(ctx, func(tx store.Tx) error {
		snaps := tx.Snapshots()
		if err := snaps.Put(ctx, store.SnapshotUsers, usersJSON); err != nil {
			return fmt.Errorf("users: %w", err)
		}
		if err := snaps.Put(ctx, store.SnapshotSession, sessionJSON); err != nil {
			return fmt.Errorf("session: %w", err)
		}
		if err := snaps.Put(ctx, store.SnapshotSecurityState, systemJSON); err != nil {
			return fmt.Errorf("security state: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.ErrorContext(ctx, "persist snapshots", slog.Any("error", err))
	}
}

// findUserLocked returns a pointer into the account table, or nil.
func (s *State) findUserLocked(username string) *domain.UserAccount {
	for i := range s.users {
		if s.users[i].Username == username {
			return &s.users[i]
		}
	}
	return nil
}

// establishSessionLocked replaces the active session with a fresh one for u
// and mints a bearer token referencing it.
func (s *State) establishSessionLocked(u *domain.UserAccount, amr []string) (string, error) {
	now := s.now().UTC()

	sess := domain.Session{
		ID:        idx.NewAt(now).String(),
		Username:  u.Username,
		Role:      u.Role,
		StartedAt: now,
	}

	claims := jwtx.NewSessionClaims(
		u.Username, sess.ID,
		u.Role.String(),
		u.Role.Scopes(), amr,
		s.sessionTTL,
		s.issuer,
		u.Username,
		now,
	)

	token, err := s.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	s.session = &sess
	u.LastLogin = &now
	return token, nil
}

// clearSessionLocked ends the active session, orphaning every token that
// references it.
func (s *State) clearSessionLocked() {
	s.session = nil
}

// SessionByID resolves a session id from a verified token to the live
// session. A stale id (session cleared or replaced) comes back false.
func (s *State) SessionByID(id string) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil || s.session.ID != id {
		return domain.Session{}, false
	}
	return *s.session, true
}

// newAlertLocked prepends a security alert, keeping newest-first order.
func (s *State) newAlertLocked(
	typ domain.AlertType,
	severity domain.AlertSeverity,
	message, username, details string,
) {
	now := s.now().UTC()
	alert := domain.SecurityAlert{
		ID:        idx.NewAt(now).String(),
		Type:      typ,
		Severity:  severity,
		Message:   message,
		Username:  username,
		Details:   details,
		Timestamp: now,
	}
	s.system.SecurityAlerts = append([]domain.SecurityAlert{alert}, s.system.SecurityAlerts...)
}

// newAnnouncementLocked prepends an announcement, keeping newest-first order.
func (s *State) newAnnouncementLocked(
	title, message string,
	typ domain.AnnouncementType,
	forRoles []domain.Role,
) {
	now := s.now().UTC()
	ann := domain.Announcement{
		ID:        idx.NewAt(now).String(),
		Title:     title,
		Message:   message,
		Type:      typ,
		ForRoles:  forRoles,
		Timestamp: now,
	}
	s.system.Announcements = append([]domain.Announcement{ann}, s.system.Announcements...)
}
