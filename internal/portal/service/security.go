package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shiphyhq/portal/internal/portal/domain"
)

var (
	// ErrUnknownUser is returned by blue-team user operations targeting a
	// username that is not in the account table.
	ErrUnknownUser = errors.New("service: unknown user")

	// ErrInvalidLevel is returned for a security level outside the closed set.
	ErrInvalidLevel = errors.New("service: invalid security level")

	// ErrInvalidAnnouncement is returned for announcements with a bad type
	// or missing title.
	ErrInvalidAnnouncement = errors.New("service: invalid announcement")

	// ErrInvalidAlert is returned for alerts with an unknown type or severity.
	ErrInvalidAlert = errors.New("service: invalid alert")
)

// SecurityService carries the privileged blue-team operations: blocking,
// session kicks, emergency mode, the FTE latch, security level, and the
// announcement/alert feeds. It is the only writer of SystemState outside
// the authentication gate's alert emission.
type SecurityService struct {
	State *State
	OTP   *OTPService
}

func NewSecurityService(state *State, otp *OTPService) *SecurityService {
	return &SecurityService{State: state, OTP: otp}
}

// BlockUser blocks an account. The blocked set and the account's own flag
// move together; they must never disagree.
func (s *SecurityService) BlockUser(ctx context.Context, username string) error {
	st := s.State
	st.mu.Lock()
	defer st.mu.Unlock()

	u := st.findUserLocked(username)
	if u == nil {
		return fmt.Errorf("%w: %s", ErrUnknownUser, username)
	}

	u.IsBlocked = true
	if !st.system.IsBlockedUser(username) {
		st.system.BlockedUsers = append(st.system.BlockedUsers, username)
	}
	st.newAlertLocked(
		domain.AlertUnauthorizedAccess,
		domain.SeverityMedium,
		fmt.Sprintf("User blocked by Blue Team: %s", username),
		username,
		"",
	)

	st.log.InfoContext(ctx, "user blocked", slog.String("username", username))
	st.persistLocked(ctx)
	return nil
}

// UnblockUser reverses BlockUser. No alert; restoring access is routine.
func (s *SecurityService) UnblockUser(ctx context.Context, username string) error {
	st := s.State
	st.mu.Lock()
	defer st.mu.Unlock()

	u := st.findUserLocked(username)
	if u == nil {
		return fmt.Errorf("%w: %s", ErrUnknownUser, username)
	}

	u.IsBlocked = false
	kept := st.system.BlockedUsers[:0]
	for _, b := range st.system.BlockedUsers {
		if b != username {
			kept = append(kept, b)
		}
	}
	st.system.BlockedUsers = kept

	st.log.InfoContext(ctx, "user unblocked", slog.String("username", username))
	st.persistLocked(ctx)
	return nil
}

// KickAll terminates the active session and any pending two-factor flow.
func (s *SecurityService) KickAll(ctx context.Context) {
	st := s.State
	st.mu.Lock()
	defer st.mu.Unlock()

	s.kickAllLocked(ctx)
	st.persistLocked(ctx)
}

func (s *SecurityService) kickAllLocked(ctx context.Context) {
	s.State.clearSessionLocked()
	s.OTP.clearChallengeLocked()
	s.State.log.InfoContext(ctx, "all sessions terminated")
}

// TriggerEmergency puts the portal into emergency lockdown: everyone is
// kicked and admin/boss must re-authenticate with emergency passwords.
func (s *SecurityService) TriggerEmergency(ctx context.Context) {
	st := s.State
	st.mu.Lock()
	defer st.mu.Unlock()

	st.system.EmergencyMode = true
	st.system.SecurityLevel = domain.LevelLockdown
	s.kickAllLocked(ctx)
	st.newAnnouncementLocked(
		"EMERGENCY SECURITY LOCKDOWN",
		"All employees must re-authenticate using emergency passwords provided during onboarding.",
		domain.AnnouncementSecurity,
		nil,
	)

	st.log.WarnContext(ctx, "emergency mode activated")
	st.persistLocked(ctx)
}

// DisableEmergency ends the lockdown without re-establishing any session.
func (s *SecurityService) DisableEmergency(ctx context.Context) {
	st := s.State
	st.mu.Lock()
	defer st.mu.Unlock()

	st.system.EmergencyMode = false
	st.system.SecurityLevel = domain.LevelNormal

	st.log.InfoContext(ctx, "emergency mode disabled")
	st.persistLocked(ctx)
}

// EnableFTELogin opens the FTE conversion portal. One-way: once on, it
// stays on, and the announcement only publishes on the first enable.
func (s *SecurityService) EnableFTELogin(ctx context.Context) {
	st := s.State
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.system.FTELoginAvailable {
		return
	}
	st.system.FTELoginAvailable = true
	st.newAnnouncementLocked(
		"FTE Conversion Portal Now Open",
		"Interns selected for Full-Time Employment can now access the FTE Login portal to complete their conversion process.",
		domain.AnnouncementFTE,
		nil,
	)

	st.log.InfoContext(ctx, "fte login enabled")
	st.persistLocked(ctx)
}

// UpdateSecurityLevel sets the advisory level directly, independent of
// emergency mode.
func (s *SecurityService) UpdateSecurityLevel(ctx context.Context, level domain.SecurityLevel) error {
	if !level.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, level)
	}

	st := s.State
	st.mu.Lock()
	defer st.mu.Unlock()

	st.system.SecurityLevel = level
	st.log.InfoContext(ctx, "security level updated", slog.String("level", string(level)))
	st.persistLocked(ctx)
	return nil
}

// AddAnnouncement publishes a broadcast announcement.
func (s *SecurityService) AddAnnouncement(ctx context.Context, title, message string, typ domain.AnnouncementType, forRoles []domain.Role) error {
	switch typ {
	case domain.AnnouncementGeneral, domain.AnnouncementUrgent, domain.AnnouncementFTE, domain.AnnouncementSecurity:
	default:
		return fmt.Errorf("%w: type %q", ErrInvalidAnnouncement, typ)
	}
	if title == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidAnnouncement)
	}
	for _, r := range forRoles {
		if !r.Valid() {
			return fmt.Errorf("%w: role %q", ErrInvalidAnnouncement, r)
		}
	}

	st := s.State
	st.mu.Lock()
	defer st.mu.Unlock()

	st.newAnnouncementLocked(title, message, typ, forRoles)
	st.persistLocked(ctx)
	return nil
}

// AddAlert records a manual security alert on the feed.
func (s *SecurityService) AddAlert(ctx context.Context, typ domain.AlertType, severity domain.AlertSeverity, message, username, details string) error {
	switch typ {
	case domain.AlertLoginAttempt, domain.AlertBruteForce, domain.AlertUnauthorizedAccess, domain.AlertSpamAttack:
	default:
		return fmt.Errorf("%w: type %q", ErrInvalidAlert, typ)
	}
	switch severity {
	case domain.SeverityLow, domain.SeverityMedium, domain.SeverityHigh, domain.SeverityCritical:
	default:
		return fmt.Errorf("%w: severity %q", ErrInvalidAlert, severity)
	}

	st := s.State
	st.mu.Lock()
	defer st.mu.Unlock()

	st.newAlertLocked(typ, severity, message, username, details)
	st.persistLocked(ctx)
	return nil
}

// ClearAlerts empties the alert feed.
func (s *SecurityService) ClearAlerts(ctx context.Context) {
	st := s.State
	st.mu.Lock()
	defer st.mu.Unlock()

	st.system.SecurityAlerts = []domain.SecurityAlert{}
	st.log.InfoContext(ctx, "security alerts cleared")
	st.persistLocked(ctx)
}

// SystemState returns a copy of the live security state.
func (s *SecurityService) SystemState() domain.SystemState {
	st := s.State
	st.mu.Lock()
	defer st.mu.Unlock()

	out := st.system
	out.BlockedUsers = append([]string(nil), st.system.BlockedUsers...)
	out.Announcements = append([]domain.Announcement(nil), st.system.Announcements...)
	out.SecurityAlerts = append([]domain.SecurityAlert(nil), st.system.SecurityAlerts...)
	return out
}

// Users returns the full account table, credentials and recovery secrets
// included. This is the blue-team view; its generosity is intentional.
func (s *SecurityService) Users() []domain.UserAccount {
	st := s.State
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]domain.UserAccount(nil), st.users...)
}

// CurrentSession reports the active session, if any.
func (s *SecurityService) CurrentSession() (domain.Session, bool) {
	st := s.State
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.session == nil {
		return domain.Session{}, false
	}
	return *st.session, true
}
