package domain

import "time"

// SecurityLevel is the advisory display state shown on the login portal.
// It is settable independently of emergency mode.
type SecurityLevel string

const (
	LevelNormal   SecurityLevel = "normal"
	LevelElevated SecurityLevel = "elevated"
	LevelLockdown SecurityLevel = "lockdown"
)

func (l SecurityLevel) Valid() bool {
	switch l {
	case LevelNormal, LevelElevated, LevelLockdown:
		return true
	}
	return false
}

// AnnouncementType categorizes broadcast announcements.
type AnnouncementType string

const (
	AnnouncementGeneral  AnnouncementType = "general"
	AnnouncementUrgent   AnnouncementType = "urgent"
	AnnouncementFTE      AnnouncementType = "fte"
	AnnouncementSecurity AnnouncementType = "security"
)

type Announcement struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      AnnouncementType `json:"type"`
	ForRoles  []Role           `json:"for_roles,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// AlertType tags security alerts with the kind of event observed.
type AlertType string

const (
	AlertLoginAttempt       AlertType = "login_attempt"
	AlertBruteForce         AlertType = "brute_force"
	AlertUnauthorizedAccess AlertType = "unauthorized_access"
	AlertSpamAttack         AlertType = "spam_attack"
)

// AlertSeverity ranks how loudly the blue team dashboard should complain.
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

type SecurityAlert struct {
	ID        string        `json:"id"`
	Type      AlertType     `json:"type"`
	Severity  AlertSeverity `json:"severity"`
	Message   string        `json:"message"`
	Username  string        `json:"username"`
	Details   string        `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// SystemState is the portal-wide mutable security state. There is exactly
// one instance, owned by the service layer; every mutation goes through a
// named operation so the invariants hold:
//
//   - BlockedUsers and each account's IsBlocked flag agree at all times.
//   - FTELoginAvailable only ever transitions false -> true.
//   - Announcements and SecurityAlerts are ordered newest first.
type SystemState struct {
	EmergencyMode     bool            `json:"emergency_mode"`
	SecurityLevel     SecurityLevel   `json:"security_level"`
	BlockedUsers      []string        `json:"blocked_users"`
	FTELoginAvailable bool            `json:"fte_login_available"`
	Announcements     []Announcement  `json:"announcements"`
	SecurityAlerts    []SecurityAlert `json:"security_alerts"`
}

// DefaultSystemState is the state a fresh portal boots with.
func DefaultSystemState() SystemState {
	return SystemState{
		EmergencyMode:     false,
		SecurityLevel:     LevelNormal,
		BlockedUsers:      []string{},
		FTELoginAvailable: false,
		Announcements:     []Announcement{},
		SecurityAlerts:    []SecurityAlert{},
	}
}

// IsBlockedUser checks the authoritative blocked set.
func (s *SystemState) IsBlockedUser(username string) bool {
	for _, u := range s.BlockedUsers {
		if u == username {
			return true
		}
	}
	return false
}
