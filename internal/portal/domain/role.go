package domain

import "fmt"

// Role is the closed set of portal roles. Branching on a Role must be
// exhaustive; anything outside this set is rejected at the edge.
type Role string

const (
	RoleIntern   Role = "intern"
	RoleEmployee Role = "employee"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
	RoleBoss     Role = "boss"
	RoleBlueTeam Role = "blue_team"
)

// ParseRole validates a raw role string against the closed set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("domain: unknown role %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleIntern, RoleEmployee, RoleHR, RoleAdmin, RoleBoss, RoleBlueTeam:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// RequiresTwoFactor reports whether a correct password alone is not enough
// to establish a session for this role.
func (r Role) RequiresTwoFactor() bool {
	return r == RoleHR
}

// HasEmergencyPassword reports whether accounts of this role carry a
// secondary password used during emergency lockdown.
func (r Role) HasEmergencyPassword() bool {
	return r == RoleAdmin || r == RoleBoss
}

// Scopes maps a role onto the permission scopes minted into its session
// tokens. The mapping is generous for the exercise; the
// interesting restrictions live in the authentication gate, not here.
func (r Role) Scopes() []string {
	switch r {
	case RoleIntern:
		return []string{"portal:read"}
	case RoleEmployee:
		return []string{"portal:read"}
	case RoleHR:
		return []string{"portal:read", "hr:read"}
	case RoleAdmin:
		return []string{"portal:read", "upload:write", "admin:read"}
	case RoleBoss:
		return []string{"portal:read", "upload:write", "admin:read"}
	case RoleBlueTeam:
		return []string{"portal:read", "blueteam:read", "blueteam:write"}
	}
	return nil
}
