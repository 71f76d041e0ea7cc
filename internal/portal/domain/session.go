package domain

import "time"

// Session is the single authoritative portal session. Bearer tokens
// reference it by ID; clearing the session invalidates every outstanding
// token at once, which is exactly what kick-all and emergency lockdown
// rely on.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	StartedAt time.Time `json:"started_at"`
}
