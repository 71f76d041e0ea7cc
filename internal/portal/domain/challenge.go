package domain

import "time"

// OTPChallenge is the HR two-factor challenge. The whole struct is
// inspectable at runtime, code included; recovering the code from the seed
// (or from the exposed state) is one of the intended attack paths.
type OTPChallenge struct {
	Seed        int64  `json:"seed"`
	Code        string `json:"code"`
	Attempts    int    `json:"attempts"`
	MaxAttempts int    `json:"max_attempts"`

	// CooldownSeconds is the remaining cooldown, zero when verification
	// is open.
	CooldownSeconds int `json:"cooldown_seconds"`
}

// UploadChallenge is the flag-gated document upload state.
type UploadChallenge struct {
	Unlocked     bool       `json:"unlocked"`
	WindowExpiry *time.Time `json:"window_expiry,omitempty"`
	Attempted    bool       `json:"attempted"`
}
