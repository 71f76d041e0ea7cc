package domain

import "fmt"

// Login result messages. These are the fixed human-readable strings the
// presentation layer displays verbatim; MessageTwoFactorRequired is the one
// protocol sentinel callers must special-case.
const (
	MessageTwoFactorRequired = "2FA_REQUIRED"

	MessageLoginSuccess          = "Login successful"
	MessageEmergencyLoginSuccess = "Emergency login successful"
	MessageInvalidCredentials    = "Invalid credentials"
	MessageAccountBlocked        = "Account is blocked. Contact administrator."
	MessageEmergencyRequired     = "Emergency mode active. Use emergency password."
	MessageInvalidEmergency      = "Invalid emergency password"
	MessageTooManyRequests       = "Too many requests. Please slow down."
)

// MessageAccountLocked renders the admin lockout failure with the seconds
// remaining, the one login message that is not a fixed string.
func MessageAccountLocked(seconds int) string {
	return fmt.Sprintf("Account locked due to multiple failed attempts. Try again in %d seconds.", seconds)
}

// LoginResult is what the authentication gate hands back to the caller.
// Token is only set when a session was actually established.
type LoginResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// TwoFactorRequired reports whether the caller must route into the OTP
// verification flow before a session exists.
func (r LoginResult) TwoFactorRequired() bool {
	return r.Success && r.Message == MessageTwoFactorRequired
}
