package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the default lifetime for portal session tokens.
// Long for a training exercise; a real deployment would keep this short.
const DefaultSessionTTL = 8 * time.Hour

// Claims are the portal session-token claims.
type Claims struct {
	jwt.RegisteredClaims

	// SID is the server-side session this token references. A token is only
	// as alive as the session it points at.
	SID string `json:"sid,omitempty"`

	// Role is the portal role string ("intern", "hr", "blue_team", ...).
	Role string `json:"role,omitempty"`

	// Scopes are the permission scopes derived from the role.
	Scopes []string `json:"scopes,omitempty"`

	// Username for the authenticated user.
	Username string `json:"username,omitempty"`

	// AMR records how the session was established:
	//	"pwd": password login
	//	"emergency": emergency-password login during lockdown
	//	"otp": one-time code completed the login (HR two-factor)
	AMR []string `json:"amr,omitempty"`
}

// NewSessionClaims builds minimally-correct claims for a portal session.
func NewSessionClaims(
	subject, sid string,
	role string,
	scopes, amr []string,
	ttl time.Duration,
	issuer string,
	username string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		SID:      sid,
		Role:     role,
		Scopes:   scopes,
		Username: username,
		AMR:      amr,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}

// HasScope reports whether the claims carry the given scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}
