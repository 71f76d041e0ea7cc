package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) *EdDSASigner {
	t.Helper()

	s, err := GenerateSignerEdDSA("test-key-1")
	require.NoError(t, err)
	return s
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)

	keys := NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	claims := NewSessionClaims(
		"hr_team", "01HTESTSESSION",
		"hr",
		[]string{"portal:read"}, []string{"pwd", "otp"},
		time.Hour,
		"shiphy-portal",
		"hr_team",
		time.Now(),
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	verifier := NewVerifierEdDSA(keys, "shiphy-portal")
	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "hr_team", got.Subject)
	require.Equal(t, "01HTESTSESSION", got.SID)
	require.Equal(t, "hr", got.Role)
	require.Equal(t, []string{"pwd", "otp"}, got.AMR)
	require.True(t, got.HasScope("portal:read"))
	require.False(t, got.HasScope("blueteam:write"))
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	keys := NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	claims := NewSessionClaims(
		"boss", "sid", "boss", nil, nil, time.Hour, "someone-else", "boss", time.Now(),
	)
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = NewVerifierEdDSA(keys, "shiphy-portal").Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	keys := NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	claims := NewSessionClaims(
		"boss", "sid", "boss", nil, nil, -time.Minute, "shiphy-portal", "boss", time.Now().Add(-time.Hour),
	)
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = NewVerifierEdDSA(keys, "shiphy-portal").Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsUnknownKID(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)

	other, err := GenerateSignerEdDSA("other-key")
	require.NoError(t, err)

	keys := NewKeySet()
	require.NoError(t, keys.AddSigner(other))

	claims := NewSessionClaims(
		"boss", "sid", "boss", nil, nil, time.Hour, "shiphy-portal", "boss", time.Now(),
	)
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = NewVerifierEdDSA(keys, "shiphy-portal").Verify(token)
	require.Error(t, err)
}

func TestJWKRoundTrip(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	jwk := signer.PublicJWK()
	require.Equal(t, "OKP", jwk.Kty)
	require.Equal(t, "Ed25519", jwk.Crv)
	require.Equal(t, "test-key-1", jwk.Kid)

	pub, err := jwk.PublicKey()
	require.NoError(t, err)
	require.Equal(t, signer.pub, pub)
}
