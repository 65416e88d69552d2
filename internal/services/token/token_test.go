package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceRequiresSecret(t *testing.T) {
	_, err := NewService("")
	assert.ErrorIs(t, err, ErrMissingSecret)

	svc, err := NewService("test-secret")
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestSignAndParse(t *testing.T) {
	svc, err := NewService("test-secret")
	require.NoError(t, err)

	tokenStr, expiresAt, err := svc.Sign(42, 7)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenStr)
	assert.WithinDuration(t, time.Now().Add(90*24*time.Hour), expiresAt, time.Minute)

	claims, err := svc.Parse(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.ClaimID)
	assert.Equal(t, uint(7), claims.ReceiptID)
	assert.Equal(t, "reclaim-api", claims.Issuer)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID, "jti must be set")
}

func TestParseRejectsTamperedToken(t *testing.T) {
	svc, err := NewService("test-secret")
	require.NoError(t, err)

	tokenStr, _, err := svc.Sign(1, 2)
	require.NoError(t, err)

	tampered := tokenStr[:len(tokenStr)-4] + "zzzz"
	_, err = svc.Parse(tampered)
	assert.Error(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	signer, err := NewService("secret-a")
	require.NoError(t, err)
	verifier, err := NewService("secret-b")
	require.NoError(t, err)

	tokenStr, _, err := signer.Sign(1, 2)
	require.NoError(t, err)

	_, err = verifier.Parse(tokenStr)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	svc, err := NewService("test-secret")
	require.NoError(t, err)
	svc.validity = -time.Hour

	tokenStr, _, err := svc.Sign(1, 2)
	require.NoError(t, err)

	_, err = svc.Parse(tokenStr)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokensAreUnique(t *testing.T) {
	svc, err := NewService("test-secret")
	require.NoError(t, err)

	a, _, err := svc.Sign(1, 2)
	require.NoError(t, err)
	b, _, err := svc.Sign(1, 2)
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "jti must make identical payloads distinct")
}
