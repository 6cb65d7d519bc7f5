package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewHMACService("access", "refresh", time.Hour, 24*time.Hour)

	tok, err := svc.GenerateAccessToken("u1", "mentor")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "mentor", claims.UserType)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.False(t, svc.IsRefreshToken(claims))
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := NewHMACService("access", "refresh", time.Hour, 24*time.Hour)

	tok, err := svc.GenerateRefreshToken("u1")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tok)
	require.NoError(t, err)
	assert.True(t, svc.IsRefreshToken(claims))
	assert.Empty(t, claims.UserType)
}

func TestExpiredToken(t *testing.T) {
	svc := NewHMACService("access", "refresh", time.Minute, time.Hour)
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	tok, err := svc.GenerateAccessToken("u1", "filmmaker")
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = svc.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestForeignSignatureRejected(t *testing.T) {
	a := NewHMACService("access-a", "refresh-a", time.Hour, time.Hour)
	b := NewHMACService("access-b", "refresh-b", time.Hour, time.Hour)

	tok, err := a.GenerateAccessToken("u1", "filmmaker")
	require.NoError(t, err)

	_, err = b.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = a.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestGenerateRequiresUserAndSecret(t *testing.T) {
	svc := NewHMACService("access", "refresh", time.Hour, time.Hour)
	_, err := svc.GenerateAccessToken("", "filmmaker")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	noSecret := NewHMACService("", "", time.Hour, time.Hour)
	_, err = noSecret.GenerateAccessToken("u1", "filmmaker")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
