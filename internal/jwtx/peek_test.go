package jwtx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-only-secret"))
	require.NoError(t, err)
	return s
}

func TestPeek_ReadsClaimsWithoutKey(t *testing.T) {
	iat := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	exp := iat.Add(time.Hour)
	tok := sign(t, jwt.RegisteredClaims{
		Subject:   "user-1",
		IssuedAt:  jwt.NewNumericDate(iat),
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	info, err := Peek(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", info.Subject)
	assert.True(t, iat.Equal(info.IssuedAt))
	assert.True(t, exp.Equal(info.ExpiresAt))
}

func TestPeek_ExpiredTokenStillReadable(t *testing.T) {
	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	tok := sign(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

	got, err := ExpiresAt(tok)
	require.NoError(t, err)
	assert.True(t, exp.Equal(got))
	assert.True(t, Expired(tok, time.Now()))
}

func TestExpiresAt_NoClaim(t *testing.T) {
	tok := sign(t, jwt.RegisteredClaims{Subject: "x"})

	_, err := ExpiresAt(tok)
	require.ErrorIs(t, err, ErrNoExpiry)
	assert.False(t, Expired(tok, time.Now()))
}

func TestPeek_OpaqueToken(t *testing.T) {
	_, err := Peek("fake-token")
	require.Error(t, err)
	assert.False(t, Expired("fake-token", time.Now()))
}
