package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := Claims{
		UserID: "42",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-key"))
	require.NoError(t, err)
	return token
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	expired, err := TokenExpired(signed(t, now.Add(time.Hour)), now, time.Minute)
	require.NoError(t, err)
	assert.False(t, expired)

	expired, err = TokenExpired(signed(t, now.Add(30*time.Second)), now, time.Minute)
	require.NoError(t, err)
	assert.True(t, expired)

	expired, err = TokenExpired("not-a-token", now, 0)
	assert.Error(t, err)
	assert.True(t, expired)
}

func TestInspectToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	claims, err := InspectToken(signed(t, exp))
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)

	got, err := TokenExpiry(signed(t, exp))
	require.NoError(t, err)
	assert.True(t, got.Equal(exp))
}
