package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("access", "refresh", 15*time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken(42, "ngo@example.org", "NGO")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ngo@example.org", claims.Email)
	assert.Equal(t, "NGO", claims.Role)

	_, err = m.ValidateRefreshToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredAccessToken(t *testing.T) {
	m := NewManager("access", "refresh", time.Minute, time.Hour)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := m.GenerateAccessToken(1, "a@b.c", "DONOR")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshToken(t *testing.T) {
	m := NewManager("access", "refresh", time.Minute, time.Hour)

	token, id, expiresAt, err := m.GenerateRefreshToken(7)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, id, claims.TokenID)

	other := NewManager("access", "other", time.Minute, time.Hour)
	_, err = other.ValidateRefreshToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
