package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.GenerateSessionToken("acc-1", "fan@example.com")
	require.NoError(t, err)

	claims, err := m.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, "fan@example.com", claims.Username)
	assert.Equal(t, "acc-1", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestValidateToken_Rejects(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewManager("other-secret", time.Hour).GenerateSessionToken("acc-1", "u")
		require.NoError(t, err)
		_, err = m.ValidateSessionToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := NewManager("test-secret", -time.Minute).GenerateSessionToken("acc-1", "u")
		require.NoError(t, err)
		_, err = m.ValidateSessionToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong type", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			AccountID: "acc-1",
			Type:      "refresh",
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = m.ValidateSessionToken(token)
		assert.ErrorContains(t, err, "invalid token type")
	})

	t.Run("missing account", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			Type: tokenTypeSession,
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = m.ValidateSessionToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.ValidateSessionToken("not.a.token")
		assert.Error(t, err)
	})
}
