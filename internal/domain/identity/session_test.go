package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestNewSession(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s, err := NewSession("alice", "tok", RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, "alice", s.Username)
		assert.True(t, s.IsAdmin())
	})

	t.Run("unknown role falls back to user", func(t *testing.T) {
		s, err := NewSession("alice", "tok", Role("SUPERUSER"))
		require.NoError(t, err)
		assert.Equal(t, RoleUser, s.Role)
		assert.False(t, s.IsAdmin())
	})

	t.Run("empty username rejected", func(t *testing.T) {
		_, err := NewSession("", "tok", RoleUser)
		assert.Error(t, err)
	})

	t.Run("empty token rejected", func(t *testing.T) {
		_, err := NewSession("alice", "", RoleUser)
		assert.Error(t, err)
	})
}

func TestAuthResponseSession(t *testing.T) {
	admin := AuthResponse{Token: "tok", Username: "root", IsAdmin: true}
	s, err := admin.Session()
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, s.Role)

	user := AuthResponse{Token: "tok", Username: "bob"}
	s, err = user.Session()
	require.NoError(t, err)
	assert.Equal(t, RoleUser, s.Role)
}

func TestTokenExpiry(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	t.Run("reads the exp claim without verification", func(t *testing.T) {
		exp := now.Add(time.Hour)
		s := &Session{Username: "alice", Token: signedToken(t, jwt.MapClaims{
			"sub": "alice",
			"exp": exp.Unix(),
		})}

		assert.Equal(t, exp.Unix(), s.TokenExpiresAt().Unix())
		assert.False(t, s.TokenLikelyExpired(now))
		assert.True(t, s.TokenLikelyExpired(exp.Add(time.Minute)))
	})

	t.Run("token without exp never reports expired", func(t *testing.T) {
		s := &Session{Username: "alice", Token: signedToken(t, jwt.MapClaims{
			"sub": "alice",
		})}

		assert.True(t, s.TokenExpiresAt().IsZero())
		assert.False(t, s.TokenLikelyExpired(now.Add(24*time.Hour)))
	})

	t.Run("opaque token never reports expired", func(t *testing.T) {
		s := &Session{Username: "alice", Token: "not-a-jwt"}
		assert.True(t, s.TokenExpiresAt().IsZero())
		assert.False(t, s.TokenLikelyExpired(now))
	})
}
