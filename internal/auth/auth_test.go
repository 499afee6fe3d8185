package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "modqueue/pkg/domain-errors"
)

func testUser() User {
	return User{ID: 1, Email: "Admin@Example.com", Name: "Admin User", Role: "admin"}
}

func TestUserStoreAuthenticate(t *testing.T) {
	store := NewUserStore()
	require.NoError(t, store.Add(testUser(), "password123"))

	t.Run("accepts correct credentials", func(t *testing.T) {
		user, err := store.Authenticate(context.Background(), "admin@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "Admin User", user.Name)
	})

	t.Run("email lookup is case insensitive", func(t *testing.T) {
		_, err := store.Authenticate(context.Background(), "ADMIN@EXAMPLE.COM", "password123")
		assert.NoError(t, err)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		_, err := store.Authenticate(context.Background(), "admin@example.com", "nope")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("rejects unknown email", func(t *testing.T) {
		_, err := store.Authenticate(context.Background(), "ghost@example.com", "password123")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func TestTokenManagerRoundTrip(t *testing.T) {
	tokens := NewTokenManager("test-signing-key", time.Hour)

	token, err := tokens.IssueToken(testUser(), time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.UserID)
	assert.Equal(t, "Admin User", claims.Name)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenManagerRejectsForgedTokens(t *testing.T) {
	tokens := NewTokenManager("test-signing-key", time.Hour)

	t.Run("wrong signing key", func(t *testing.T) {
		forged, err := NewTokenManager("other-key", time.Hour).IssueToken(testUser(), time.Now())
		require.NoError(t, err)

		_, err = tokens.ValidateToken(forged)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("expired token", func(t *testing.T) {
		stale, err := tokens.IssueToken(testUser(), time.Now().Add(-2*time.Hour))
		require.NoError(t, err)

		_, err = tokens.ValidateToken(stale)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := tokens.ValidateToken("not-a-jwt")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
