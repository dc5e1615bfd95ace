package auth_test

import (
	"testing"

	auth "github.com/bookly/go-auth"
	"github.com/stretchr/testify/assert"
)

func TestTokenKindString(t *testing.T) {
	assert.Equal(t, "access", auth.AccessToken.String())
	assert.Equal(t, "refresh", auth.RefreshToken.String())
}

func TestTokenClaimsKind(t *testing.T) {
	t.Run("access token kind", func(t *testing.T) {
		claims := &auth.TokenClaims{Refresh: false}
		assert.Equal(t, auth.AccessToken, claims.Kind())
	})

	t.Run("refresh token kind", func(t *testing.T) {
		claims := &auth.TokenClaims{Refresh: true}
		assert.Equal(t, auth.RefreshToken, claims.Kind())
	})
}

func TestIdentityFromClaims(t *testing.T) {
	claims := &auth.TokenClaims{
		User: auth.UserInfo{
			UID:   "user-123",
			Email: "pepe.rone@example.com",
			Role:  auth.RoleAdmin,
		},
	}

	identity := auth.IdentityFromClaims(claims)

	assert.Equal(t, "user-123", identity.ID())
	assert.Equal(t, "pepe.rone@example.com", identity.Email())
	assert.Equal(t, "pepe.rone@example.com", identity.Username())
	assert.Equal(t, auth.RoleAdmin, identity.Role())
}
