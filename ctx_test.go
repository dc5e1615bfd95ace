package auth_test

import (
	"context"
	"testing"

	auth "github.com/bookly/go-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityContext(t *testing.T) {
	identity := testIdentity(testUserUID, "pepe.rone@example.com", auth.RoleUser)

	t.Run("round trips an identity", func(t *testing.T) {
		ctx := auth.WithIdentityContext(context.Background(), identity)

		got, ok := auth.IdentityFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, identity.ID(), got.ID())
	})

	t.Run("missing identity reports false", func(t *testing.T) {
		_, ok := auth.IdentityFromContext(context.Background())
		assert.False(t, ok)
	})
}

func TestClaimsContext(t *testing.T) {
	claims := &auth.TokenClaims{
		User: auth.UserInfo{UID: testUserUID, Email: "pepe.rone@example.com"},
	}

	t.Run("round trips claims", func(t *testing.T) {
		ctx := auth.WithClaimsContext(context.Background(), claims)

		got, ok := auth.ClaimsFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, testUserUID, got.User.UID)
	})

	t.Run("missing claims reports false", func(t *testing.T) {
		_, ok := auth.ClaimsFromContext(context.Background())
		assert.False(t, ok)
	})
}
