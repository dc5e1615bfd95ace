package auth_test

import (
	"context"
	"testing"
	"time"

	auth "github.com/bookly/go-auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserUID = "350399bc-c095-4bdc-a59c-3352d44848e4"

func TestNewTokenService(t *testing.T) {
	_, blocklist := newTestBlocklist(t)

	t.Run("creates service from config", func(t *testing.T) {
		service, err := auth.NewTokenService(testConfig(), blocklist)

		require.NoError(t, err)
		assert.NotNil(t, service)
	})

	t.Run("rejects empty signing key", func(t *testing.T) {
		cfg := testConfig()
		cfg.SigningKey = ""

		_, err := auth.NewTokenService(cfg, blocklist)

		assert.Error(t, err)
	})

	t.Run("rejects non HMAC signing method", func(t *testing.T) {
		cfg := testConfig()
		cfg.SigningMethod = "RS256"

		_, err := auth.NewTokenService(cfg, blocklist)

		assert.Error(t, err)
	})

	t.Run("rejects missing blocklist", func(t *testing.T) {
		_, err := auth.NewTokenService(testConfig(), nil)

		assert.Error(t, err)
	})
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestTokenService(t)
	identity := testIdentity(testUserUID, "pepe.rone@example.com", auth.RoleUser)

	t.Run("access token round trip", func(t *testing.T) {
		token, err := service.IssueAccessToken(identity)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := service.Verify(ctx, token, auth.AccessToken)
		require.NoError(t, err)

		assert.Equal(t, testUserUID, claims.User.UID)
		assert.Equal(t, "pepe.rone@example.com", claims.User.Email)
		assert.Equal(t, auth.RoleUser, claims.User.Role)
		assert.False(t, claims.Refresh)
		assert.NotEmpty(t, claims.ID)
		assert.NotNil(t, claims.ExpiresAt)
	})

	t.Run("refresh token round trip omits role", func(t *testing.T) {
		token, err := service.IssueRefreshToken(identity)
		require.NoError(t, err)

		claims, err := service.Verify(ctx, token, auth.RefreshToken)
		require.NoError(t, err)

		assert.True(t, claims.Refresh)
		assert.Empty(t, claims.User.Role)
		assert.Equal(t, testUserUID, claims.User.UID)
	})

	t.Run("every issuance gets a distinct jti", func(t *testing.T) {
		first, err := service.IssueAccessToken(identity)
		require.NoError(t, err)
		second, err := service.IssueAccessToken(identity)
		require.NoError(t, err)

		firstClaims, err := service.Verify(ctx, first, auth.AccessToken)
		require.NoError(t, err)
		secondClaims, err := service.Verify(ctx, second, auth.AccessToken)
		require.NoError(t, err)

		assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
	})

	t.Run("rejects access token presented as refresh", func(t *testing.T) {
		token, err := service.IssueAccessToken(identity)
		require.NoError(t, err)

		_, err = service.Verify(ctx, token, auth.RefreshToken)

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects refresh token presented as access", func(t *testing.T) {
		token, err := service.IssueRefreshToken(identity)
		require.NoError(t, err)

		_, err = service.Verify(ctx, token, auth.AccessToken)

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects tampered token", func(t *testing.T) {
		token, err := service.IssueAccessToken(identity)
		require.NoError(t, err)

		tampered := []byte(token)
		last := len(tampered) - 1
		if tampered[last] == 'A' {
			tampered[last] = 'B'
		} else {
			tampered[last] = 'A'
		}

		_, err = service.Verify(ctx, string(tampered), auth.AccessToken)

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		_, err := service.Verify(ctx, "not-a-token", auth.AccessToken)

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects token signed with a different key", func(t *testing.T) {
		_, otherBlocklist := newTestBlocklist(t)
		otherCfg := testConfig()
		otherCfg.SigningKey = "completely-different-key"
		otherService, err := auth.NewTokenService(otherCfg, otherBlocklist)
		require.NoError(t, err)

		token, err := otherService.IssueAccessToken(identity)
		require.NoError(t, err)

		_, err = service.Verify(ctx, token, auth.AccessToken)

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		past := time.Now().Add(-2 * time.Hour)
		token, err := service.SignClaims(&auth.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "expired-token-jti",
				IssuedAt:  jwt.NewNumericDate(past),
				ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
			},
			User: auth.UserInfo{UID: testUserUID, Email: "pepe.rone@example.com"},
		})
		require.NoError(t, err)

		_, err = service.Verify(ctx, token, auth.AccessToken)

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects token missing jti", func(t *testing.T) {
		now := time.Now()
		token, err := service.SignClaims(&auth.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			User: auth.UserInfo{UID: testUserUID, Email: "pepe.rone@example.com"},
		})
		require.NoError(t, err)

		_, err = service.Verify(ctx, token, auth.AccessToken)

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects token missing user uid", func(t *testing.T) {
		now := time.Now()
		token, err := service.SignClaims(&auth.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "some-jti",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			User: auth.UserInfo{Email: "pepe.rone@example.com"},
		})
		require.NoError(t, err)

		_, err = service.Verify(ctx, token, auth.AccessToken)

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestTokenService_Revoke(t *testing.T) {
	ctx := context.Background()
	service, mr := newTestTokenService(t)
	identity := testIdentity(testUserUID, "pepe.rone@example.com", auth.RoleUser)

	t.Run("revoked token fails verification", func(t *testing.T) {
		token, err := service.IssueAccessToken(identity)
		require.NoError(t, err)

		claims, err := service.Verify(ctx, token, auth.AccessToken)
		require.NoError(t, err)

		require.NoError(t, service.Revoke(ctx, claims.ID))

		_, err = service.Verify(ctx, token, auth.AccessToken)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("revocation does not affect other tokens", func(t *testing.T) {
		first, err := service.IssueAccessToken(identity)
		require.NoError(t, err)
		second, err := service.IssueAccessToken(identity)
		require.NoError(t, err)

		firstClaims, err := service.Verify(ctx, first, auth.AccessToken)
		require.NoError(t, err)

		require.NoError(t, service.Revoke(ctx, firstClaims.ID))

		_, err = service.Verify(ctx, second, auth.AccessToken)
		assert.NoError(t, err)
	})

	t.Run("blocklist entry expires with its TTL", func(t *testing.T) {
		token, err := service.IssueAccessToken(identity)
		require.NoError(t, err)

		claims, err := service.Verify(ctx, token, auth.AccessToken)
		require.NoError(t, err)

		require.NoError(t, service.Revoke(ctx, claims.ID))

		mr.FastForward(2 * time.Hour)

		_, err = service.Verify(ctx, token, auth.AccessToken)
		assert.NoError(t, err)
	})
}
