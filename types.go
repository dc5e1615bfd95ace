package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() string
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Authenticate(ctx context.Context, token string) (Identity, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, accessToken string) error
}

// TokenService issues and verifies access and refresh tokens
type TokenService interface {
	IssueAccessToken(identity Identity) (string, error)
	IssueRefreshToken(identity Identity) (string, error)
	Verify(ctx context.Context, token string, kind TokenKind) (*TokenClaims, error)
	Revoke(ctx context.Context, jti string) error
	SignClaims(claims *TokenClaims) (string, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetBlocklistTTL() time.Duration
	GetVerificationMaxAge() time.Duration
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
