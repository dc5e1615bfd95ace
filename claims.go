package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenKind distinguishes the two token families the service issues. Every
// verification call states which kind it expects; a mismatch is rejected.
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

func (k TokenKind) String() string {
	switch k {
	case AccessToken:
		return "access"
	case RefreshToken:
		return "refresh"
	default:
		return "unknown"
	}
}

// UserInfo is the user payload carried inside a token.
type UserInfo struct {
	UID   string `json:"user_uid"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// TokenClaims is the full claim set for access and refresh tokens. The jti
// lives in RegisteredClaims.ID and is a fresh UUID per issuance.
type TokenClaims struct {
	jwt.RegisteredClaims
	User    UserInfo `json:"user"`
	Refresh bool     `json:"refresh"`
}

var _ jwt.Claims = (*TokenClaims)(nil)

// Kind reports the token family the claims belong to.
func (c *TokenClaims) Kind() TokenKind {
	if c.Refresh {
		return RefreshToken
	}
	return AccessToken
}

// JTI returns the unique token identifier used for revocation.
func (c *TokenClaims) JTI() string {
	return c.ID
}

// validate checks structural requirements the codec does not enforce.
func (c *TokenClaims) validate() error {
	if c.ID == "" {
		return errors.New("token missing jti", errors.CategoryAuth)
	}
	if c.ExpiresAt == nil {
		return errors.New("token missing expiry", errors.CategoryAuth)
	}
	if c.User.UID == "" {
		return errors.New("token missing user uid", errors.CategoryAuth)
	}
	return nil
}

// claimsIdentity adapts a verified claim set to the Identity interface.
type claimsIdentity struct {
	claims *TokenClaims
}

func (i claimsIdentity) ID() string       { return i.claims.User.UID }
func (i claimsIdentity) Username() string { return i.claims.User.Email }
func (i claimsIdentity) Email() string    { return i.claims.User.Email }
func (i claimsIdentity) Role() string     { return i.claims.User.Role }

// IdentityFromClaims builds an Identity view over verified token claims,
// without touching the user store.
func IdentityFromClaims(claims *TokenClaims) Identity {
	return claimsIdentity{claims: claims}
}
