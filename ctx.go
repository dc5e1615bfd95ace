package auth

import (
	"context"
)

var identityCtxKey = &contextKey{"identity"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithIdentityContext sets the authenticated Identity in the given context
func WithIdentityContext(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// IdentityFromContext finds the authenticated Identity in the context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	raw, ok := ctx.Value(identityCtxKey).(Identity)
	return raw, ok
}

// WithClaimsContext sets the verified TokenClaims in the given context
func WithClaimsContext(ctx context.Context, claims *TokenClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// ClaimsFromContext extracts the verified TokenClaims from the context
func ClaimsFromContext(ctx context.Context) (*TokenClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*TokenClaims)
	return raw, ok
}
