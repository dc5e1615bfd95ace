// Package jwtware provides the HTTP bearer token gate for Fiber applications.
package jwtware

import (
	"context"
	"errors"
	"strings"

	auth "github.com/bookly/go-auth"
	"github.com/gofiber/fiber/v2"
)

var (
	defaultTokenLookup       = "header:" + fiber.HeaderAuthorization
	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")
)

// Verifier validates a raw bearer token. The root package TokenService
// satisfies it.
type Verifier interface {
	Verify(ctx context.Context, token string, kind auth.TokenKind) (*auth.TokenClaims, error)
}

// IdentityResolver turns verified claims into an Identity. The default
// resolver builds the identity from the claims themselves; wire one backed by
// the user store to reject tokens for deleted users.
type IdentityResolver func(ctx context.Context, claims *auth.TokenClaims) (auth.Identity, error)

type Config struct {
	// Filter defines a function to skip the middleware
	Filter         func(*fiber.Ctx) bool
	SuccessHandler fiber.Handler
	ErrorHandler   fiber.ErrorHandler

	// Verifier is required for token validation
	Verifier Verifier

	// TokenKind selects which token family this gate accepts. Defaults to
	// access tokens.
	TokenKind auth.TokenKind

	IdentityResolver IdentityResolver

	// AllowedRoles restricts the route to identities whose role is in the
	// set. Empty means any authenticated identity passes.
	AllowedRoles []string

	// ContextKey is the locals key holding the verified claims
	ContextKey string
	// IdentityKey is the locals key holding the resolved identity
	IdentityKey string

	// TokenLookup is a comma separated list of "<source>:<name>" entries,
	// e.g. "header:Authorization,cookie:jwt,query:auth_token"
	TokenLookup string
	AuthScheme  string
}

// New returns a fiber handler enforcing bearer token auth per cfg.
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := extractRawToken(c, cfg.getExtractors())
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.Verifier.Verify(c.UserContext(), raw, cfg.TokenKind)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		identity, err := cfg.IdentityResolver(c.UserContext(), claims)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		if len(cfg.AllowedRoles) > 0 {
			if err := auth.RequireRole(identity, cfg.AllowedRoles...); err != nil {
				return cfg.ErrorHandler(c, err)
			}
		}

		c.Locals(cfg.ContextKey, claims)
		c.Locals(cfg.IdentityKey, identity)

		stdCtx := auth.WithClaimsContext(c.UserContext(), claims)
		stdCtx = auth.WithIdentityContext(stdCtx, identity)
		c.SetUserContext(stdCtx)

		return cfg.SuccessHandler(c)
	}
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			if errors.Is(err, ErrJWTMissingOrMalformed) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": ErrJWTMissingOrMalformed.Error(),
				})
			}
			if errors.Is(err, auth.ErrForbidden) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"message": "insufficient permissions",
				})
			}
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "invalid or expired token",
			})
		}
	}

	if cfg.Verifier == nil {
		panic("AUTH: JWT middleware configuration: Verifier is required.")
	}

	if cfg.IdentityResolver == nil {
		cfg.IdentityResolver = func(_ context.Context, claims *auth.TokenClaims) (auth.Identity, error) {
			return auth.IdentityFromClaims(claims), nil
		}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "claims"
	}

	if cfg.IdentityKey == "" {
		cfg.IdentityKey = "identity"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

func extractRawToken(c *fiber.Ctx, extractors []JWTExtractor) (string, error) {
	var raw string
	var err error

	for _, extractor := range extractors {
		raw, err = extractor(c)
		if raw != "" && err == nil {
			break
		}
	}

	return raw, err
}

func (cfg *Config) getExtractors() []JWTExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

func GetExtractors(tokenLookup string, authSchemes ...string) []JWTExtractor {
	extractors := make([]JWTExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	// header:Authorization,cookie:jwt,query:auth_token,param:token
	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) < 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, jwtFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, jwtFromQuery(parts[1]))
		case "param":
			extractors = append(extractors, jwtFromParam(parts[1]))
		case "cookie":
			extractors = append(extractors, jwtFromCookie(parts[1]))
		}
	}

	return extractors
}

type JWTExtractor func(c *fiber.Ctx) (string, error)

// jwtFromHeader returns a function that extracts token from the request header.
func jwtFromHeader(header string, authScheme string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		a := c.Get(header)
		l := len(authScheme)
		if l == 0 {
			return "", ErrJWTMissingOrMalformed
		}
		authScheme = strings.TrimSpace(authScheme)
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrJWTMissingOrMalformed
	}
}

// jwtFromQuery returns a function that extracts token from the query string.
func jwtFromQuery(param string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Query(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// jwtFromParam returns a function that extracts token from the url param string.
func jwtFromParam(param string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Params(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// jwtFromCookie returns a function that extracts token from the named cookie.
func jwtFromCookie(name string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}
