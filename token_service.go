package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenServiceImpl signs, verifies, and revokes tokens. Verification consults
// the blocklist so revoked tokens fail before their natural expiry.
type TokenServiceImpl struct {
	signingKey    []byte
	signingMethod jwt.SigningMethod
	accessTTL     time.Duration
	refreshTTL    time.Duration
	blocklist     Blocklist
	logger        Logger
}

var _ TokenService = (*TokenServiceImpl)(nil)

// NewTokenService builds a token service from cfg. Only the HMAC family of
// signing methods is accepted; anything else is a constructor error.
func NewTokenService(cfg Config, blocklist Blocklist) (*TokenServiceImpl, error) {
	if cfg.GetSigningKey() == "" {
		return nil, errors.New("signing key is required", errors.CategoryBadInput)
	}

	method := jwt.GetSigningMethod(cfg.GetSigningMethod())
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unsupported signing method: "+cfg.GetSigningMethod(), errors.CategoryBadInput)
	}

	if blocklist == nil {
		return nil, errors.New("blocklist is required", errors.CategoryBadInput)
	}

	return &TokenServiceImpl{
		signingKey:    []byte(cfg.GetSigningKey()),
		signingMethod: method,
		accessTTL:     cfg.GetAccessTokenTTL(),
		refreshTTL:    cfg.GetRefreshTokenTTL(),
		blocklist:     blocklist,
		logger:        defLogger{},
	}, nil
}

// WithLogger replaces the default logger.
func (s *TokenServiceImpl) WithLogger(logger Logger) *TokenServiceImpl {
	s.logger = logger
	return s
}

// IssueAccessToken mints a short-lived token carrying the identity's role.
func (s *TokenServiceImpl) IssueAccessToken(identity Identity) (string, error) {
	return s.SignClaims(s.newClaims(identity, false))
}

// IssueRefreshToken mints a long-lived token with the refresh flag set.
// Refresh tokens carry no role, they only prove the right to a new access
// token.
func (s *TokenServiceImpl) IssueRefreshToken(identity Identity) (string, error) {
	claims := s.newClaims(identity, true)
	claims.User.Role = ""
	return s.SignClaims(claims)
}

func (s *TokenServiceImpl) newClaims(identity Identity, refresh bool) *TokenClaims {
	now := time.Now()
	ttl := s.accessTTL
	if refresh {
		ttl = s.refreshTTL
	}

	return &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		User: UserInfo{
			UID:   identity.ID(),
			Email: identity.Email(),
			Role:  identity.Role(),
		},
		Refresh: refresh,
	}
}

// SignClaims serializes and signs an arbitrary claim set. Exposed so callers
// can mint tokens with custom expiries.
func (s *TokenServiceImpl) SignClaims(claims *TokenClaims) (string, error) {
	token := jwt.NewWithClaims(s.signingMethod, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}
	return signed, nil
}

// Verify decodes and validates raw, checks the blocklist, and enforces that
// the token is of the expected kind. Every failure surfaces as ErrInvalidToken
// so callers cannot distinguish a forged token from a revoked or stale one;
// the concrete cause is only logged.
func (s *TokenServiceImpl) Verify(ctx context.Context, raw string, kind TokenKind) (*TokenClaims, error) {
	claims := &TokenClaims{}

	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method: "+t.Method.Alg(), errors.CategoryAuth)
		}
		return s.signingKey, nil
	})
	if err != nil {
		s.logger.Debug("token rejected by codec: %v", err)
		return nil, ErrInvalidToken
	}

	if err := claims.validate(); err != nil {
		s.logger.Debug("token rejected by validation: %v", err)
		return nil, ErrInvalidToken
	}

	revoked, err := s.blocklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "blocklist lookup failed")
	}
	if revoked {
		s.logger.Debug("token rejected, jti %s is revoked", claims.ID)
		return nil, ErrInvalidToken
	}

	if claims.Kind() != kind {
		s.logger.Debug("token rejected, got %s token where %s expected", claims.Kind(), kind)
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Revoke adds jti to the blocklist.
func (s *TokenServiceImpl) Revoke(ctx context.Context, jti string) error {
	return s.blocklist.Revoke(ctx, jti)
}
