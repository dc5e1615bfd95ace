package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenPurpose scopes an out-of-band token to a single workflow. A token
// minted for one purpose never decodes under another because the signing key
// is derived from the purpose string.
type TokenPurpose string

const (
	PurposeEmailVerification TokenPurpose = "email-verification"
	PurposePasswordReset     TokenPurpose = "password-reset"
)

// VerificationClaims is the payload of an out-of-band token: the target email
// plus the purpose it was minted for.
type VerificationClaims struct {
	jwt.RegisteredClaims
	Email   string       `json:"email"`
	Purpose TokenPurpose `json:"purpose"`
}

// VerificationTokenService mints the signed tokens embedded in account
// verification and password reset links. These tokens are not revocable; they
// are bounded by maxAge and consumed by application action.
type VerificationTokenService struct {
	baseSecret []byte
	maxAge     time.Duration
	logger     Logger
}

// NewVerificationTokenService builds a service from cfg, reusing the signing
// key as the base secret for per-purpose key derivation.
func NewVerificationTokenService(cfg Config) (*VerificationTokenService, error) {
	if cfg.GetSigningKey() == "" {
		return nil, errors.New("signing key is required", errors.CategoryBadInput)
	}

	return &VerificationTokenService{
		baseSecret: []byte(cfg.GetSigningKey()),
		maxAge:     cfg.GetVerificationMaxAge(),
		logger:     defLogger{},
	}, nil
}

// WithLogger replaces the default logger.
func (s *VerificationTokenService) WithLogger(logger Logger) *VerificationTokenService {
	s.logger = logger
	return s
}

// derivedKey binds the signing key to a purpose so email-verification and
// password-reset tokens live in disjoint key spaces.
func (s *VerificationTokenService) derivedKey(purpose TokenPurpose) []byte {
	mac := hmac.New(sha256.New, s.baseSecret)
	mac.Write([]byte(purpose))
	return mac.Sum(nil)
}

// Create mints a token for email scoped to purpose.
func (s *VerificationTokenService) Create(email string, purpose TokenPurpose) (string, error) {
	if email == "" {
		return "", errors.New("email is required", errors.CategoryBadInput)
	}

	claims := &VerificationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		Email:   email,
		Purpose: purpose,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.derivedKey(purpose))
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign verification token")
	}

	return signed, nil
}

// Decode validates raw against purpose and the configured max age, returning
// the email the token was minted for. Any failure surfaces as ErrInvalidToken.
func (s *VerificationTokenService) Decode(raw string, purpose TokenPurpose) (string, error) {
	claims := &VerificationClaims{}

	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method: "+t.Method.Alg(), errors.CategoryAuth)
		}
		return s.derivedKey(purpose), nil
	})
	if err != nil {
		s.logger.Debug("verification token rejected by codec: %v", err)
		return "", ErrInvalidToken
	}

	if claims.Purpose != purpose {
		s.logger.Debug("verification token rejected, purpose %q does not match %q", claims.Purpose, purpose)
		return "", ErrInvalidToken
	}

	if claims.Email == "" || claims.IssuedAt == nil {
		s.logger.Debug("verification token rejected, missing email or iat")
		return "", ErrInvalidToken
	}

	if time.Since(claims.IssuedAt.Time) > s.maxAge {
		s.logger.Debug("verification token rejected, older than %s", s.maxAge)
		return "", ErrInvalidToken
	}

	return claims.Email, nil
}
