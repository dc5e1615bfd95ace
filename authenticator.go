package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
)

// MaxLoginAttempts is the maximum number of failed logins a user gets
// inside the cooldown window
var MaxLoginAttempts = 5

// CoolDownPeriod is the window in which failed logins accumulate
var CoolDownPeriod = "24h"

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserStore is the slice of the user repository the gate needs
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUID(ctx context.Context, uid string) (*User, error)
	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// Auther is the access control gate: it resolves users, checks credentials,
// and trades tokens. It holds no HTTP concerns.
type Auther struct {
	users  UserStore
	tokens TokenService
	logger Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Auther over the given user store and token
// service.
func NewAuthenticator(users UserStore, tokens TokenService) *Auther {
	return &Auther{
		users:  users,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// TokenService returns the token service backing this gate.
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Login checks email and password and issues a fresh token pair. An unknown
// email and a wrong password both come back as ErrInvalidCredentials.
func (s *Auther) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	identity, err := s.verifyIdentity(ctx, email, password)
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.IssueAccessToken(identity)
	if err != nil {
		return nil, err
	}

	refresh, err := s.tokens.IssueRefreshToken(identity)
	if err != nil {
		return nil, err
	}

	s.logger.Info("login succeeded for user %s", identity.ID())

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *Auther) verifyIdentity(ctx context.Context, email, password string) (Identity, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user.LoginAttemptAt != nil {
		expired, err := isOutsideThresholdPeriod(*user.LoginAttemptAt, CoolDownPeriod)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to calculate login attempt cooldown")
		}

		if expired {
			user.LoginAttempts = 0
		}
	}

	// too many attempts in the window, cool off
	if user.LoginAttempts > MaxLoginAttempts {
		return nil, ErrTooManyLoginAttempts
	}

	if !VerifyPassword(password, user.PasswordHash) {
		if err := s.users.TrackAttemptedLogin(ctx, user); err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to track login attempt")
		}

		return nil, ErrInvalidCredentials
	}

	if err := s.users.TrackSuccessfulLogin(ctx, user); err != nil {
		s.logger.Error("failed to track successful login: %v", err)
	}

	return NewIdentity(user), nil
}

// Authenticate verifies an access token and resolves the live user record
// behind it. A token whose user no longer exists fails with
// ErrIdentityNotFound.
func (s *Auther) Authenticate(ctx context.Context, token string) (Identity, error) {
	claims, err := s.tokens.Verify(ctx, token, AccessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByUID(ctx, claims.User.UID)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Warn("valid token references missing user %s", claims.User.UID)
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve identity")
	}

	return NewIdentity(user), nil
}

// Refresh trades a valid refresh token for a new access token. The refresh
// token itself stays valid until it expires.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Verify(ctx, refreshToken, RefreshToken)
	if err != nil {
		return "", err
	}

	user, err := s.users.GetByUID(ctx, claims.User.UID)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", ErrIdentityNotFound
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to resolve identity")
	}

	return s.tokens.IssueAccessToken(NewIdentity(user))
}

// Logout revokes the presented access token. Only this token is revoked; an
// outstanding refresh token remains usable until it expires.
func (s *Auther) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.tokens.Verify(ctx, accessToken, AccessToken)
	if err != nil {
		return err
	}

	if err := s.tokens.Revoke(ctx, claims.ID); err != nil {
		return err
	}

	s.logger.Info("logout revoked token for user %s", claims.User.UID)
	return nil
}

// isOutsideThresholdPeriod reports whether t is older than the given period.
func isOutsideThresholdPeriod(t time.Time, period string) (bool, error) {
	d, err := time.ParseDuration(period)
	if err != nil {
		return false, err
	}
	return time.Since(t) > d, nil
}
