package auth

import (
	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidToken       = "INVALID_TOKEN"
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeForbidden          = "FORBIDDEN"
	TextCodeUserExists         = "USER_EXISTS"
	TextCodeIdentityNotFound   = "IDENTITY_NOT_FOUND"
	TextCodeTooManyAttempts    = "TOO_MANY_LOGIN_ATTEMPTS"
)

// ErrInvalidToken is the uniform outcome for every token verification
// failure: bad signature, malformed payload, unsupported algorithm, expired,
// revoked, or wrong kind. The concrete cause is logged internally and never
// exposed to the caller.
var ErrInvalidToken = errors.New("invalid or expired token", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(errors.CodeForbidden)

// ErrInvalidCredentials covers both unknown-email and wrong-password logins
// so the two stay indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid email or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned when a valid identity fails a role check.
var ErrForbidden = errors.New("insufficient permissions", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrUserAlreadyExists signals a duplicate email on signup.
var ErrUserAlreadyExists = errors.New("user with this email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeUserExists).
	WithCode(errors.CodeConflict)

// ErrIdentityNotFound is returned when a verified token references a user
// record that no longer exists.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeForbidden)

// ErrTooManyLoginAttempts enforces the login attempt cooldown window.
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyAttempts)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest)
