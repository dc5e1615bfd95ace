package auth_test

import (
	"testing"

	auth "github.com/bookly/go-auth"
	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		category errors.Category
		textCode string
	}{
		{"invalid token", auth.ErrInvalidToken, errors.CategoryAuth, auth.TextCodeInvalidToken},
		{"invalid credentials", auth.ErrInvalidCredentials, errors.CategoryAuth, auth.TextCodeInvalidCredentials},
		{"forbidden", auth.ErrForbidden, errors.CategoryAuthz, auth.TextCodeForbidden},
		{"user exists", auth.ErrUserAlreadyExists, errors.CategoryConflict, auth.TextCodeUserExists},
		{"identity not found", auth.ErrIdentityNotFound, errors.CategoryAuth, auth.TextCodeIdentityNotFound},
		{"too many attempts", auth.ErrTooManyLoginAttempts, errors.CategoryRateLimit, auth.TextCodeTooManyAttempts},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var richErr *errors.Error
			require.ErrorAs(t, tc.err, &richErr)

			assert.Equal(t, tc.category, richErr.Category)
			assert.Equal(t, tc.textCode, richErr.TextCode)
		})
	}
}
