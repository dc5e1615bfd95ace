package auth

import (
	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt cost used by HashPassword. Override before issuing
// any hashes, e.g. lower it in tests.
var HashCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of password. Each call salts
// independently, so hashing the same password twice yields different strings.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	return string(bytes), nil
}

// VerifyPassword reports whether password matches hash. A malformed or
// truncated hash counts as a mismatch, never an error.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
