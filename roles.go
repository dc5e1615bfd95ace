package auth

// UserRole is the coarse-grained role attached to a user record and carried
// in access tokens.
type UserRole = string

const (
	// RoleUser is the default role assigned on signup
	RoleUser UserRole = "user"
	// RoleAdmin can reach administrative operations
	RoleAdmin UserRole = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// RequireRole checks identity's role against an allow set. Membership is
// structural, admin does not imply user. Returns ErrForbidden when the role
// is not in the set.
func RequireRole(identity Identity, roles ...UserRole) error {
	if identity == nil {
		return ErrForbidden
	}

	for _, role := range roles {
		if identity.Role() == role {
			return nil
		}
	}

	return ErrForbidden
}
