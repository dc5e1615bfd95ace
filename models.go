package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model backing the auth core. The password hash never
// serializes outward.
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	UID            uuid.UUID  `bun:"uid,pk,nullzero,type:uuid" json:"uid,omitempty"`
	Username       string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	FirstName      string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName       string     `bun:"last_name,notnull" json:"last_name,omitempty"`
	Role           UserRole   `bun:"role,notnull,default:'user'" json:"role,omitempty"`
	IsVerified     bool       `bun:"is_verified" json:"is_verified"`
	PasswordHash   string     `bun:"password_hash,notnull" json:"-"`
	LoginAttempts  int        `bun:"login_attempts" json:"login_attempts,omitempty"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"login_attempt_at,omitempty"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// NewIdentity adapts a user record to the Identity interface.
func NewIdentity(user *User) Identity {
	return &authIdentity{
		id:       user.UID.String(),
		username: user.Username,
		email:    user.Email,
		role:     user.Role,
	}
}

type authIdentity struct {
	id       string
	username string
	email    string
	role     string
}

func (a *authIdentity) ID() string       { return a.id }
func (a *authIdentity) Username() string { return a.username }
func (a *authIdentity) Email() string    { return a.email }
func (a *authIdentity) Role() string     { return a.role }
