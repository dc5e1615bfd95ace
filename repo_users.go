package auth

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var ResetUserPasswordSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"usr"."uid" = ?
RETURNING *;`

var MarkUserVerifiedSQL = `UPDATE "users" AS "usr"
SET
	"is_verified" = TRUE,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"usr"."email" = ?
RETURNING *;`

// Users is the user store the gate and the command handlers depend on.
type Users interface {
	repository.Repository[*User]

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	GetByUID(ctx context.Context, uid string) (*User, error)
	Exists(ctx context.Context, email string) (bool, error)

	MarkVerified(ctx context.Context, email string) error
	MarkVerifiedTx(ctx context.Context, tx bun.IDB, email string) error
	ResetPassword(ctx context.Context, uid uuid.UUID, passwordHash string) error
	ResetPasswordTx(ctx context.Context, tx bun.IDB, uid uuid.UUID, passwordHash string) error

	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
	TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *User) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.UID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.UID = id
			}
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)
	return a.Repository.CreateTx(ctx, tx, user)
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", normalizeEmail(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"email": email,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) GetByUID(ctx context.Context, uid string) (*User, error) {
	id, err := uuid.Parse(uid)
	if err != nil {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"uid": uid,
			})
	}

	record := &User{}
	err = a.db.NewSelect().
		Model(record).
		Where("?TableAlias.uid = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"uid": uid,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) Exists(ctx context.Context, email string) (bool, error) {
	_, err := a.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if repository.IsRecordNotFound(err) {
		return false, nil
	}
	return false, err
}

func (a *users) MarkVerified(ctx context.Context, email string) error {
	return a.MarkVerifiedTx(ctx, a.db, email)
}

func (a *users) MarkVerifiedTx(ctx context.Context, tx bun.IDB, email string) error {
	res, err := a.Repository.RawTx(ctx, tx, MarkUserVerifiedSQL, normalizeEmail(email))
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"email": email,
			})
	}

	return nil
}

func (a *users) ResetPassword(ctx context.Context, uid uuid.UUID, passwordHash string) error {
	return a.ResetPasswordTx(ctx, a.db, uid, passwordHash)
}

func (a *users) ResetPasswordTx(ctx context.Context, tx bun.IDB, uid uuid.UUID, passwordHash string) error {
	res, err := a.Repository.RawTx(ctx, tx, ResetUserPasswordSQL, passwordHash, uid.String())
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"uid": uid.String(),
			})
	}

	return nil
}

func (a *users) TrackAttemptedLogin(ctx context.Context, user *User) error {
	return a.TrackAttemptedLoginTx(ctx, a.db, user)
}

func (a *users) TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, user *User) error {
	record := &User{}
	record.UID = user.UID
	record.LoginAttempts = user.LoginAttempts + 1
	now := time.Now()
	record.LoginAttemptAt = &now

	_, err := a.Repository.UpdateTx(ctx, tx, record, repository.UpdateByID(user.UID.String()))

	return err
}

func (a *users) TrackSuccessfulLogin(ctx context.Context, user *User) error {
	return a.TrackSuccessfulLoginTx(ctx, a.db, user)
}

func (a *users) TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *User) error {
	// NOTE: an ORM update wont NULL out login_attempt_at, so use raw SQL.
	loggedInAt := time.Now()
	_, err := tx.NewRaw(`
		UPDATE "users" AS "usr"
		SET
			"loggedin_at" = ?,
			"login_attempt_at" = NULL,
			"login_attempts" = 0
		WHERE
			("usr".uid = ?);
	`, loggedInAt, user.UID).Exec(ctx)

	return err
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	record.Email = normalizeEmail(record.Email)

	if record.Username == "" {
		record.Username = record.Email
	}

	if record.Role == "" {
		record.Role = RoleUser
	}

	if record.UID == uuid.Nil {
		record.UID = uuid.New()
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
