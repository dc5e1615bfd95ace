package auth

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type FinalizePasswordResetMessage struct {
	Token           string `json:"token" doc:"Password reset token from the emailed link"`
	Password        string `json:"password" doc:"New password"`
	ConfirmPassword string `json:"confirm_password" doc:"New password, again"`
}

func (e FinalizePasswordResetMessage) Type() string { return "user.password_reset_confirm" }

// Validate will run validation rules
func (e FinalizePasswordResetMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Token, validation.Required),
		validation.Field(&e.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(
			&e.ConfirmPassword,
			validation.Required,
			validation.In(e.Password).Error("passwords do not match"),
		),
	)
}

// FinalizePasswordResetHandler decodes a reset token and replaces the user's
// password hash. Tokens are not tracked for single use; reuse inside the max
// age window re-runs the same update.
type FinalizePasswordResetHandler struct {
	repo     RepositoryManager
	verifier *VerificationTokenService
	logger   Logger
}

func NewFinalizePasswordResetHandler(repo RepositoryManager, verifier *VerificationTokenService) *FinalizePasswordResetHandler {
	return &FinalizePasswordResetHandler{
		repo:     repo,
		verifier: verifier,
		logger:   defLogger{},
	}
}

func (h *FinalizePasswordResetHandler) WithLogger(logger Logger) *FinalizePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *FinalizePasswordResetHandler) Execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset finalization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *FinalizePasswordResetHandler) execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password reset payload")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	email, err := h.verifier.Decode(event.Token, PurposePasswordReset)
	if err != nil {
		return err
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := h.repo.Users().GetByEmailTx(ctx, tx, email)
		if err != nil {
			if goerrors.IsNotFound(err) {
				return ErrIdentityNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not retrieve user for password reset")
		}

		passwordHash, err := HashPassword(event.Password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
		}

		if err := h.repo.Users().ResetPasswordTx(ctx, tx, user.UID, passwordHash); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user password")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to finalize password reset")
	}

	h.logger.Info("password reset completed for %s", email)

	return nil
}
