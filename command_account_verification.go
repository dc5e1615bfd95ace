package auth

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

type AccountVerificationMessage struct {
	Token string `json:"token"`
}

func (e AccountVerificationMessage) Type() string { return "user.verify_account" }

// Validate will run validation rules
func (e AccountVerificationMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Token, validation.Required),
	)
}

// AccountVerificationHandler decodes an email verification token and marks
// the account verified. Re-running with the same token is idempotent.
type AccountVerificationHandler struct {
	repo     RepositoryManager
	verifier *VerificationTokenService
	logger   Logger
}

func NewAccountVerificationHandler(repo RepositoryManager, verifier *VerificationTokenService) *AccountVerificationHandler {
	return &AccountVerificationHandler{
		repo:     repo,
		verifier: verifier,
		logger:   defLogger{},
	}
}

func (h *AccountVerificationHandler) WithLogger(logger Logger) *AccountVerificationHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *AccountVerificationHandler) Execute(ctx context.Context, event AccountVerificationMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account verification",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *AccountVerificationHandler) execute(ctx context.Context, event AccountVerificationMessage) error {
	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid verification payload")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	email, err := h.verifier.Decode(event.Token, PurposeEmailVerification)
	if err != nil {
		return err
	}

	if err := h.repo.Users().MarkVerified(ctx, email); err != nil {
		if goerrors.IsNotFound(err) {
			return ErrIdentityNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mark account as verified")
	}

	h.logger.Info("account verified for %s", email)

	return nil
}
