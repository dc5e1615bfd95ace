package auth

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

type InitializePasswordResetMessage struct {
	Email string `json:"email" example:"pepe.rone@example.com" doc:"Customer email."`
}

func (e InitializePasswordResetMessage) Type() string { return "user.password_reset" }

// Validate will run validation rules
func (e InitializePasswordResetMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, is.Email),
	)
}

// InitializePasswordResetHandler issues a password reset token and emails the
// reset link. Unknown emails succeed silently so callers cannot probe which
// accounts exist.
type InitializePasswordResetHandler struct {
	repo      RepositoryManager
	verifier  *VerificationTokenService
	mailer    Mailer
	logger    Logger
	appDomain string
}

func NewInitializePasswordResetHandler(repo RepositoryManager, verifier *VerificationTokenService) *InitializePasswordResetHandler {
	return &InitializePasswordResetHandler{
		repo:      repo,
		verifier:  verifier,
		mailer:    logMailer{logger: defLogger{}},
		logger:    defLogger{},
		appDomain: "localhost:8000",
	}
}

func (h *InitializePasswordResetHandler) WithMailer(mailer Mailer) *InitializePasswordResetHandler {
	if mailer != nil {
		h.mailer = mailer
	}
	return h
}

func (h *InitializePasswordResetHandler) WithLogger(logger Logger) *InitializePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *InitializePasswordResetHandler) WithAppDomain(domain string) *InitializePasswordResetHandler {
	if domain != "" {
		h.appDomain = domain
	}
	return h
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password reset payload")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().GetByEmail(ctx, event.Email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			h.logger.Debug("password reset requested for unknown email %s", event.Email)
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
	}

	token, err := h.verifier.Create(user.Email, PurposePasswordReset)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create password reset token")
	}

	link := fmt.Sprintf("http://%s/password-reset-confirm/%s", h.appDomain, token)
	sendAsync(h.mailer, h.logger, []string{user.Email}, "Reset Your Password",
		fmt.Sprintf(`<h1>Reset Your Password</h1><p>Please click this <a href="%s">link</a> to reset your password</p>`, link))

	return nil
}
