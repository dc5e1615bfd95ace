package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type RegisterUserMessage struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate will run validation rules
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.FirstName, validation.Length(0, 200)),
		validation.Field(&e.LastName, validation.Length(0, 200)),
		validation.Field(&e.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&e.Password, validation.Required, validation.Length(6, 100)),
	)
}

// RegisterUserHandler signs a user up and sends the account verification
// email.
type RegisterUserHandler struct {
	repo      RepositoryManager
	verifier  *VerificationTokenService
	mailer    Mailer
	logger    Logger
	appDomain string
}

func NewRegisterUserHandler(repo RepositoryManager, verifier *VerificationTokenService) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:      repo,
		verifier:  verifier,
		mailer:    logMailer{logger: defLogger{}},
		logger:    defLogger{},
		appDomain: "localhost:8000",
	}
}

func (h *RegisterUserHandler) WithMailer(mailer Mailer) *RegisterUserHandler {
	if mailer != nil {
		h.mailer = mailer
	}
	return h
}

func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterUserHandler) WithAppDomain(domain string) *RegisterUserHandler {
	if domain != "" {
		h.appDomain = domain
	}
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload")
	}

	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := h.repo.Users().Exists(ctx, event.Email)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing user")
		}
		if exists {
			return ErrUserAlreadyExists
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.PasswordHash = hash
		user.Email = event.Email
		user.FirstName = event.FirstName
		user.LastName = event.LastName
		user.Username = getUsername(event.Username, event.Email)

		if user, err = h.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	token, err := h.verifier.Create(user.Email, PurposeEmailVerification)
	if err != nil {
		h.logger.Error("failed to create verification token for %s: %v", user.Email, err)
		return nil
	}

	link := fmt.Sprintf("http://%s/verify/%s", h.appDomain, token)
	sendAsync(h.mailer, h.logger, []string{user.Email}, "Verify Your Email",
		fmt.Sprintf(`<h1>Verify your Email</h1><p>Please click this <a href="%s">link</a> to verify your email</p>`, link))

	return nil
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}
