package shop

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

type RegisterUserMessage struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Password  string `json:"password"`
	UseHashid bool
}

func (e RegisterUserMessage) Type() string { return "user.register" }

type RegisterUserHandler struct {
	repo   RepositoryManager
	tokens TokenService
	hasher PasswordAuthenticator
	mailer Mailer
	logger Logger
}

// NewRegisterUserHandler creates a handler with sane defaults.
func NewRegisterUserHandler(repo RepositoryManager, tokens TokenService, hasher PasswordAuthenticator, mailer Mailer) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:   repo,
		tokens: tokens,
		hasher: hasher,
		mailer: mailer,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
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
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	role, ok := ParseRole(event.Role)
	if !ok {
		return goerrors.New("unknown role for registration", goerrors.CategoryBadInput).
			WithMetadata(map[string]any{"role": event.Role})
	}

	hash, err := h.hasher.HashPassword(event.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	verificationToken, err := h.tokens.GenerateOpaqueToken()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate verification token")
	}

	user := &User{
		Name:              strings.TrimSpace(event.Name),
		Email:             strings.TrimSpace(strings.ToLower(event.Email)),
		Phone:             event.Phone,
		PasswordHash:      hash,
		Role:              role,
		Verified:          false,
		VerificationToken: verificationToken,
	}

	if event.UseHashid {
		if id, err := hashid.NewUUID(user.Email); err == nil {
			user.ID = id.String()
		}
	}

	if user, err = h.repo.Users().Create(ctx, user); err != nil {
		if goerrors.Is(err, ErrDuplicateEmail) {
			return ErrDuplicateEmail
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
	}

	// Mail is fire-and-forget: the account exists either way and the token
	// can be re-sent out of band.
	go func() {
		if err := h.mailer.SendAccountVerification(context.WithoutCancel(ctx), user.Name, user.Email, verificationToken); err != nil {
			h.logger.Error("failed to send verification email", "email", user.Email, "error", err)
		}
	}()

	return nil
}
