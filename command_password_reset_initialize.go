package shop

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type InitializePasswordResetMessage struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (e InitializePasswordResetMessage) Type() string { return "user.password_reset" }

type InitializePasswordResetHandler struct {
	repo     RepositoryManager
	tokens   TokenService
	mailer   Mailer
	resetTTL time.Duration
	logger   Logger
}

// NewInitializePasswordResetHandler creates a handler with sane defaults.
func NewInitializePasswordResetHandler(repo RepositoryManager, tokens TokenService, mailer Mailer, resetTTL time.Duration) *InitializePasswordResetHandler {
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &InitializePasswordResetHandler{
		repo:     repo,
		tokens:   tokens,
		mailer:   mailer,
		resetTTL: resetTTL,
		logger:   defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *InitializePasswordResetHandler) WithLogger(logger Logger) *InitializePasswordResetHandler {
	if logger != nil {
		h.logger = logger
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
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	role, ok := ParseRole(event.Role)
	if !ok {
		return goerrors.New("unknown role for password reset", goerrors.CategoryBadInput).
			WithMetadata(map[string]any{"role": event.Role})
	}

	token, err := h.tokens.GenerateOpaqueToken()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate reset token")
	}

	expiresAt := time.Now().Add(h.resetTTL)

	user, err := h.repo.Users().SetResetToken(ctx, event.Email, role, token, expiresAt)
	if err != nil {
		if goerrors.Is(err, ErrIdentityNotFound) {
			// The caller always gets a generic acknowledgment so the endpoint
			// cannot be used to enumerate accounts.
			h.logger.Debug("password reset requested for unknown email", "email", event.Email)
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store reset token")
	}

	go func() {
		if err := h.mailer.SendPasswordReset(context.WithoutCancel(ctx), user.Name, user.Email, token); err != nil {
			h.logger.Error("failed to send reset email", "email", user.Email, "error", err)
		}
	}()

	return nil
}
