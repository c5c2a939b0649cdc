package shop

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type VerifyAccountMessage struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

func (e VerifyAccountMessage) Type() string { return "user.verify_account" }

type VerifyAccountHandler struct {
	repo   RepositoryManager
	logger Logger
}

// NewVerifyAccountHandler creates a handler with sane defaults.
func NewVerifyAccountHandler(repo RepositoryManager) *VerifyAccountHandler {
	return &VerifyAccountHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *VerifyAccountHandler) WithLogger(logger Logger) *VerifyAccountHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *VerifyAccountHandler) Execute(ctx context.Context, event VerifyAccountMessage) error {
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

func (h *VerifyAccountHandler) execute(ctx context.Context, event VerifyAccountMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if event.Token == "" {
		return ErrVerificationTokenInvalid
	}

	role, ok := ParseRole(event.Role)
	if !ok {
		return goerrors.New("unknown role for account verification", goerrors.CategoryBadInput).
			WithMetadata(map[string]any{"role": event.Role})
	}

	// The repository flips verified and clears the token in one conditional
	// update, so a token can only ever be consumed once.
	user, err := h.repo.Users().ConsumeVerificationToken(ctx, event.Token, role)
	if err != nil {
		if goerrors.Is(err, ErrVerificationTokenInvalid) {
			return ErrVerificationTokenInvalid
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume verification token")
	}

	h.logger.Info("account verified", "email", user.Email)
	return nil
}
