package shop

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// Verify interface compliance
var _ Authenticator = (*Auther)(nil)

// Auther implements login and token refresh against the users repository
type Auther struct {
	repo   RepositoryManager
	tokens TokenService
	hasher PasswordAuthenticator
	logger Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(repo RepositoryManager, tokens TokenService, hasher PasswordAuthenticator) *Auther {
	return &Auther{
		repo:   repo,
		tokens: tokens,
		hasher: hasher,
		logger: defLogger{},
	}
}

func (a *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// Login verifies the credentials and issues an access/refresh token pair.
// Unknown email and wrong password are indistinguishable to the caller.
func (a *Auther) Login(ctx context.Context, email, password string, role UserRole) (*TokenPair, error) {
	user, err := a.repo.Users().GetByEmail(ctx, email, role)
	if err != nil {
		if goerrors.Is(err, ErrIdentityNotFound) {
			a.logger.Debug("login attempt for unknown identity", "email", email)
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up identity")
	}

	if err := a.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if goerrors.Is(err, ErrMismatchedHashAndPassword) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to verify credentials")
	}

	return a.issuePair(NewUserIdentity(user))
}

// Refresh validates a refresh token and re-issues an access token with the
// same claims. The refresh token itself is returned unchanged; there is no
// rotation.
func (a *Auther) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.tokens.Validate(refreshToken)
	if err != nil {
		return nil, err
	}

	jwtClaims, ok := claims.(*JWTClaims)
	if !ok || jwtClaims.Kind != TokenKindRefresh {
		return nil, ErrTokenMalformed
	}

	access, err := a.tokens.IssueAccessToken(claimsIdentity{claims})
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
}

func (a *Auther) issuePair(identity Identity) (*TokenPair, error) {
	access, err := a.tokens.IssueAccessToken(identity)
	if err != nil {
		return nil, err
	}

	refresh, err := a.tokens.IssueRefreshToken(identity)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// claimsIdentity lets verified claims stand in for a stored user when
// re-issuing tokens.
type claimsIdentity struct {
	claims AuthClaims
}

func (c claimsIdentity) ID() string    { return c.claims.UserID() }
func (c claimsIdentity) Name() string  { return c.claims.Name() }
func (c claimsIdentity) Email() string { return c.claims.Email() }
func (c claimsIdentity) Role() string  { return c.claims.Role() }
