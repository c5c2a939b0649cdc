package shop

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when the config does not set one.
const DefaultBcryptCost = 14

// Verify interface compliance
var _ PasswordAuthenticator = (*Hasher)(nil)

// Hasher wraps bcrypt with a process-wide cost factor set once at startup.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher, clamping the cost into bcrypt's valid range.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Hasher{cost: cost}
}

// HashPassword will generate a password hash
func (h *Hasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}
	return string(hash), nil
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func (h *Hasher) ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if goerrors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to compare password hash")
	}
	return nil
}

// RandomPasswordHash is a temporary password
func (h *Hasher) RandomPasswordHash() string {
	pwd := uuid.New()

	hash, err := h.HashPassword(pwd.String())
	if err != nil {
		return h.RandomPasswordHash()
	}

	return hash
}
