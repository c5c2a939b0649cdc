package shop

import (
	"context"
	"time"
)

// Users is the persistence surface for user records. Token consumption
// methods are single atomic conditional updates: the matching document has
// its token fields mutated and cleared in the same operation, so two
// concurrent consumers can never both succeed.
type Users interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string, role UserRole) (*User, error)
	// ConsumeVerificationToken marks the matching unverified user as verified
	// and clears the token. Returns ErrVerificationTokenInvalid when nothing
	// matches.
	ConsumeVerificationToken(ctx context.Context, token string, role UserRole) (*User, error)
	// SetResetToken stores a reset token and expiry on the user with the given
	// email. Returns ErrIdentityNotFound when the email is unknown.
	SetResetToken(ctx context.Context, email string, role UserRole, token string, expiresAt time.Time) (*User, error)
	// ConsumeResetToken swaps the password hash on the user holding an
	// unexpired matching token, clearing the token and its expiry. Returns
	// ErrResetTokenInvalid when nothing matches.
	ConsumeResetToken(ctx context.Context, token string, role UserRole, passwordHash string) (*User, error)
	UpdateCart(ctx context.Context, userID string, cart Cart) error
}

// Products is the catalog persistence surface
type Products interface {
	Create(ctx context.Context, product *Product) (*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByTitle(ctx context.Context, title string) (*Product, error)
	List(ctx context.Context, titleFilter string) ([]Product, error)
	Delete(ctx context.Context, id string) error
}

// Reviews is the review persistence surface
type Reviews interface {
	Create(ctx context.Context, review *Review) (*Review, error)
	GetByID(ctx context.Context, id string) (*Review, error)
	List(ctx context.Context) ([]Review, error)
	Delete(ctx context.Context, id string) error
}

// Orders is the order persistence surface
type Orders interface {
	Create(ctx context.Context, order *Order) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	// AttachPaymentDetails records the webhook payment fields on the order
	// holding the gateway order id.
	AttachPaymentDetails(ctx context.Context, gatewayOrderID, method, email, upiTransactionID string) (*Order, error)
}

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	Validate() error
	Users() Users
	Products() Products
	Orders() Orders
	Reviews() Reviews
}
