package shop

import (
	"time"
)

// CartItem is a single line in a user's cart
type CartItem struct {
	ProductID string `bson:"product_id" json:"productId"`
	Quantity  int    `bson:"quantity" json:"quantity"`
}

// Cart lives embedded on the user document, as a single atomic unit
type Cart struct {
	Items []CartItem `bson:"items" json:"items"`
}

// User is the user model
type User struct {
	ID                  string     `bson:"_id,omitempty" json:"id,omitempty"`
	Name                string     `bson:"name" json:"name,omitempty"`
	Email               string     `bson:"email" json:"email,omitempty"`
	Phone               string     `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	PasswordHash        string     `bson:"password_hash" json:"-"`
	Role                UserRole   `bson:"role" json:"role,omitempty"`
	Cart                Cart       `bson:"cart" json:"cart,omitempty"`
	Verified            bool       `bson:"verified" json:"verified"`
	VerificationToken   string     `bson:"verification_token,omitempty" json:"-"`
	ResetToken          string     `bson:"reset_token,omitempty" json:"-"`
	ResetTokenExpiresAt *time.Time `bson:"reset_token_expires_at,omitempty" json:"-"`
	CreatedAt           *time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt           *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Verify interface compliance
var _ Identity = (*UserIdentity)(nil)

// UserIdentity adapts a stored User to the Identity claims surface
type UserIdentity struct {
	user *User
}

// NewUserIdentity wraps a user record
func NewUserIdentity(user *User) *UserIdentity {
	return &UserIdentity{user: user}
}

func (u *UserIdentity) ID() string {
	return u.user.ID
}

func (u *UserIdentity) Name() string {
	return u.user.Name
}

func (u *UserIdentity) Email() string {
	return u.user.Email
}

func (u *UserIdentity) Role() string {
	return u.user.Role
}
