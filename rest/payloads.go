package rest

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"

	shop "github.com/goliatone/go-shop"
)

// maxItemQuantity caps how many units of one product a single order line holds
const maxItemQuantity = 5

// SignupPayload is the /user/signup body
type SignupPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate will validate the payload
func (r SignupPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Phone, validation.By(ValidatePhoneNumber)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.Role, validation.In(shop.RoleUser, shop.RoleAdmin)),
	)
}

// LoginPayload is the /user/login body
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate will validate the payload
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.Role, validation.In(shop.RoleUser, shop.RoleAdmin)),
	)
}

// ResetRequestPayload is the /user/reset-password body
type ResetRequestPayload struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Validate will validate the payload
func (r ResetRequestPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Role, validation.In(shop.RoleUser, shop.RoleAdmin)),
	)
}

// ResetFinalizePayload is the /user/reset-password/:token body
type ResetFinalizePayload struct {
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate will validate the payload
func (r ResetFinalizePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.Role, validation.In(shop.RoleUser, shop.RoleAdmin)),
	)
}

// IDPayload carries a single document id
type IDPayload struct {
	ID string `json:"id"`
}

// Validate will validate the payload
func (r IDPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
	)
}

// ProductPayload is the /product/create body
type ProductPayload struct {
	Title       string     `json:"title"`
	ImageURL    string     `json:"imageUrl"`
	Description string     `json:"description"`
	Price       shop.Price `json:"price"`
	OnSale      bool       `json:"onSale"`
	Category    string     `json:"category"`
}

// Validate will validate the payload
func (r ProductPayload) Validate() error {
	categories := make([]any, 0, len(shop.ProductCategories()))
	for _, c := range shop.ProductCategories() {
		categories = append(categories, c)
	}

	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.ImageURL, is.URL),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.Category, validation.Required, validation.In(categories...)),
		validation.Field(&r.Price, validation.By(ValidatePrice)),
	)
}

// ReviewPayload is the /review/create-review body
type ReviewPayload struct {
	Description string `json:"reviewDescription"`
	ProductID   string `json:"reviewOfProduct"`
}

// Validate will validate the payload
func (r ReviewPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Description, validation.Required, validation.Length(1, 2000)),
		validation.Field(&r.ProductID, validation.Required),
	)
}

// OrderItemPayload is one checkout line
type OrderItemPayload struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Validate will validate the payload
func (r OrderItemPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.Required),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1), validation.Max(maxItemQuantity)),
	)
}

// CreateOrderPayload is the /razorpay/create-order body
type CreateOrderPayload struct {
	Items []OrderItemPayload `json:"items"`
}

// Validate will validate the payload
func (r CreateOrderPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Items, validation.Required, validation.Length(1, 100)),
	)
}

// ValidatePhoneNumber accepts empty values and otherwise requires a number
// parseable for the storefront's region.
func ValidatePhoneNumber(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	num, err := phonenumbers.Parse(s, "IN")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return errors.New("must be a valid phone number")
	}
	return nil
}

// ValidatePrice requires a positive offer price no greater than the original.
func ValidatePrice(value any) error {
	price, ok := value.(shop.Price)
	if !ok {
		return errors.New("must be a price object")
	}
	if price.OfferPrice <= 0 || price.OriginalPrice <= 0 {
		return errors.New("prices must be positive")
	}
	if price.OfferPrice > price.OriginalPrice {
		return errors.New("offer price cannot exceed the original price")
	}
	return nil
}
