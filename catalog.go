package shop

import (
	"time"
)

// ProductCategory enumerates the storefront categories
type ProductCategory = string

const (
	CategoryLifestyle           ProductCategory = "Lifestyle"
	CategoryPersonalDevelopment ProductCategory = "Personal Development"
	CategoryHealthWellbeing     ProductCategory = "Health & Wellbeing"
	CategoryCareerDevelopment   ProductCategory = "Career Development"
)

// ProductCategories returns all valid categories
func ProductCategories() []ProductCategory {
	return []ProductCategory{
		CategoryLifestyle,
		CategoryPersonalDevelopment,
		CategoryHealthWellbeing,
		CategoryCareerDevelopment,
	}
}

// Price carries the list price and the current offer price
type Price struct {
	OriginalPrice float64 `bson:"original_price" json:"originalPrice"`
	OfferPrice    float64 `bson:"offer_price" json:"offerPrice"`
}

// Product is a catalog entry
type Product struct {
	ID          string          `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string          `bson:"title" json:"title"`
	ImageURL    string          `bson:"image_url" json:"imageUrl"`
	Description string          `bson:"description" json:"description"`
	Price       Price           `bson:"price" json:"price"`
	OnSale      bool            `bson:"on_sale" json:"onSale"`
	Category    ProductCategory `bson:"category" json:"category"`
	CreatedAt   *time.Time      `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt   *time.Time      `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Review is a user review of a product
type Review struct {
	ID          string     `bson:"_id,omitempty" json:"id,omitempty"`
	Description string     `bson:"description" json:"reviewDescription"`
	UserID      string     `bson:"user_id" json:"reviewByUser"`
	ProductID   string     `bson:"product_id" json:"reviewOfProduct"`
	CreatedAt   *time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt   *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// OrderItem embeds a snapshot of the product at purchase time
type OrderItem struct {
	Product  Product `bson:"product" json:"product"`
	Quantity int     `bson:"quantity" json:"quantity"`
}

// OrderCustomer pins the order to the user that placed it
type OrderCustomer struct {
	Name   string `bson:"name" json:"name"`
	UserID string `bson:"user_id" json:"userId"`
}

// OrderPayment is filled in two steps: gateway order creation, then the
// payment webhook.
type OrderPayment struct {
	GatewayOrderID   string  `bson:"gateway_order_id" json:"order_id"`
	TotalAmount      float64 `bson:"total_amount" json:"totalAmount"`
	Currency         string  `bson:"currency" json:"currency"`
	UPITransactionID string  `bson:"upi_transaction_id,omitempty" json:"upi_transaction_id,omitempty"`
	Email            string  `bson:"email,omitempty" json:"email,omitempty"`
	Method           string  `bson:"method,omitempty" json:"method,omitempty"`
}

// Order is a placed order awaiting or holding payment details
type Order struct {
	ID       string        `bson:"_id,omitempty" json:"id,omitempty"`
	Items    []OrderItem   `bson:"items" json:"items"`
	Customer OrderCustomer `bson:"user" json:"user"`
	PlacedAt *time.Time    `bson:"placed_at,omitempty" json:"orderPlacedDate,omitempty"`
	Payment  OrderPayment  `bson:"payment" json:"orderDetails"`
}

// Total sums quantity times offer price across all lines.
func (o Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Product.Price.OfferPrice * float64(item.Quantity)
	}
	return total
}
