package repository

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	shop "github.com/goliatone/go-shop"
)

// ErrOrderNotFound is returned when no order matches a lookup.
var ErrOrderNotFound = goerrors.New("order not found", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound)

type orders struct {
	coll *mongo.Collection
}

// Verify interface compliance
var _ shop.Orders = (*orders)(nil)

// NewOrdersRepository returns the mongo-backed orders repository.
func NewOrdersRepository(coll *mongo.Collection) shop.Orders {
	return &orders{coll: coll}
}

func (r *orders) Create(ctx context.Context, order *shop.Order) (*shop.Order, error) {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.PlacedAt == nil {
		order.PlacedAt = now()
	}

	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert order")
	}
	return order, nil
}

func (r *orders) List(ctx context.Context) ([]shop.Order, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list orders")
	}

	results := []shop.Order{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to decode orders")
	}
	return results, nil
}

// AttachPaymentDetails fills in the webhook fields on the order holding the
// gateway order id. The gateway id is assigned before the customer ever pays,
// so a miss here means the webhook references an order we never created.
func (r *orders) AttachPaymentDetails(ctx context.Context, gatewayOrderID, method, email, upiTransactionID string) (*shop.Order, error) {
	filter := bson.M{"payment.gateway_order_id": gatewayOrderID}
	update := bson.M{
		"$set": bson.M{
			"payment.method":             method,
			"payment.email":              email,
			"payment.upi_transaction_id": upiTransactionID,
			"updated_at":                 time.Now().UTC(),
		},
	}

	order := &shop.Order{}
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(order)
	if err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to attach payment details")
	}

	return order, nil
}
