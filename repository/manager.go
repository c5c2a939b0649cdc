package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	shop "github.com/goliatone/go-shop"
)

const (
	usersCollection    = "users"
	productsCollection = "products"
	ordersCollection   = "orders"
	reviewsCollection  = "reviews"
)

type mngr struct {
	db       *mongo.Database
	users    shop.Users
	products shop.Products
	orders   shop.Orders
	reviews  shop.Reviews
}

// NewRepositoryManager wires every repository against one database handle.
func NewRepositoryManager(db *mongo.Database) shop.RepositoryManager {
	return &mngr{
		db:       db,
		users:    NewUsersRepository(db.Collection(usersCollection)),
		products: NewProductsRepository(db.Collection(productsCollection)),
		orders:   NewOrdersRepository(db.Collection(ordersCollection)),
		reviews:  NewReviewsRepository(db.Collection(reviewsCollection)),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.products == nil {
		return errors.New("repository products should be initialized")
	}

	if m.orders == nil {
		return errors.New("repository orders should be initialized")
	}

	if m.reviews == nil {
		return errors.New("repository reviews should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) Users() shop.Users {
	return m.users
}

func (m mngr) Products() shop.Products {
	return m.products
}

func (m mngr) Orders() shop.Orders {
	return m.orders
}

func (m mngr) Reviews() shop.Reviews {
	return m.reviews
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// email index is what makes DuplicateEmail detection work; the token indexes
// keep the consume queries from scanning the collection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	users := db.Collection(usersCollection)

	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "verification_token", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "reset_token", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	if err != nil {
		return err
	}

	orders := db.Collection(ordersCollection)
	_, err = orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "payment.gateway_order_id", Value: 1}},
	})
	return err
}

func now() *time.Time {
	n := time.Now().UTC()
	return &n
}
