package repository

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	shop "github.com/goliatone/go-shop"
)

// ErrProductNotFound is returned when no product matches a lookup.
var ErrProductNotFound = goerrors.New("product not found", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound)

type products struct {
	coll *mongo.Collection
}

// Verify interface compliance
var _ shop.Products = (*products)(nil)

// NewProductsRepository returns the mongo-backed catalog repository.
func NewProductsRepository(coll *mongo.Collection) shop.Products {
	return &products{coll: coll}
}

func (r *products) Create(ctx context.Context, product *shop.Product) (*shop.Product, error) {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.CreatedAt = now()
	product.UpdatedAt = product.CreatedAt

	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert product")
	}
	return product, nil
}

func (r *products) GetByID(ctx context.Context, id string) (*shop.Product, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *products) GetByTitle(ctx context.Context, title string) (*shop.Product, error) {
	return r.findOne(ctx, bson.M{"title": title})
}

func (r *products) findOne(ctx context.Context, filter bson.M) (*shop.Product, error) {
	product := &shop.Product{}
	if err := r.coll.FindOne(ctx, filter).Decode(product); err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to query product")
	}
	return product, nil
}

// List filters by a case-insensitive substring of the title when one is
// given, mirroring the storefront search box.
func (r *products) List(ctx context.Context, titleFilter string) ([]shop.Product, error) {
	filter := bson.M{}
	if titleFilter != "" {
		filter["title"] = bson.M{"$regex": titleFilter, "$options": "i"}
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list products")
	}

	results := []shop.Product{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to decode products")
	}
	return results, nil
}

func (r *products) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete product")
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}
