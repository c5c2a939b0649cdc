package repository

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	shop "github.com/goliatone/go-shop"
)

// ErrReviewNotFound is returned when no review matches a lookup.
var ErrReviewNotFound = goerrors.New("review not found", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound)

type reviews struct {
	coll *mongo.Collection
}

// Verify interface compliance
var _ shop.Reviews = (*reviews)(nil)

// NewReviewsRepository returns the mongo-backed reviews repository.
func NewReviewsRepository(coll *mongo.Collection) shop.Reviews {
	return &reviews{coll: coll}
}

func (r *reviews) Create(ctx context.Context, review *shop.Review) (*shop.Review, error) {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	review.CreatedAt = now()
	review.UpdatedAt = review.CreatedAt

	if _, err := r.coll.InsertOne(ctx, review); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert review")
	}
	return review, nil
}

func (r *reviews) GetByID(ctx context.Context, id string) (*shop.Review, error) {
	review := &shop.Review{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(review); err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReviewNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to query review")
	}
	return review, nil
}

func (r *reviews) List(ctx context.Context) ([]shop.Review, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list reviews")
	}

	results := []shop.Review{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to decode reviews")
	}
	return results, nil
}

func (r *reviews) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete review")
	}
	if res.DeletedCount == 0 {
		return ErrReviewNotFound
	}
	return nil
}
