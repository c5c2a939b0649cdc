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

type users struct {
	coll *mongo.Collection
}

// Verify interface compliance
var _ shop.Users = (*users)(nil)

// NewUsersRepository returns the mongo-backed users repository.
func NewUsersRepository(coll *mongo.Collection) shop.Users {
	return &users{coll: coll}
}

func (r *users) Create(ctx context.Context, user *shop.User) (*shop.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, shop.ErrDuplicateEmail
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert user")
	}

	return user, nil
}

func (r *users) GetByID(ctx context.Context, id string) (*shop.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *users) GetByEmail(ctx context.Context, email string, role shop.UserRole) (*shop.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "role": role})
}

func (r *users) findOne(ctx context.Context, filter bson.M) (*shop.User, error) {
	user := &shop.User{}
	if err := r.coll.FindOne(ctx, filter).Decode(user); err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return nil, shop.ErrIdentityNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to query user")
	}
	return user, nil
}

// ConsumeVerificationToken is a single conditional update: only a document
// still holding the token matches, so a second consumer gets no document.
func (r *users) ConsumeVerificationToken(ctx context.Context, token string, role shop.UserRole) (*shop.User, error) {
	filter := bson.M{
		"verification_token": token,
		"role":               role,
		"verified":           false,
	}
	update := bson.M{
		"$set":   bson.M{"verified": true, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"verification_token": ""},
	}

	user := &shop.User{}
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(user)
	if err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return nil, shop.ErrVerificationTokenInvalid
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume verification token")
	}

	return user, nil
}

func (r *users) SetResetToken(ctx context.Context, email string, role shop.UserRole, token string, expiresAt time.Time) (*shop.User, error) {
	filter := bson.M{"email": email, "role": role}
	update := bson.M{
		"$set": bson.M{
			"reset_token":            token,
			"reset_token_expires_at": expiresAt.UTC(),
			"updated_at":             time.Now().UTC(),
		},
	}

	user := &shop.User{}
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(user)
	if err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return nil, shop.ErrIdentityNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store reset token")
	}

	return user, nil
}

// ConsumeResetToken swaps the password hash on the document holding an
// unexpired matching token. Match and mutation happen in one update, which
// closes the read-then-write race on single-use tokens.
func (r *users) ConsumeResetToken(ctx context.Context, token string, role shop.UserRole, passwordHash string) (*shop.User, error) {
	filter := bson.M{
		"reset_token":            token,
		"role":                   role,
		"reset_token_expires_at": bson.M{"$gt": time.Now().UTC()},
	}
	update := bson.M{
		"$set":   bson.M{"password_hash": passwordHash, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"reset_token": "", "reset_token_expires_at": ""},
	}

	user := &shop.User{}
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(user)
	if err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return nil, shop.ErrResetTokenInvalid
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume reset token")
	}

	return user, nil
}

func (r *users) UpdateCart(ctx context.Context, userID string, cart shop.Cart) error {
	update := bson.M{
		"$set": bson.M{"cart": cart, "updated_at": time.Now().UTC()},
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update cart")
	}
	if res.MatchedCount == 0 {
		return shop.ErrIdentityNotFound
	}
	return nil
}
