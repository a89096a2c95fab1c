package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"user-vault/internal/services/users"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UsersRepo implements the users.Repository interface for MongoDB
type UsersRepo struct {
	collection *mongo.Collection
}

func repoCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, OpTimeout)
}

// translateNotFound maps the driver ErrNoDocuments to the domain-level ErrUserNotFound.
func translateNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return users.ErrUserNotFound
	}
	return err
}

// NewUsersRepo creates a new users repository. The unique index on email is the
// authoritative duplicate-email guard; handler-side existence checks are advisory.
func NewUsersRepo(parentCtx context.Context, db *mongo.Database) (*UsersRepo, error) {
	collection := db.Collection("users")

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	ctx, cancel := context.WithTimeout(parentCtx, OpTimeout)
	defer cancel()

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("failed to create users collection index: %w", err)
		}
	}

	return &UsersRepo{
		collection: collection,
	}, nil
}

// Create creates a new user in the database
func (r *UsersRepo) Create(ctx context.Context, user *users.User) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return users.ErrEmailTaken
		}
		return err
	}

	return nil
}

// FindByEmail finds a user by email address
func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var user users.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, translateNotFound(err)
	}

	return &user, nil
}

// FindByID finds a user by its ObjectID
func (r *UsersRepo) FindByID(ctx context.Context, id bson.ObjectID) (*users.User, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var user users.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, translateNotFound(err)
	}

	return &user, nil
}

// List returns all user records, no pagination
func (r *UsersRepo) List(ctx context.Context) ([]*users.User, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	list := make([]*users.User, 0)
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}

	return list, nil
}

// Update applies the non-nil patch fields to the stored record and returns the
// updated document.
func (r *UsersRepo) Update(ctx context.Context, id bson.ObjectID, patch users.UpdateUser) (*users.User, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{"_id": id}

	update := bson.M{
		"$set": bson.M{
			"updated_at": time.Now().UTC(),
		},
	}

	// Only update fields that are provided
	if patch.UserName != nil {
		update["$set"].(bson.M)["user_name"] = *patch.UserName
	}
	if patch.PhoneNumber != nil {
		update["$set"].(bson.M)["phone_number"] = *patch.PhoneNumber
	}
	if patch.Address != nil {
		update["$set"].(bson.M)["address"] = *patch.Address
	}

	// Skip the write if only updated_at would be set
	if len(update["$set"].(bson.M)) == 1 {
		var existing users.User
		if err := r.collection.FindOne(ctx, filter).Decode(&existing); err != nil {
			return nil, translateNotFound(err)
		}
		return &existing, nil
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated users.User
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return nil, translateNotFound(err)
	}

	return &updated, nil
}

// Delete removes a user record by id
func (r *UsersRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return users.ErrUserNotFound
	}

	return nil
}
