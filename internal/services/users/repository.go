package users

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Repository defines the interface for user persistence operations
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id bson.ObjectID, patch UpdateUser) (*User, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}
