package users

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a user account. Wire names for the profile fields follow the
// public API contract (UserName, phoneNumber, address). The password digest is
// never serialized in any response.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty" example:"683cdb8aa96ad71e8e075bd1"`
	Email        string        `bson:"email" json:"email" example:"test@example.com"`
	PasswordHash string        `bson:"password_hash" json:"-"`
	UserName     string        `bson:"user_name" json:"UserName" example:"John Doe"`
	PhoneNumber  string        `bson:"phone_number" json:"phoneNumber" example:"+1234567890"`
	Address      string        `bson:"address" json:"address" example:"123 Main St, City"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at" example:"2025-06-01T23:00:26.005703677Z"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at" example:"2025-06-01T23:00:26.005703677Z"`
}

// UpdateUser is the persistence-level patch applied to a user record.
// Nil fields are left untouched.
type UpdateUser struct {
	UserName    *string
	PhoneNumber *string
	Address     *string
}
