package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User model for the legacy local auth path. New signups go through the
// external auth provider instead.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName  string             `bson:"fullname" json:"fullname"`
	Email     string             `bson:"email" json:"email"`
	HPassword string             `bson:"password" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
