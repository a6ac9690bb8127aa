package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is created on first Google sign-in and never deleted. GoogleID is the
// provider subject identifier and is unique across the collection.
type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	GoogleID  string             `json:"googleId" bson:"googleId"`
	Email     string             `json:"email" bson:"email"`
	Name      string             `json:"name,omitempty" bson:"name,omitempty"`
	Picture   string             `json:"picture,omitempty" bson:"picture,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
