package db

import (
	"context"
	"errors"
	"time"

	"github.com/yurys/todo-list-backend/common"
	"github.com/yurys/todo-list-backend/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserStore struct {
	collection *mongo.Collection
}

func NewUserStore(database *mongo.Database) *UserStore {
	return &UserStore{collection: database.Collection("users")}
}

// Upsert resolves the user for a Google subject, inserting a record the
// first time the subject is seen. Repeated calls with the same googleID are
// idempotent and return the already-stored record untouched; optional
// profile fields that arrive empty are stored absent.
func (store *UserStore) Upsert(ctx context.Context, googleID, email, name, picture string) (*model.User, error) {
	doc := bson.M{
		"_id":       primitive.NewObjectID(),
		"googleId":  googleID,
		"email":     email,
		"createdAt": time.Now(),
	}
	if name != "" {
		doc["name"] = name
	}
	if picture != "" {
		doc["picture"] = picture
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user model.User
	err := store.collection.
		FindOneAndUpdate(ctx, bson.M{"googleId": googleID}, bson.M{"$setOnInsert": doc}, opts).
		Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (store *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user model.User
	err := store.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
