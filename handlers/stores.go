package handlers

import (
	"context"

	"github.com/yurys/todo-list-backend/auth"
	"github.com/yurys/todo-list-backend/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store interfaces consumed by the HTTP layer. The Mongo-backed
// implementations live in the db package; tests substitute in-memory fakes.

type UserStore interface {
	Upsert(ctx context.Context, googleID, email, name, picture string) (*model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

type TaskStore interface {
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]model.Task, error)
	Create(ctx context.Context, task *model.Task) error
	Toggle(ctx context.Context, ownerID, taskID primitive.ObjectID) (*model.Task, error)
	Delete(ctx context.Context, ownerID, taskID primitive.ObjectID) error
	AddSubtask(ctx context.Context, ownerID, taskID primitive.ObjectID, text string) (*model.Task, error)
	ToggleSubtask(ctx context.Context, ownerID, taskID primitive.ObjectID, subtaskID string) (*model.Task, error)
}

// OAuthProvider abstracts the identity provider round trip.
type OAuthProvider interface {
	LoginURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.Profile, error)
}
