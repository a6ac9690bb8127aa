package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Subtask struct {
	ID        string `json:"id" bson:"id"`
	Text      string `json:"text" bson:"text"`
	Completed bool   `json:"completed" bson:"completed"`
}

// Task is owned by exactly one user. Every store query filters on UserID so
// tasks are unreachable through any other identity.
type Task struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Text      string             `json:"text" bson:"text"`
	Completed bool               `json:"completed" bson:"completed"`
	Deadline  *time.Time         `json:"deadline,omitempty" bson:"deadline,omitempty"`
	Subtasks  []Subtask          `json:"subtasks" bson:"subtasks"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
