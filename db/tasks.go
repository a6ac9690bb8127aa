package db

import (
	"context"
	"errors"
	"time"

	"github.com/rs/xid"
	"github.com/yurys/todo-list-backend/common"
	"github.com/yurys/todo-list-backend/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TaskStore performs single-document task operations. Every query filters by
// owner as well as id, so a task belonging to another user is
// indistinguishable from a missing one.
type TaskStore struct {
	collection *mongo.Collection
}

func NewTaskStore(database *mongo.Database) *TaskStore {
	return &TaskStore{collection: database.Collection("tasks")}
}

func (store *TaskStore) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]model.Task, error) {
	cur, err := store.collection.Find(ctx, bson.M{"userId": ownerID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	tasks := make([]model.Task, 0)
	for cur.Next(ctx) {
		var task model.Task
		if err := cur.Decode(&task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, cur.Err()
}

// Create assigns the id, creation time and completion default. The caller
// sets UserID and any subtasks.
func (store *TaskStore) Create(ctx context.Context, task *model.Task) error {
	task.ID = primitive.NewObjectID()
	task.Completed = false
	task.CreatedAt = time.Now()
	if task.Subtasks == nil {
		task.Subtasks = []model.Subtask{}
	}

	_, err := store.collection.InsertOne(ctx, task)
	return err
}

func (store *TaskStore) Toggle(ctx context.Context, ownerID, taskID primitive.ObjectID) (*model.Task, error) {
	task, err := store.find(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	if err := store.save(ctx, ownerID, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (store *TaskStore) Delete(ctx context.Context, ownerID, taskID primitive.ObjectID) error {
	result, err := store.collection.DeleteOne(ctx, bson.M{"_id": taskID, "userId": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return common.ErrTaskNotFound
	}
	return nil
}

func (store *TaskStore) AddSubtask(ctx context.Context, ownerID, taskID primitive.ObjectID, text string) (*model.Task, error) {
	task, err := store.find(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	task.Subtasks = append(task.Subtasks, model.Subtask{
		ID:        xid.New().String(),
		Text:      text,
		Completed: false,
	})
	if err := store.save(ctx, ownerID, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (store *TaskStore) ToggleSubtask(ctx context.Context, ownerID, taskID primitive.ObjectID, subtaskID string) (*model.Task, error) {
	task, err := store.find(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == subtaskID {
			task.Subtasks[i].Completed = !task.Subtasks[i].Completed
			found = true
			break
		}
	}
	if !found {
		return nil, common.ErrSubtaskNotFound
	}

	if err := store.save(ctx, ownerID, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (store *TaskStore) find(ctx context.Context, ownerID, taskID primitive.ObjectID) (*model.Task, error) {
	var task model.Task
	err := store.collection.FindOne(ctx, bson.M{"_id": taskID, "userId": ownerID}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (store *TaskStore) save(ctx context.Context, ownerID primitive.ObjectID, task *model.Task) error {
	_, err := store.collection.ReplaceOne(ctx, bson.M{"_id": task.ID, "userId": ownerID}, task)
	return err
}
