package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/yurys/todo-list-backend/auth"
	"github.com/yurys/todo-list-backend/common"
	"github.com/yurys/todo-list-backend/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stand-ins for the Mongo-backed stores, mirroring their
// contracts: owner-filtered lookups, not-found sentinels, id assignment.

type fakeTaskStore struct {
	mu    sync.Mutex
	tasks map[primitive.ObjectID]*model.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[primitive.ObjectID]*model.Task)}
}

func (s *fakeTaskStore) ListByOwner(_ context.Context, ownerID primitive.ObjectID) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]model.Task, 0)
	for _, task := range s.tasks {
		if task.UserID == ownerID {
			tasks = append(tasks, *task)
		}
	}
	return tasks, nil
}

func (s *fakeTaskStore) Create(_ context.Context, task *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = primitive.NewObjectID()
	task.Completed = false
	task.CreatedAt = time.Now()
	if task.Subtasks == nil {
		task.Subtasks = []model.Subtask{}
	}

	stored := *task
	s.tasks[task.ID] = &stored
	return nil
}

func (s *fakeTaskStore) Toggle(_ context.Context, ownerID, taskID primitive.ObjectID) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.find(ownerID, taskID)
	if err != nil {
		return nil, err
	}
	task.Completed = !task.Completed
	copied := *task
	return &copied, nil
}

func (s *fakeTaskStore) Delete(_ context.Context, ownerID, taskID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.find(ownerID, taskID); err != nil {
		return err
	}
	delete(s.tasks, taskID)
	return nil
}

func (s *fakeTaskStore) AddSubtask(_ context.Context, ownerID, taskID primitive.ObjectID, text string) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.find(ownerID, taskID)
	if err != nil {
		return nil, err
	}
	task.Subtasks = append(task.Subtasks, model.Subtask{
		ID:        xid.New().String(),
		Text:      text,
		Completed: false,
	})
	copied := *task
	return &copied, nil
}

func (s *fakeTaskStore) ToggleSubtask(_ context.Context, ownerID, taskID primitive.ObjectID, subtaskID string) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.find(ownerID, taskID)
	if err != nil {
		return nil, err
	}
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == subtaskID {
			task.Subtasks[i].Completed = !task.Subtasks[i].Completed
			copied := *task
			return &copied, nil
		}
	}
	return nil, common.ErrSubtaskNotFound
}

func (s *fakeTaskStore) find(ownerID, taskID primitive.ObjectID) (*model.Task, error) {
	task, ok := s.tasks[taskID]
	if !ok || task.UserID != ownerID {
		return nil, common.ErrTaskNotFound
	}
	return task, nil
}

type fakeUserStore struct {
	mu      sync.Mutex
	users   map[string]*model.User
	upserts int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (s *fakeUserStore) Upsert(_ context.Context, googleID, email, name, picture string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.upserts++
	if user, ok := s.users[googleID]; ok {
		copied := *user
		return &copied, nil
	}

	user := &model.User{
		ID:        primitive.NewObjectID(),
		GoogleID:  googleID,
		Email:     email,
		Name:      name,
		Picture:   picture,
		CreatedAt: time.Now(),
	}
	s.users[googleID] = user
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, common.ErrUserNotFound
}

func (s *fakeUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type fakeProvider struct {
	profile   *auth.Profile
	err       error
	exchanges int
}

func (p *fakeProvider) LoginURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + state
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (*auth.Profile, error) {
	p.exchanges++
	if p.err != nil {
		return nil, p.err
	}
	return p.profile, nil
}
