package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/xid"
	"github.com/yurys/todo-list-backend/common"
	"github.com/yurys/todo-list-backend/logger"
	"github.com/yurys/todo-list-backend/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type TasksHandler struct {
	tasks TaskStore
}

func NewTasksHandler(tasks TaskStore) *TasksHandler {
	return &TasksHandler{tasks: tasks}
}

type createTaskRequest struct {
	Text     string           `json:"text" binding:"required"`
	Deadline *time.Time       `json:"deadline"`
	Subtasks []subtaskRequest `json:"subtasks" binding:"dive"`
}

type subtaskRequest struct {
	Text string `json:"text" binding:"required"`
}

func (handler *TasksHandler) GetAllTasksHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	tasks, err := handler.tasks.ListByOwner(ctx, CurrentUser(c).ID)
	if err != nil {
		handler.storeError(c, "Failed to fetch tasks", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// NewTaskHandler creates a task owned by the caller. The body is validated
// against an explicit schema and unknown fields are rejected rather than
// persisted.
func (handler *TasksHandler) NewTaskHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var req createTaskRequest
	if err := bindStrict(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := model.Task{
		UserID:   CurrentUser(c).ID,
		Text:     req.Text,
		Deadline: req.Deadline,
		Subtasks: make([]model.Subtask, 0, len(req.Subtasks)),
	}
	for _, subtask := range req.Subtasks {
		task.Subtasks = append(task.Subtasks, model.Subtask{
			ID:   xid.New().String(),
			Text: subtask.Text,
		})
	}

	if err := handler.tasks.Create(ctx, &task); err != nil {
		handler.storeError(c, "Failed to create task", err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (handler *TasksHandler) ToggleTaskHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := handler.tasks.Toggle(ctx, CurrentUser(c).ID, taskID)
	if errors.Is(err, common.ErrTaskNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		handler.storeError(c, "Failed to update task", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (handler *TasksHandler) DeleteTaskHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	err := handler.tasks.Delete(ctx, CurrentUser(c).ID, taskID)
	if errors.Is(err, common.ErrTaskNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		handler.storeError(c, "Failed to delete task", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

func (handler *TasksHandler) AddSubtaskHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req subtaskRequest
	if err := bindStrict(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := handler.tasks.AddSubtask(ctx, CurrentUser(c).ID, taskID, req.Text)
	if errors.Is(err, common.ErrTaskNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		handler.storeError(c, "Failed to add subtask", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (handler *TasksHandler) ToggleSubtaskHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := handler.tasks.ToggleSubtask(ctx, CurrentUser(c).ID, taskID, c.Param("subtaskId"))
	switch {
	case errors.Is(err, common.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, common.ErrSubtaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Subtask not found"})
	case err != nil:
		handler.storeError(c, "Failed to update subtask", err)
	default:
		c.JSON(http.StatusOK, task)
	}
}

// taskIDParam parses the :taskId path segment. A malformed id cannot match
// any stored task, so it is reported as not found.
func taskIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	taskID, err := primitive.ObjectIDFromHex(c.Param("taskId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return primitive.NilObjectID, false
	}
	return taskID, true
}

func (handler *TasksHandler) storeError(c *gin.Context, message string, err error) {
	logger.FromCtx(c.Request.Context()).Error(message, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

// bindStrict decodes a JSON body rejecting unknown fields, then runs the
// usual binding validation.
func bindStrict(c *gin.Context, obj any) error {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(obj); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(obj)
}
