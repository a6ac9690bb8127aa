package common

import "errors"

// Not-found sentinels shared by the stores and the HTTP layer. A task that
// exists but belongs to another user is reported exactly like a missing one.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrSubtaskNotFound = errors.New("subtask not found")
)
