package ports

import (
	"context"

	"github.com/tasklist/web/internal/domain/entities"
)

// TaskService interface for task list operations
type TaskService interface {
	ListTasks(ctx context.Context) (open, closed []entities.Task, err error)
	CreateTask(ctx context.Context, req CreateTaskRequest) (*entities.Task, error)
	CompleteTask(ctx context.Context, id int64) error
	DeleteTask(ctx context.Context, id int64) error
}

// AuthService interface for credential verification
type AuthService interface {
	Verify(username, password string) bool
}

// CreateTaskRequest carries the task creation form. Priority stays a string
// here: it is required to be non-empty but is not pre-validated as numeric;
// a non-numeric value fails at the store layer.
type CreateTaskRequest struct {
	Name     string `form:"name" validate:"required"`
	DueDate  string `form:"due_date" validate:"required"`
	Priority string `form:"priority" validate:"required"`
}
