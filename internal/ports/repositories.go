package ports

import (
	"context"

	"github.com/tasklist/web/internal/domain/entities"
)

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	ListByStatus(ctx context.Context, status int) ([]entities.Task, error)
	Complete(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
