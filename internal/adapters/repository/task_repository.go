package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tasklist/web/internal/domain/entities"
	"github.com/tasklist/web/internal/ports"
)

const defaultQueryTimeout = 5 * time.Second

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewTaskRepository creates a new task repository. A zero timeout falls back
// to the default so a stuck store never blocks a handler indefinitely.
func NewTaskRepository(db *sqlx.DB, queryTimeout time.Duration) ports.TaskRepository {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &TaskRepositoryImpl{db: db, timeout: queryTimeout}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	query := `
		INSERT INTO tasks (name, due_date, priority, status)
		VALUES (?, ?, ?, ?)`

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	task.Status = entities.StatusOpen

	result, err := r.db.ExecContext(ctx, query,
		task.Name, task.DueDate, task.Priority, task.Status)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get inserted task id: %w", err)
	}
	task.ID = id

	return nil
}

// ListByStatus returns one partition of the task table. Ordering is explicit
// by task_id so listings are deterministic across deletes.
func (r *TaskRepositoryImpl) ListByStatus(ctx context.Context, status int) ([]entities.Task, error) {
	query := `
		SELECT task_id, name, due_date, priority, status
		FROM tasks
		WHERE status = ?
		ORDER BY task_id`

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tasks := []entities.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, status); err != nil {
		return nil, fmt.Errorf("list tasks by status: %w", err)
	}

	return tasks, nil
}

// Complete marks a task closed. Zero rows affected is not an error: completing
// an already-closed or nonexistent task is a no-op.
func (r *TaskRepositoryImpl) Complete(ctx context.Context, id int64) error {
	query := `UPDATE tasks SET status = ? WHERE task_id = ?`

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, entities.StatusClosed, id); err != nil {
		return fmt.Errorf("complete task: %w", err)
	}

	return nil
}

// Delete removes a task permanently. Deleting a nonexistent id is a no-op.
func (r *TaskRepositoryImpl) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM tasks WHERE task_id = ?`

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM tasks`

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var count int64
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}

	return count, nil
}
