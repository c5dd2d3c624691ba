package services

import (
	"context"
	"fmt"

	"github.com/tasklist/web/internal/domain/entities"
	"github.com/tasklist/web/internal/infrastructure/logger"
	"github.com/tasklist/web/internal/ports"
)

// TaskService handles task list operations
type TaskService struct {
	taskRepo ports.TaskRepository
	logger   *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		logger:   logger,
	}
}

// ListTasks returns the open and closed partitions of the task table.
func (s *TaskService) ListTasks(ctx context.Context) (open, closed []entities.Task, err error) {
	open, err = s.taskRepo.ListByStatus(ctx, entities.StatusOpen)
	if err != nil {
		return nil, nil, fmt.Errorf("list open tasks: %w", err)
	}

	closed, err = s.taskRepo.ListByStatus(ctx, entities.StatusClosed)
	if err != nil {
		return nil, nil, fmt.Errorf("list closed tasks: %w", err)
	}

	return open, closed, nil
}

// CreateTask inserts a new open task. All three form fields must be
// non-empty; whitespace and duplicate entries are accepted as-is.
func (s *TaskService) CreateTask(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	if req.Name == "" || req.DueDate == "" || req.Priority == "" {
		return nil, entities.ErrMissingFields
	}

	task := &entities.Task{
		Name:     req.Name,
		DueDate:  req.DueDate,
		Priority: req.Priority,
		Status:   entities.StatusOpen,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("Task created", "task_id", task.ID, "name", task.Name)

	return task, nil
}

// CompleteTask moves a task to the closed partition. Completing an
// already-closed or nonexistent task silently succeeds.
func (s *TaskService) CompleteTask(ctx context.Context, id int64) error {
	if err := s.taskRepo.Complete(ctx, id); err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}

	s.logger.Info("Task completed", "task_id", id)

	return nil
}

// DeleteTask removes a task permanently. Deleting a nonexistent id silently
// succeeds.
func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Info("Task deleted", "task_id", id)

	return nil
}
