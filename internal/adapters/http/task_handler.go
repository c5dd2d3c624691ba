package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tasklist/web/internal/domain/entities"
	"github.com/tasklist/web/internal/infrastructure/logger"
	"github.com/tasklist/web/internal/ports"
)

const (
	FlashFieldsRequired = "All fields are required .Please try again"
	FlashTaskCreated    = "New entry was successfully posted thanks"
	FlashTaskCompleted  = "The task was marked as complete"
	FlashTaskDeleted    = "The task was deleted"
	FlashStoreError     = "Something went wrong. Please try again"
)

// TaskHandler handles the task listing and its mutations
type TaskHandler struct {
	taskService ports.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

type tasksView struct {
	Open    []entities.Task
	Closed  []entities.Task
	Flashes []string
	Form    ports.CreateTaskRequest
}

// List renders both task partitions and an empty creation form.
func (h *TaskHandler) List(c echo.Context) error {
	open, closed, err := h.taskService.ListTasks(c.Request().Context())
	if err != nil {
		h.logger.Error("List tasks failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load tasks")
	}

	flashes, err := ConsumeFlashes(c)
	if err != nil {
		h.logger.Error("Failed to save session", "error", err)
	}

	return c.Render(http.StatusOK, "tasks.html", tasksView{
		Open:    open,
		Closed:  closed,
		Flashes: flashes,
	})
}

// Create inserts a new open task from the submitted form. Validation failure
// leaves the store untouched; resubmission of the same form creates a
// duplicate task.
func (h *TaskHandler) Create(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return h.flashAndRedirect(c, FlashFieldsRequired)
	}

	if _, err := h.taskService.CreateTask(c.Request().Context(), req); err != nil {
		if errors.Is(err, entities.ErrMissingFields) {
			return h.flashAndRedirect(c, FlashFieldsRequired)
		}
		h.logger.Error("Create task failed", "error", err)
		return h.flashAndRedirect(c, FlashStoreError)
	}

	return h.flashAndRedirect(c, FlashTaskCreated)
}

// Complete marks the addressed task closed. Unknown or already-closed ids are
// silent no-ops beyond the flash.
func (h *TaskHandler) Complete(c echo.Context) error {
	id, err := taskIDParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	if err := h.taskService.CompleteTask(c.Request().Context(), id); err != nil {
		h.logger.Error("Complete task failed", "error", err, "task_id", id)
		return h.flashAndRedirect(c, FlashStoreError)
	}

	return h.flashAndRedirect(c, FlashTaskCompleted)
}

// Delete removes the addressed task. Unknown ids are silent no-ops beyond the
// flash.
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := taskIDParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), id); err != nil {
		h.logger.Error("Delete task failed", "error", err, "task_id", id)
		return h.flashAndRedirect(c, FlashStoreError)
	}

	return h.flashAndRedirect(c, FlashTaskDeleted)
}

func (h *TaskHandler) flashAndRedirect(c echo.Context, message string) error {
	if err := AddFlash(c, message); err != nil {
		h.logger.Error("Failed to save session", "error", err)
	}
	return c.Redirect(http.StatusFound, "/tasks")
}

// taskIDParam parses the :id path segment. The route layer matches any
// segment, so the integer-shape constraint lives here; a non-numeric id is a
// 404, never part of a statement.
func taskIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 0 {
		return 0, entities.ErrInvalidTaskID
	}
	return id, nil
}
