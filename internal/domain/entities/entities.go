package entities

import "errors"

// Common errors
var (
	ErrMissingFields = errors.New("all fields are required")
	ErrInvalidTaskID = errors.New("invalid task id")
)

// Task status flags as persisted in the tasks table. A task is created open
// and transitions once, irreversibly, to closed. There is no reopen.
const (
	StatusClosed = 0
	StatusOpen   = 1
)

// Task is the single persisted entity. IDs are assigned by the store and are
// never reused or mutated. DueDate is a free-form date string stored as
// entered, not parsed. Priority is integer-valued text; the column has
// integer affinity but the value is carried verbatim from the form.
type Task struct {
	ID       int64  `db:"task_id"`
	Name     string `db:"name"`
	DueDate  string `db:"due_date"`
	Priority string `db:"priority"`
	Status   int    `db:"status"`
}

// IsOpen reports whether the task is in the open partition.
func (t Task) IsOpen() bool {
	return t.Status == StatusOpen
}
