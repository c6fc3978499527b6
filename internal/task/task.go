// Package task defines the task aggregate and the narrow repository
// contract the coordinator consumes. Task storage itself lives behind the
// Repository interface; the SQLite implementation is in internal/store.
package task

import (
	"errors"
	"fmt"
	"time"
)

// Task is a user-defined unit of work that completed pomodoro sessions can
// be credited against.
//
// CompletedPomodoros is monotonically non-decreasing: it is incremented by
// exactly one per successfully associated completed work session and never
// decremented.
type Task struct {
	ID                 string
	Title              string
	Completed          bool
	CompletedPomodoros int
	CreatedAt          time.Time
	CompletedAt        *time.Time
}

// Repository is the storage contract the coordinator depends on.
type Repository interface {
	// GetByID returns the task, or (nil, nil) when no task has that id.
	GetByID(id string) (*Task, error)

	// AssociatePomodoro credits one completed pomodoro to the task.
	// Fails with NotFoundError if the task is missing, or with
	// CompletedTaskError if the task is already completed.
	AssociatePomodoro(id string) error
}

// NotFoundError reports a task id that resolves to nothing.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %q not found", e.ID)
}

// CompletedTaskError reports an operation against a task that is already
// completed.
type CompletedTaskError struct {
	ID string
}

func (e *CompletedTaskError) Error() string {
	return fmt.Sprintf("task %q is already completed", e.ID)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsCompletedTask reports whether err is (or wraps) a CompletedTaskError.
func IsCompletedTask(err error) bool {
	var ct *CompletedTaskError
	return errors.As(err, &ct)
}
