// Package store defines the task store contract shared by the local SQL
// backends, the hosted service and its HTTP client.
package store

import (
	"context"
	"errors"

	"github.com/existflow/ironfocus/internal/model"
)

// CompletedLimit is how many completed tasks the views fetch for history.
const CompletedLimit = 50

var (
	// ErrNotFound is returned when no task matches an id.
	ErrNotFound = errors.New("task not found")

	// ErrEmptyName is returned when creating a task with a blank name.
	ErrEmptyName = errors.New("task name is empty")

	// ErrAlreadyCompleted is returned when completing a task that is no longer active.
	ErrAlreadyCompleted = errors.New("task already completed")

	// ErrAmbiguous is returned when an id prefix matches more than one task.
	ErrAmbiguous = errors.New("task id prefix is ambiguous")
)

// Store is the task persistence contract.
type Store interface {
	// ListActive returns active tasks, newest first.
	ListActive(ctx context.Context) ([]model.Task, error)

	// ListCompleted returns at most limit completed tasks, most recently
	// completed first.
	ListCompleted(ctx context.Context, limit int) ([]model.Task, error)

	// CreateTask inserts an active task. The store assigns id and created_at.
	CreateTask(ctx context.Context, name string) (model.Task, error)

	// CompleteTask marks an active task completed and stamps updated_at.
	CompleteTask(ctx context.Context, id string) error

	// FindTask looks a task up by full id or unique id prefix.
	FindTask(ctx context.Context, idOrPrefix string) (model.Task, error)

	Close() error
}

// Completer is the part of Store the focus timer needs.
type Completer interface {
	CompleteTask(ctx context.Context, id string) error
}
