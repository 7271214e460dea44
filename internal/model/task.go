package model

import (
	"strings"
	"time"
)

// Task represents a single focus item
type Task struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	IsActive  bool       `json:"is_active"`
}

// NewTask creates an active task created now
func NewTask(id, name string) Task {
	return Task{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
		IsActive:  true,
	}
}

// CompletedAt returns the time the task counts as completed.
// Older records have no updated_at and fall back to created_at.
func (t *Task) CompletedAt() time.Time {
	if t.UpdatedAt != nil {
		return *t.UpdatedAt
	}
	return t.CreatedAt
}

// ShortID returns the first group of the task UUID
func (t *Task) ShortID() string {
	if i := strings.IndexByte(t.ID, '-'); i > 0 {
		return t.ID[:i]
	}
	return t.ID
}
