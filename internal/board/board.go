// Package board holds the state behind the focus views: the active and
// completed task lists and the single focus session.
package board

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/existflow/ironfocus/internal/history"
	"github.com/existflow/ironfocus/internal/logger"
	"github.com/existflow/ironfocus/internal/model"
	"github.com/existflow/ironfocus/internal/store"
	"github.com/existflow/ironfocus/internal/timer"
)

// Board is the view-model for one mounted view. It is not safe for
// concurrent use; the TUI drives it from a single update loop.
type Board struct {
	store store.Store
	timer *timer.Timer
	loc   *time.Location

	active    []model.Task
	completed []model.Task
	lastErr   error
	loaded    bool
}

// Option configures a Board
type Option func(*Board)

// WithLocation sets the location heat map days are computed in
func WithLocation(loc *time.Location) Option {
	return func(b *Board) {
		b.loc = loc
	}
}

// New creates a board over st. Call Refresh to load the lists.
func New(st store.Store, opts ...Option) *Board {
	b := &Board{
		store: st,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.timer = timer.New(st, b.afterComplete)
	return b
}

// afterComplete refetches once the timer has completed its task. A failed
// refetch is left in Err for the caller; the completion itself stands.
func (b *Board) afterComplete() {
	if err := b.Refresh(context.Background()); err != nil {
		logger.Warn("Lists are stale after completion", logger.F("error", err))
	}
}

// Refresh refetches both lists. On failure the previous lists are kept.
func (b *Board) Refresh(ctx context.Context) error {
	active, err := b.store.ListActive(ctx)
	if err != nil {
		return b.fail("Error fetching active tasks", fmt.Errorf("failed to fetch active tasks: %w", err))
	}

	completed, err := b.store.ListCompleted(ctx, store.CompletedLimit)
	if err != nil {
		return b.fail("Error fetching completed tasks", fmt.Errorf("failed to fetch completed tasks: %w", err))
	}

	b.active = active
	b.completed = completed
	b.loaded = true
	b.lastErr = nil

	logger.Debug("Tasks refreshed",
		logger.F("active", len(active)),
		logger.F("completed", len(completed)))
	return nil
}

// AddTask creates a task and refetches. Blank names are ignored with
// store.ErrEmptyName; the caller keeps its input on any error.
func (b *Board) AddTask(ctx context.Context, name string) (model.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Task{}, store.ErrEmptyName
	}

	task, err := b.store.CreateTask(ctx, name)
	if err != nil {
		return model.Task{}, b.fail("Error adding task", fmt.Errorf("failed to add task: %w", err))
	}
	logger.Info("Task added", logger.F("task_id", task.ID))

	if err := b.Refresh(ctx); err != nil {
		return task, err
	}
	return task, nil
}

// Focus opens the timer on an active task. Only one session may be open.
func (b *Board) Focus(taskID string) error {
	if b.timer.Open() {
		return timer.ErrSessionOpen
	}

	task, ok := b.findActive(taskID)
	if !ok {
		return fmt.Errorf("task %s: %w", taskID, store.ErrNotFound)
	}
	return b.timer.Focus(task.ID, task.Name)
}

// Toggle starts or pauses the open session
func (b *Board) Toggle() error {
	return b.timer.Toggle()
}

// Tick advances the open session by one second
func (b *Board) Tick() bool {
	return b.timer.Tick()
}

// Complete marks the focused task done. The lists are refetched on success;
// on failure the session stays open for a retry.
func (b *Board) Complete(ctx context.Context) error {
	if err := b.timer.Complete(ctx); err != nil {
		b.lastErr = err
		return err
	}
	return nil
}

// CloseSession abandons the open session without completing the task
func (b *Board) CloseSession() {
	b.timer.Close()
}

// Timer exposes the session for rendering
func (b *Board) Timer() *timer.Timer {
	return b.timer
}

// Active returns the active tasks, newest first
func (b *Board) Active() []model.Task {
	return b.active
}

// Completed returns the recently completed tasks, latest first
func (b *Board) Completed() []model.Task {
	return b.completed
}

// Heatmap aggregates the completed list into day buckets
func (b *Board) Heatmap() history.Heatmap {
	return history.Aggregate(b.completed, b.loc)
}

// Location returns the location used for calendar days
func (b *Board) Location() *time.Location {
	return b.loc
}

// Loaded reports whether a refresh has ever succeeded
func (b *Board) Loaded() bool {
	return b.loaded
}

// Err returns the last store failure, nil after a successful refresh
func (b *Board) Err() error {
	return b.lastErr
}

func (b *Board) findActive(taskID string) (model.Task, bool) {
	for _, t := range b.active {
		if t.ID == taskID {
			return t, true
		}
	}
	return model.Task{}, false
}

func (b *Board) fail(msg string, err error) error {
	logger.Error(msg, logger.F("error", err))
	b.lastErr = err
	return err
}
