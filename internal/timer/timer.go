// Package timer implements the single-task focus countdown.
//
// A Timer owns at most one session. The countdown only moves on Tick, so
// remaining seconds are the whole truth: pausing and resuming cannot drift.
package timer

import (
	"context"
	"errors"
	"fmt"

	"github.com/existflow/ironfocus/internal/logger"
	"github.com/existflow/ironfocus/internal/store"
)

// SessionSeconds is the length of one focus session (25 minutes)
const SessionSeconds = 25 * 60

// State of the focus timer
type State int

const (
	Idle State = iota
	Running
	Paused
	Completed
)

// String returns the display name of the state
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

var (
	// ErrSessionOpen is returned when focusing while another session is open.
	ErrSessionOpen = errors.New("a focus session is already open")

	// ErrNoSession is returned by operations that need a focused task.
	ErrNoSession = errors.New("no focus session")

	// ErrExpired is returned when starting a session with no time left.
	ErrExpired = errors.New("focus session has no time left")
)

// Timer is the focus session state machine
type Timer struct {
	completer  store.Completer
	onComplete func()

	state     State
	taskID    string
	taskName  string
	remaining int
}

// New creates an idle timer. onComplete runs once after every successful
// completion, before the session is torn down; it may be nil.
func New(completer store.Completer, onComplete func()) *Timer {
	return &Timer{
		completer:  completer,
		onComplete: onComplete,
	}
}

// Focus opens a session for a task. The session starts paused with a full clock.
func (t *Timer) Focus(taskID, taskName string) error {
	if t.state != Idle {
		return ErrSessionOpen
	}
	if taskID == "" {
		return ErrNoSession
	}

	t.taskID = taskID
	t.taskName = taskName
	t.remaining = SessionSeconds
	t.state = Paused

	logger.Debug("Focus session opened", logger.F("task_id", taskID))
	return nil
}

// Start begins or resumes the countdown
func (t *Timer) Start() error {
	switch t.state {
	case Running:
		return nil
	case Paused:
		if t.remaining == 0 {
			return ErrExpired
		}
		t.state = Running
		return nil
	default:
		return ErrNoSession
	}
}

// Pause freezes the countdown
func (t *Timer) Pause() error {
	switch t.state {
	case Running:
		t.state = Paused
		return nil
	case Paused:
		return nil
	default:
		return ErrNoSession
	}
}

// Toggle starts a paused session or pauses a running one
func (t *Timer) Toggle() error {
	if t.state == Running {
		return t.Pause()
	}
	return t.Start()
}

// Tick counts down one second. It reports whether the clock moved.
// Reaching zero pauses the session; it never completes the task.
func (t *Timer) Tick() bool {
	if t.state != Running {
		return false
	}

	t.remaining--
	if t.remaining <= 0 {
		t.remaining = 0
		t.state = Paused
		logger.Info("Focus session finished countdown", logger.F("task_id", t.taskID))
	}
	return true
}

// Complete marks the focused task done in the store. On failure the session
// is left exactly as it was so the caller can retry.
func (t *Timer) Complete(ctx context.Context) error {
	if t.state == Idle || t.state == Completed {
		return ErrNoSession
	}

	err := t.completer.CompleteTask(ctx, t.taskID)
	if err != nil && !errors.Is(err, store.ErrAlreadyCompleted) {
		logger.Error("Failed to complete task",
			logger.F("task_id", t.taskID),
			logger.F("error", err))
		return fmt.Errorf("failed to complete task: %w", err)
	}
	if err != nil {
		logger.Warn("Task was already completed elsewhere", logger.F("task_id", t.taskID))
	}

	t.state = Completed
	logger.Info("Task completed",
		logger.F("task_id", t.taskID),
		logger.F("elapsed", t.Elapsed()))

	if t.onComplete != nil {
		t.onComplete()
	}
	t.reset()
	return nil
}

// Close abandons the session without touching the store
func (t *Timer) Close() {
	if t.state != Idle {
		logger.Debug("Focus session closed", logger.F("task_id", t.taskID))
	}
	t.reset()
}

func (t *Timer) reset() {
	t.state = Idle
	t.taskID = ""
	t.taskName = ""
	t.remaining = 0
}

// State returns the current state
func (t *Timer) State() State { return t.state }

// Open reports whether a session is bound to a task
func (t *Timer) Open() bool { return t.state != Idle }

// TaskID returns the focused task id, empty when idle
func (t *Timer) TaskID() string { return t.taskID }

// TaskName returns the focused task name, empty when idle
func (t *Timer) TaskName() string { return t.taskName }

// Remaining returns the seconds left in the session
func (t *Timer) Remaining() int { return t.remaining }

// Elapsed returns the seconds counted down so far
func (t *Timer) Elapsed() int {
	if t.state == Idle {
		return 0
	}
	return SessionSeconds - t.remaining
}

// Clock renders the remaining time as MM:SS
func (t *Timer) Clock() string {
	return FormatClock(t.remaining)
}

// FormatClock renders a number of seconds as MM:SS
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
