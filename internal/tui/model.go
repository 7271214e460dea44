package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/existflow/ironfocus/internal/board"
	"github.com/existflow/ironfocus/internal/logger"
)

// Pane represents which pane is shown
type Pane int

const (
	PaneTasks Pane = iota
	PaneHistory
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeHelp
)

// HistoryMonths is how far back the heat map reaches
const HistoryMonths = 6

// Model is the main TUI model
type Model struct {
	board *board.Board

	// UI state
	width  int
	height int
	pane   Pane
	mode   Mode
	cursor int

	// Input
	input textinput.Model

	now     func() time.Time
	message string
}

// NewModel creates a new TUI model over b and loads the task lists
func NewModel(b *board.Board) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.Placeholder = "What are you working on?"
	ti.CharLimit = 256
	ti.Width = 50

	m := Model{
		board: b,
		pane:  PaneTasks,
		mode:  ModeNormal,
		input: ti,
		now:   time.Now,
	}

	if err := b.Refresh(context.Background()); err != nil {
		m.message = "Could not load tasks: " + err.Error()
	}

	logger.Debug("TUI model initialized",
		logger.F("active", len(b.Active())),
		logger.F("completed", len(b.Completed())))
	return m
}

// Board returns the view-model behind the UI
func (m Model) Board() *board.Board {
	return m.board
}

func (m *Model) clampCursor() {
	n := len(m.board.Active())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
