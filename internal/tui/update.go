package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/ironfocus/internal/store"
	"github.com/existflow/ironfocus/internal/timer"
)

// tickMsg is sent every second to drive the focus timer
type tickMsg time.Time

// Init initializes the model with a tick command
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.handleTick()
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeAddTask:
			return m.updateInput(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}

		return m.handleNormalKeys(msg)
	}

	return m, nil
}

func (m *Model) handleTick() {
	t := m.board.Timer()
	if m.board.Tick() && t.Remaining() == 0 {
		m.message = fmt.Sprintf("Time's up for %q. Press x to complete.", t.TaskName())
	}
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.History):
		if m.pane == PaneTasks {
			m.pane = PaneHistory
		} else {
			m.pane = PaneTasks
		}

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.board.Active())-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Add):
		return m.startAddTask()

	case key.Matches(msg, keys.Enter):
		m.handleFocus()

	case key.Matches(msg, keys.Toggle):
		m.handleToggle()

	case key.Matches(msg, keys.Done):
		m.handleComplete()

	case key.Matches(msg, keys.Close), key.Matches(msg, keys.Escape):
		m.handleClose()

	case key.Matches(msg, keys.Refresh):
		m.handleRefresh()

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
	}

	return m, nil
}

func (m Model) startAddTask() (tea.Model, tea.Cmd) {
	m.mode = ModeAddTask
	m.input.Focus()
	return m, textinput.Blink
}

func (m *Model) handleFocus() {
	active := m.board.Active()
	if len(active) == 0 {
		m.message = "No tasks. Press 'a' to add one."
		return
	}
	m.clampCursor()
	task := active[m.cursor]

	err := m.board.Focus(task.ID)
	switch {
	case errors.Is(err, timer.ErrSessionOpen):
		m.message = "Finish or close the current session first (x / c)"
	case err != nil:
		m.message = fmt.Sprintf("Error focusing task: %v", err)
	default:
		m.message = fmt.Sprintf("Focused: %s. Press space to start.", task.Name)
	}
}

func (m *Model) handleToggle() {
	err := m.board.Toggle()
	switch {
	case errors.Is(err, timer.ErrNoSession):
		m.message = "No task focused. Press enter on a task."
	case errors.Is(err, timer.ErrExpired):
		m.message = "Session is over. Press x to complete or c to close."
	case err != nil:
		m.message = fmt.Sprintf("Error: %v", err)
	default:
		m.message = ""
	}
}

func (m *Model) handleComplete() {
	name := m.board.Timer().TaskName()
	err := m.board.Complete(context.Background())
	switch {
	case errors.Is(err, timer.ErrNoSession):
		m.message = "No task focused. Press enter on a task."
	case err != nil:
		m.message = fmt.Sprintf("Error completing task: %v", err)
	case m.board.Err() != nil:
		// Saved, but the lists could not be refetched.
		m.message = fmt.Sprintf("Completed %s, refresh failed: %v", name, m.board.Err())
		m.clampCursor()
	default:
		m.message = fmt.Sprintf("Completed: %s", name)
		m.clampCursor()
	}
}

func (m *Model) handleClose() {
	if !m.board.Timer().Open() {
		return
	}
	m.board.CloseSession()
	m.message = "Session closed"
}

func (m *Model) handleRefresh() {
	if err := m.board.Refresh(context.Background()); err != nil {
		m.message = fmt.Sprintf("Error refreshing: %v", err)
		return
	}
	m.clampCursor()
	m.message = "Refreshed"
}

// updateInput handles the add-task modal. Failed inserts keep the text.
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil

	case msg.Type == tea.KeyEnter:
		value := m.input.Value()
		task, err := m.board.AddTask(context.Background(), value)
		switch {
		case errors.Is(err, store.ErrEmptyName):
			m.mode = ModeNormal
			m.input.Blur()
			m.input.SetValue("")
			return m, nil
		case err != nil && task.ID == "":
			m.message = fmt.Sprintf("Error adding task: %v", err)
			return m, nil
		case err != nil:
			// Saved, but the lists could not be refetched.
			m.message = fmt.Sprintf("Added %s, refresh failed: %v", task.Name, err)
		default:
			m.message = fmt.Sprintf("Added: %s", task.Name)
		}

		m.input.SetValue("")
		m.input.Blur()
		m.mode = ModeNormal
		m.cursor = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
