package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/ironfocus/internal/board"
	"github.com/existflow/ironfocus/internal/logger"
)

// Run starts the full-screen UI and blocks until the user quits.
// A non-empty focusID opens a session on that task first.
func Run(b *board.Board, focusID string) error {
	m := NewModel(b)
	if focusID != "" {
		if err := b.Focus(focusID); err != nil {
			return fmt.Errorf("failed to focus task: %w", err)
		}
		m.message = "Focused: " + b.Timer().TaskName()
	}

	logger.Info("Launching TUI")
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", logger.F("error", err))
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if b.Timer().Open() {
		logger.Info("Focus session abandoned on exit", logger.F("task_id", b.Timer().TaskID()))
		b.CloseSession()
	}
	logger.Info("TUI exited normally")
	return nil
}
