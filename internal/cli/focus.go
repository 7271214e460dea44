package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/ironfocus/internal/board"
	"github.com/existflow/ironfocus/internal/store"
	"github.com/existflow/ironfocus/internal/tui"
)

var focusCmd = &cobra.Command{
	Use:   "focus [task-id]",
	Short: "Open the TUI focused on a task",
	Long: `Launch the TUI with a focus session already open on the task.
Press space to start the clock.

Examples:
  ironfocus focus 3f2a9c1e`,
	Args: cobra.ExactArgs(1),
	RunE: runFocus,
}

func runFocus(cmd *cobra.Command, args []string) error {
	return withStore(func(st store.Store) error {
		task, err := st.FindTask(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("task %s: %w", args[0], err)
		}
		if !task.IsActive {
			return fmt.Errorf("task %s: %w", task.ShortID(), store.ErrAlreadyCompleted)
		}

		return tui.Run(board.New(st), task.ID)
	})
}
