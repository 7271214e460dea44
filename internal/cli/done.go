package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/ironfocus/internal/store"
)

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as done",
	Long: `Mark a task as completed without running a focus session.
The id may be shortened to any unique prefix.

Examples:
  ironfocus done 3f2a9c1e`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

func runDone(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	return withStore(func(st store.Store) error {
		task, err := st.FindTask(ctx, args[0])
		if err != nil {
			return fmt.Errorf("task %s: %w", args[0], err)
		}

		err = st.CompleteTask(ctx, task.ID)
		if errors.Is(err, store.ErrAlreadyCompleted) {
			fmt.Fprintf(cmd.OutOrStdout(), "Already completed: \"%s\"\n", task.Name)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Completed: \"%s\"\n", task.Name)
		return nil
	})
}
