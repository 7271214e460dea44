package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/ironfocus/internal/store"
)

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new task",
	Long: `Add a new active task.

Examples:
  ironfocus add "Write report"
  ironfocus add Review the onboarding doc`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")

	return withStore(func(st store.Store) error {
		task, err := st.CreateTask(context.Background(), name)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s: \"%s\"\n", task.ShortID(), task.Name)
		return nil
	})
}
