package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/ironfocus/internal/model"
	"github.com/existflow/ironfocus/internal/store"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List active tasks, newest first, or recently completed ones.

Examples:
  ironfocus list
  ironfocus list --done --limit 10`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listDone  bool
	listLimit int
)

func init() {
	listCmd.Flags().BoolVar(&listDone, "done", false, "Show completed tasks instead")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", store.CompletedLimit, "Maximum completed tasks to show")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	return withStore(func(st store.Store) error {
		if listDone {
			tasks, err := st.ListCompleted(ctx, listLimit)
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No completed tasks yet.")
				return nil
			}
			printTasks(out, "Completed", tasks)
			return nil
		}

		tasks, err := st.ListActive(ctx)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found. Add one with: ironfocus add \"Your task\"")
			return nil
		}
		printTasks(out, "Active", tasks)
		return nil
	})
}

func printTasks(out io.Writer, title string, tasks []model.Task) {
	fmt.Fprintf(out, "\n%s (%d)\n", title, len(tasks))
	fmt.Fprintln(out, strings.Repeat("─", 60))

	for _, t := range tasks {
		printTask(out, t)
	}
	fmt.Fprintln(out)
}

func printTask(out io.Writer, t model.Task) {
	icon := "[ ]"
	when := t.CreatedAt.Local().Format("Jan 2 15:04")
	if !t.IsActive {
		icon = "[x]"
		when = t.CompletedAt().Local().Format("Jan 2 15:04")
	}

	// Truncate content if too long
	name := t.Name
	if r := []rune(name); len(r) > 40 {
		name = string(r[:37]) + "..."
	}

	fmt.Fprintf(out, "  %s  %-8s  %-40s  %s\n", icon, t.ShortID(), name, when)
}
