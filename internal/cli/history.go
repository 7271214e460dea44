package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/existflow/ironfocus/internal/history"
	"github.com/existflow/ironfocus/internal/store"
	"github.com/existflow/ironfocus/internal/tui"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the completion heat map",
	Long: `Show how many tasks were completed per day over the last months,
based on the most recently completed tasks.

Examples:
  ironfocus history
  ironfocus history --months 3
  ironfocus history --json`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var (
	historyMonths int
	historyJSON   bool
)

func init() {
	historyCmd.Flags().IntVarP(&historyMonths, "months", "m", tui.HistoryMonths, "Months to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print day counts as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyMonths < 1 {
		return fmt.Errorf("--months must be at least 1")
	}
	out := cmd.OutOrStdout()

	return withStore(func(st store.Store) error {
		tasks, err := st.ListCompleted(context.Background(), store.CompletedLimit)
		if err != nil {
			return fmt.Errorf("failed to list completed tasks: %w", err)
		}
		hm := history.Aggregate(tasks, time.Local)

		if historyJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(hm.Values())
		}

		fmt.Fprint(out, tui.RenderHeatmap(hm, time.Now(), historyMonths))
		fmt.Fprintf(out, "\n%d completed across %d days\n", hm.Total(), hm.Len())
		if values := hm.Values(); len(values) > 0 {
			best := values[0]
			for _, v := range values[1:] {
				if v.Count > best.Count {
					best = v
				}
			}
			day, _ := time.ParseInLocation(history.DateLayout, best.Date, time.Local)
			fmt.Fprintf(out, "Best day: %s (%d)\n", day.Format("Mon Jan 2"), best.Count)
		}
		return nil
	})
}
