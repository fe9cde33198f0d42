package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/daylog/internal/common"
	"github.com/balkashynov/daylog/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Daily totals and category averages",
	Long: `Report daily hours and the average daily hours per category over a
date range (default: this week up to today).

Examples:
  daylog report
  daylog report --from "2 weeks ago" --view table
  daylog report --from 2024-01-01 --to 2024-01-31 --json`,
	Args: cobra.NoArgs,
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		flags := cmd.Flags()
		from, to, err := rangeFlags(cmd, a.tracker)
		if err != nil {
			return err
		}

		view := a.cfg.Report.View
		if flags.Changed("view") {
			view, _ = flags.GetString("view")
		}
		if view != report.ViewChart && view != report.ViewTable {
			return common.Invalid("view", "%q: use chart or table", view)
		}

		summary, err := a.tracker.Summary(ctx, from, to)
		if err != nil {
			return err
		}

		asJSON, _ := flags.GetBool("json")
		if asJSON {
			return report.WriteJSON(cmd.OutOrStdout(), summary)
		}

		width, _ := flags.GetInt("width")
		out, err := report.Render(summary, view, width)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}),
}

func init() {
	reportCmd.Flags().String("from", "", "First date (default: start of this week)")
	reportCmd.Flags().String("to", "", "Last date (default: today)")
	reportCmd.Flags().String("view", "", "chart or table (default from config)")
	reportCmd.Flags().Bool("json", false, "Output JSON")
	reportCmd.Flags().Int("width", report.DefaultChartWidth, "Bar length of the largest value")
}
