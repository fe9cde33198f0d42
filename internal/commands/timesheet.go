package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/daylog/internal/parser"
	"github.com/balkashynov/daylog/internal/report"
)

var timesheetCmd = &cobra.Command{
	Use:   "timesheet",
	Short: "Weekly project timesheet",
	Long: `Show a weekly timesheet of tracked hours per project and day, Monday to
Sunday, ready to copy into a time reporting tool.

Example output:
  Project        Mon 01  Tue 02  Wed 03  ...  Total
  Build login      2.50       -    1.00         3.50
  Weekly sync      1.00    1.00       -         2.00
  Total            3.50    1.00    1.00         5.50`,
	Args: cobra.NoArgs,
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		weekOf, _ := cmd.Flags().GetString("week-of")
		day, err := parseDay(a.tracker, weekOf)
		if err != nil {
			return err
		}

		from := getWeekStart(day)
		to := from.AddDate(0, 0, 6)

		sheet, err := a.tracker.ProjectTimesheet(ctx, from, to)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return report.WriteJSON(cmd.OutOrStdout(), sheet)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Week %s → %s\n", parser.DayKey(from), parser.DayKey(to))
		fmt.Fprintln(out, report.RenderTimesheet(*sheet))
		return nil
	}),
}

func init() {
	timesheetCmd.Flags().String("week-of", "today", "Any date in the week to show")
	timesheetCmd.Flags().Bool("json", false, "Output JSON")
}

// getWeekStart returns the Monday of the week containing day
func getWeekStart(day time.Time) time.Time {
	weekday := int(day.Weekday())
	if weekday == 0 { // Sunday
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}
