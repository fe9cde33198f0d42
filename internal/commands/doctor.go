package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Repair stored totals and check the data",
	Long: `Recompute every stored date and duration from its timestamps, then
report rows that break the tracking rules, such as two running entries or an
entry outside its workday. Use --check to report without repairing.`,
	Args: cobra.NoArgs,
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		out := cmd.OutOrStdout()

		checkOnly, _ := cmd.Flags().GetBool("check")
		if !checkOnly {
			fixed, err := a.tracker.Recalculate(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "🔧 Recalculated totals, %d rows corrected\n", fixed)
		}

		problems, err := a.tracker.Diagnose(ctx)
		if err != nil {
			return err
		}
		if len(problems) == 0 {
			fmt.Fprintln(out, "✅ No problems found")
			return nil
		}

		fmt.Fprintf(out, "⚠️  %d problems found:\n", len(problems))
		for _, p := range problems {
			fmt.Fprintf(out, "  %s\n", p)
		}
		return nil
	}),
}

func init() {
	doctorCmd.Flags().Bool("check", false, "Only report problems")
}
