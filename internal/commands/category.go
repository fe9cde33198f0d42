package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Manage entry categories",
	Long: `Categories classify entries. Deactivated categories are hidden from new
entries but keep their history.

Examples:
  daylog category ls --all
  daylog category add Research
  daylog category rename Marketing Growth
  daylog category deactivate Growth`,
}

var categoryLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List categories",
	Args:    cobra.NoArgs,
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		all, _ := cmd.Flags().GetBool("all")

		categories, err := a.tracker.AllCategories(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		shown := 0
		for _, c := range categories {
			switch {
			case c.Active:
				fmt.Fprintf(out, "  %s\n", c.Name)
			case all:
				fmt.Fprintf(out, "  %s (inactive)\n", c.Name)
			default:
				continue
			}
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(out, "No categories")
		}
		return nil
	}),
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		category, err := a.tracker.CreateCategory(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Created category %q\n", category.Name)
		return nil
	}),
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a category and every entry using it",
	Args:  cobra.ExactArgs(2),
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		category, err := a.tracker.RenameCategory(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✏️  Renamed %q to %q\n", args[0], category.Name)
		return nil
	}),
}

var categoryActivateCmd = &cobra.Command{
	Use:   "activate <name>",
	Short: "Offer a category for new entries again",
	Args:  cobra.ExactArgs(1),
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		if err := a.tracker.ActivateCategory(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Category %q is active\n", args[0])
		return nil
	}),
}

var categoryDeactivateCmd = &cobra.Command{
	Use:   "deactivate <name>",
	Short: "Hide a category from new entries",
	Args:  cobra.ExactArgs(1),
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		if err := a.tracker.DeactivateCategory(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Category %q is inactive\n", args[0])
		return nil
	}),
}

func init() {
	categoryLsCmd.Flags().Bool("all", false, "Include inactive categories")

	categoryCmd.AddCommand(categoryLsCmd, categoryAddCmd, categoryRenameCmd, categoryActivateCmd, categoryDeactivateCmd)
}
