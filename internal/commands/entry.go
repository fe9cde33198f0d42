package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/daylog/internal/common"
	"github.com/balkashynov/daylog/internal/db"
	"github.com/balkashynov/daylog/internal/models"
	"github.com/balkashynov/daylog/internal/parser"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Add, edit and list project entries",
	Long: `Entries are the project intervals inside a workday.

Examples:
  daylog entry add "Build login #Programming" --start 09:00 --end 11:30
  daylog entry add "Weekly sync" -c Meetings --date yesterday --start 14:00 --end 15:00
  daylog entry edit 7 --end 12:15
  daylog entry ls --date yesterday`,
}

var entryAddCmd = &cobra.Command{
	Use:   "add <project> [#Category]",
	Short: "Record a finished entry in an existing workday",
	Args:  cobra.MinimumNArgs(1),
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		parsed := parser.ParseEntryTitle(strings.Join(args, " "))
		if len(parsed.Errors) > 0 {
			return common.Invalid("entry", "%s", strings.Join(parsed.Errors, "; "))
		}

		flags := cmd.Flags()
		category, _ := flags.GetString("category")
		if parsed.Category != "" {
			category = parsed.Category
		}
		dateFlag, _ := flags.GetString("date")
		startFlag, _ := flags.GetString("start")
		endFlag, _ := flags.GetString("end")
		if startFlag == "" || endFlag == "" {
			return common.Invalid("time", "--start and --end are required")
		}

		day, err := parseDay(a.tracker, dateFlag)
		if err != nil {
			return err
		}
		session, err := a.tracker.SessionOn(ctx, day)
		if err != nil {
			return err
		}

		start, err := parser.ParseTimeOn(startFlag, day, a.tracker.Location())
		if err != nil {
			return err
		}
		end, err := clockAfter(a.tracker, endFlag, start)
		if err != nil {
			return err
		}

		entry, err := a.tracker.ManualEntry(ctx, session.ID, parsed.Project, category, start, end)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Added entry #%d: %s\n", entry.ID, describeEntry(*entry))
		return nil
	}),
}

var entryEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change an entry's times, project or category",
	Long: `Change an entry. Unset flags keep their current value. --end open
resumes the entry if its workday is still running.`,
	Args: cobra.ExactArgs(1),
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID("entry", args[0])
		if err != nil {
			return err
		}
		entry, err := a.tracker.GetEntry(ctx, id)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		edit := db.EntryEdit{Start: entry.StartedAt, End: entry.EndedAt}
		if flags.Changed("start") {
			value, _ := flags.GetString("start")
			if edit.Start, err = parser.ParseTimeOn(value, entry.StartedAt, a.tracker.Location()); err != nil {
				return err
			}
		}
		if flags.Changed("end") {
			value, _ := flags.GetString("end")
			if edit.End, err = parseEnd(a.tracker, value, edit.Start); err != nil {
				return err
			}
		}
		if flags.Changed("project") {
			project, _ := flags.GetString("project")
			edit.Project = &project
		}
		if flags.Changed("category") {
			category, _ := flags.GetString("category")
			edit.Category = &category
		}

		entry, err = a.tracker.EditEntry(ctx, id, edit)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✏️  Updated entry #%d: %s\n", entry.ID, describeEntry(*entry))
		return nil
	}),
}

var entryRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete an entry",
	Args:    cobra.ExactArgs(1),
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID("entry", args[0])
		if err != nil {
			return err
		}
		if err := a.tracker.DeleteEntry(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted entry #%d\n", id)
		return nil
	}),
}

var entryLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List entries of a day (default: today) or a workday",
	Args:    cobra.NoArgs,
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		flags := cmd.Flags()

		var (
			entries []models.Entry
			err     error
		)
		if flags.Changed("session") {
			value, _ := flags.GetString("session")
			id, perr := parseID("session", value)
			if perr != nil {
				return perr
			}
			entries, err = a.tracker.EntriesForSession(ctx, id)
		} else {
			value, _ := flags.GetString("date")
			day, perr := parseDay(a.tracker, value)
			if perr != nil {
				return perr
			}
			entries, err = a.tracker.EntriesOn(ctx, day)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No entries found")
			return nil
		}

		var total float64
		for _, e := range entries {
			fmt.Fprintf(out, "#%-4d %s\n", e.ID, describeEntry(e))
			if e.DurationHours != nil {
				total += *e.DurationHours
			}
		}
		fmt.Fprintf(out, "Total: %.2fh\n", total)
		return nil
	}),
}

func init() {
	entryAddCmd.Flags().StringP("category", "c", "", "Category (instead of #Category)")
	entryAddCmd.Flags().String("date", "today", "Date of the workday")
	entryAddCmd.Flags().String("start", "", "Start time HH:MM")
	entryAddCmd.Flags().String("end", "", "End time HH:MM (next day if before --start)")

	entryEditCmd.Flags().String("start", "", "Start time HH:MM")
	entryEditCmd.Flags().String("end", "", "End time HH:MM (next day if before start), or 'open'")
	entryEditCmd.Flags().String("project", "", "Project name")
	entryEditCmd.Flags().StringP("category", "c", "", "Category")

	entryLsCmd.Flags().String("date", "today", "Date to list")
	entryLsCmd.Flags().String("session", "", "List the entries of this workday ID instead")

	entryCmd.AddCommand(entryAddCmd, entryEditCmd, entryRmCmd, entryLsCmd)
}

func describeEntry(e models.Entry) string {
	span := parser.FormatClock(e.StartedAt) + "-"
	hours := "running"
	if e.EndedAt != nil {
		span += parser.FormatClock(*e.EndedAt)
		hours = fmt.Sprintf("%.2fh", *e.DurationHours)
	} else {
		span += "now"
	}
	return fmt.Sprintf("%s  %s  %-8s %s #%s", e.EntryDate, span, hours, e.Project, e.Category)
}
