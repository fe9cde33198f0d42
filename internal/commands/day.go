package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/daylog/internal/common"
	"github.com/balkashynov/daylog/internal/db"
	"github.com/balkashynov/daylog/internal/models"
	"github.com/balkashynov/daylog/internal/parser"
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Start, stop and manage workdays",
	Long: `A workday (session) brackets the entries of one calendar date.

Examples:
  daylog day start
  daylog day stop --at 17:30
  daylog day add --date yesterday --start 09:00 --end 17:00
  daylog day edit 3 --end open
  daylog day ls --from 2024-01-01`,
}

var dayStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start today's workday now",
	Args:  cobra.NoArgs,
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		session, err := a.tracker.StartDay(ctx, a.tracker.Today())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "📅 Day %s started at %s (session #%d)\n",
			session.SessionDate, parser.FormatClock(session.StartedAt), session.ID)
		return nil
	}),
}

var dayStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running workday",
	Long: `Stop the running workday now, or at --at HH:MM. An --at earlier than the
start of the day means after midnight. A running entry is stopped with it.`,
	Args: cobra.NoArgs,
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		session, err := a.tracker.ActiveSession(ctx)
		if err != nil {
			return err
		}
		if session == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No workday is running")
			return nil
		}

		at, _ := cmd.Flags().GetString("at")
		end, err := stopTime(a.tracker, at, session.StartedAt)
		if err != nil {
			return err
		}

		session, err = a.tracker.StopDay(ctx, session.ID, end)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🏁 Day %s stopped at %s, %.2fh worked\n",
			session.SessionDate, parser.FormatClock(*session.EndedAt), *session.TotalHours)
		return nil
	}),
}

var dayAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a workday after the fact",
	Args:  cobra.NoArgs,
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		dateFlag, _ := cmd.Flags().GetString("date")
		startFlag, _ := cmd.Flags().GetString("start")
		endFlag, _ := cmd.Flags().GetString("end")
		notes, _ := cmd.Flags().GetString("notes")

		if startFlag == "" {
			return common.Invalid("start", "--start is required")
		}
		if endFlag == "" {
			return common.Invalid("end", "--end is required, use 'open' to leave the day running")
		}

		day, err := parseDay(a.tracker, dateFlag)
		if err != nil {
			return err
		}
		start, err := parser.ParseTimeOn(startFlag, day, a.tracker.Location())
		if err != nil {
			return err
		}
		end, err := parseEnd(a.tracker, endFlag, start)
		if err != nil {
			return err
		}

		session, err := a.tracker.ManualSession(ctx, start, end, notes)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Added day #%d: %s\n", session.ID, describeSession(*session))
		return nil
	}),
}

var dayEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a workday's date, times or notes",
	Long: `Change a workday. Unset flags keep their current value. --date moves
the whole day, an end after midnight included. An --end earlier than the
start falls on the next day, and --end open reopens the day.`,
	Args: cobra.ExactArgs(1),
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID("session", args[0])
		if err != nil {
			return err
		}
		session, err := a.tracker.GetSession(ctx, id)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		edit := db.SessionEdit{Start: session.StartedAt, End: session.EndedAt}
		if flags.Changed("date") {
			value, _ := flags.GetString("date")
			day, err := parseDay(a.tracker, value)
			if err != nil {
				return err
			}
			current, err := dayOf(a.tracker, session.SessionDate)
			if err != nil {
				return err
			}
			shift := daysBetween(current, day)
			edit.Start = shiftDays(a.tracker, session.StartedAt, shift)
			if session.EndedAt != nil {
				end := shiftDays(a.tracker, *session.EndedAt, shift)
				edit.End = &end
			}
		}
		if flags.Changed("start") {
			value, _ := flags.GetString("start")
			if edit.Start, err = parser.ParseTimeOn(value, edit.Start, a.tracker.Location()); err != nil {
				return err
			}
		}
		if flags.Changed("end") {
			value, _ := flags.GetString("end")
			if edit.End, err = parseEnd(a.tracker, value, edit.Start); err != nil {
				return err
			}
		}
		if flags.Changed("notes") {
			notes, _ := flags.GetString("notes")
			edit.Notes = &notes
		}

		session, err = a.tracker.EditSession(ctx, id, edit)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✏️  Updated day #%d: %s\n", session.ID, describeSession(*session))
		return nil
	}),
}

var dayRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a workday and its entries",
	Args:    cobra.ExactArgs(1),
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID("session", args[0])
		if err != nil {
			return err
		}
		if err := a.tracker.DeleteSession(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted day #%d\n", id)
		return nil
	}),
}

var dayLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List workdays (default: this week)",
	Args:    cobra.NoArgs,
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		from, to, err := rangeFlags(cmd, a.tracker)
		if err != nil {
			return err
		}

		sessions, err := a.tracker.ListSessions(ctx, from, to)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintf(out, "No workdays between %s and %s\n", parser.DayKey(from), parser.DayKey(to))
			return nil
		}
		for _, s := range sessions {
			fmt.Fprintf(out, "#%-4d %s\n", s.ID, describeSession(s))
		}
		return nil
	}),
}

func init() {
	dayStopCmd.Flags().String("at", "", "Stop time HH:MM (default now)")

	dayAddCmd.Flags().String("date", "today", "Date: yyyy-mm-dd, today, yesterday, X days ago")
	dayAddCmd.Flags().String("start", "", "Start time HH:MM")
	dayAddCmd.Flags().String("end", "", "End time HH:MM (next day if before --start), or 'open'")
	dayAddCmd.Flags().String("notes", "", "Notes for the day")

	dayEditCmd.Flags().String("date", "", "Move the day to this date")
	dayEditCmd.Flags().String("start", "", "Start time HH:MM")
	dayEditCmd.Flags().String("end", "", "End time HH:MM (next day if before start), or 'open' to reopen")
	dayEditCmd.Flags().String("notes", "", "Replace the notes")

	dayLsCmd.Flags().String("from", "", "First date (default: start of this week)")
	dayLsCmd.Flags().String("to", "", "Last date (default: today)")

	dayCmd.AddCommand(dayStartCmd, dayStopCmd, dayAddCmd, dayEditCmd, dayRmCmd, dayLsCmd)
}

// rangeFlags reads --from/--to, defaulting to the current week up to today
func rangeFlags(cmd *cobra.Command, t *db.Tracker) (from, to time.Time, err error) {
	fromFlag, _ := cmd.Flags().GetString("from")
	toFlag, _ := cmd.Flags().GetString("to")

	to = t.Today()
	if toFlag != "" {
		if to, err = parseDay(t, toFlag); err != nil {
			return
		}
	}
	from = parser.WeekStart(to, t.Location())
	if fromFlag != "" {
		if from, err = parseDay(t, fromFlag); err != nil {
			return
		}
	}
	return from, to, nil
}

func describeSession(s models.Session) string {
	span := parser.FormatClock(s.StartedAt) + "-"
	hours := "running"
	if s.EndedAt != nil {
		span += parser.FormatClock(*s.EndedAt)
		hours = fmt.Sprintf("%.2fh", *s.TotalHours)
	} else {
		span += "now"
	}
	line := fmt.Sprintf("%s  %s  %s", s.SessionDate, span, hours)
	if s.Notes != "" {
		line += "  " + s.Notes
	}
	return line
}
