package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/balkashynov/daylog/internal/common"
	"github.com/balkashynov/daylog/internal/parser"
	"github.com/balkashynov/daylog/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start <project> [#Category]",
	Short: "Start tracking a project in today's workday",
	Long: `Start tracking a project inside the running workday. The category comes
from a #Tag in the title or from --category. Opens the interactive tracker by
default, use --no-ui for a plain start.

Examples:
  daylog start "Build login #Programming"
  daylog start Weekly sync -c Meetings --no-ui`,
	Args: cobra.MinimumNArgs(1),
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		parsed := parser.ParseEntryTitle(strings.Join(args, " "))
		if len(parsed.Errors) > 0 {
			return common.Invalid("entry", "%s", strings.Join(parsed.Errors, "; "))
		}

		category, _ := cmd.Flags().GetString("category")
		if parsed.Category != "" {
			category = parsed.Category
		}
		if category == "" {
			return common.Invalid("category", "use #Category or --category")
		}

		session, err := a.tracker.ActiveSession(ctx)
		if err != nil {
			return err
		}
		if session == nil {
			return common.Conflict("no workday is running, start one with 'daylog day start'")
		}

		entry, err := a.tracker.StartEntry(ctx, session.ID, parsed.Project, category)
		if err != nil {
			return err
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "⏱️  Started entry #%d: %s #%s\n", entry.ID, entry.Project, entry.Category)
			fmt.Fprintf(out, "Started at: %s\n", entry.StartedAt.Format("15:04:05"))
			return nil
		}
		return tui.RunTrackerTUI(ctx, a.tracker)
	}),
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running entry",
	Long: `Stop the running entry now, or at --at HH:MM. An --at earlier than the
entry's start means after midnight.

Examples:
  daylog stop
  daylog stop --at 12:30`,
	Args: cobra.NoArgs,
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		entry, err := a.tracker.ActiveEntry(ctx)
		if err != nil {
			return err
		}
		if entry == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No entry is running")
			return nil
		}

		at, _ := cmd.Flags().GetString("at")
		end, err := stopTime(a.tracker, at, entry.StartedAt)
		if err != nil {
			return err
		}

		entry, err = a.tracker.StopEntry(ctx, entry.ID, end)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "⏹️  Stopped entry #%d: %s #%s\n", entry.ID, entry.Project, entry.Category)
		fmt.Fprintf(out, "Duration: %s (%.2fh)\n", formatDuration(hoursToDuration(*entry.DurationHours)), *entry.DurationHours)
		return nil
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running workday and entry",
	Args:  cobra.NoArgs,
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		info, err := a.tracker.Status(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if info.Session == nil {
			fmt.Fprintln(out, "No workday today. Start one with 'daylog day start'.")
			return nil
		}

		s := info.Session
		if s.IsOpen() {
			fmt.Fprintf(out, "📅 Day %s running since %s (%s), %s so far\n",
				s.SessionDate, parser.FormatClock(s.StartedAt),
				humanize.RelTime(s.StartedAt, info.Now, "ago", "from now"),
				formatDuration(hoursToDuration(info.SessionHours)))
		} else {
			fmt.Fprintf(out, "📅 Day %s stopped: %s-%s, %s\n",
				s.SessionDate, parser.FormatClock(s.StartedAt), parser.FormatClock(*s.EndedAt),
				formatDuration(hoursToDuration(info.SessionHours)))
		}

		if e := info.Entry; e != nil {
			fmt.Fprintf(out, "⏱️  Tracking #%d: %s #%s\n", e.ID, e.Project, e.Category)
			fmt.Fprintf(out, "Started %s at %s, elapsed %s\n",
				humanize.RelTime(e.StartedAt, info.Now, "ago", "from now"),
				e.StartedAt.Format("15:04:05"),
				formatDuration(hoursToDuration(info.EntryHours)))
		} else {
			fmt.Fprintln(out, "No entry is running")
		}

		var tracked float64
		for _, e := range info.Today {
			if e.DurationHours != nil {
				tracked += *e.DurationHours
			}
		}
		fmt.Fprintf(out, "Today: %d entries, %.2fh tracked\n", len(info.Today), tracked)
		return nil
	}),
}

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Open the interactive tracker",
	Args:  cobra.NoArgs,
	RunE: withTracker(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		return tui.RunTrackerTUI(ctx, a.tracker)
	}),
}

func init() {
	startCmd.Flags().StringP("category", "c", "", "Category of the entry")
	startCmd.Flags().Bool("no-ui", false, "Start without the interactive tracker")
	stopCmd.Flags().String("at", "", "Stop time HH:MM (default now)")
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour)).Round(time.Second)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	} else {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
}
