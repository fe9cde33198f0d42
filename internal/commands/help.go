package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for daylog",
	Long:  `Display detailed help for all daylog commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp(cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "daylog %s (commit %s, built %s)\n", version, commit, date)
	},
}

func showCustomHelp(w io.Writer) {
	fmt.Fprint(w, `
██████╗  █████╗ ██╗   ██╗██╗      ██████╗  ██████╗
██╔══██╗██╔══██╗╚██╗ ██╔╝██║     ██╔═══██╗██╔════╝
██║  ██║███████║ ╚████╔╝ ██║     ██║   ██║██║  ███╗
██║  ██║██╔══██║  ╚██╔╝  ██║     ██║   ██║██║   ██║
██████╔╝██║  ██║   ██║   ███████╗╚██████╔╝╚██████╔╝
╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚══════╝ ╚═════╝  ╚═════╝

daylog - CLI Workday + Project Time Tracker

WORKDAY:

  day start               Start today's workday now
  day stop                Stop the running workday (and its running entry)
    --at                  Stop time HH:MM instead of now
  day add                 Record a past workday
    --date --start --end  Date and HH:MM times (--end open keeps it running)
    --notes               Notes for the day
  day edit <id>           Change date, --start, --end (HH:MM|open), --notes
  day rm <id>             Delete a workday and its entries
  day ls                  List workdays (--from, --to; default this week)

TRACKING:

  start <project>         Start an entry in today's workday
    -c, --category        Category (or write #Category in the title)
    --no-ui               Skip the interactive tracker

    Example:
      daylog start "Build login page #Programming"

  stop                    Stop the running entry (--at HH:MM)
  status                  Show the running workday and entry
  track                   Open the interactive tracker

    Tracker keys:
      b             Start the day
      n             New entry (tab cycles categories)
      s             Stop the running entry
      d             Stop the day
      r             Refresh
      q/esc         Quit

ENTRIES:

  entry add <project>     Record a finished entry
    --date --start --end  Date of its workday and HH:MM times
  entry edit <id>         Change --start, --end (HH:MM|open), --project, --category
  entry rm <id>           Delete an entry
  entry ls                List entries (--date, or --session <id>)

CATEGORIES:

  category ls             List categories (--all includes inactive)
  category add <name>     Create a category
  category rename <a> <b> Rename a category and its entries
  category activate <n>   Offer a category again
  category deactivate <n> Hide a category from new entries

REPORTS:

  report                  Daily hours and category averages
    --from --to           Date range (default this week)
    --view                chart|table
    --json                JSON output
  timesheet               Weekly project × day hours (--week-of, --json)

ADMIN:

  doctor                  Recalculate totals and check the data (--check)
  config init             Write ~/.daylog/config.yaml (--force)
  config show             Print the effective configuration
  version                 Print version information
  help                    Show this help

Dates accept yyyy-mm-dd, today, yesterday, "3 days ago", "1 week ago".
Global flags: --config <file>, --db <file>.

`)
}
