package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/balkashynov/daylog/internal/common"
	"github.com/balkashynov/daylog/internal/config"
	"github.com/balkashynov/daylog/internal/db"
	"github.com/balkashynov/daylog/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfgFile string
	dbPath  string

	// clock of every tracker the commands build
	now = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "daylog",
	Short: "A CLI workday and project time tracker",
	Long: `daylog records when your workday starts and stops, which projects you
worked on inside it, and reports daily totals and category averages, all from
the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// app is what a command needs to talk to the tracker
type app struct {
	cfg     *config.Config
	log     logging.Logger
	db      *gorm.DB
	tracker *db.Tracker
}

func (a *app) close() {
	if err := db.Close(a.db); err != nil {
		a.log.Warn(context.Background(), "failed to close database", "error", err)
	}
}

// loadConfig reads the config file and applies command line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database = dbPath
	}
	return cfg, nil
}

// openApp loads config, builds the logger and opens the database
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	base, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	log := base.With("run_id", uuid.NewString(), "command", cmd.CommandPath())

	gdb, err := db.Open(cfg.Database, db.OpenOptions{
		Debug:             strings.EqualFold(cfg.Log.Level, "debug"),
		DefaultCategories: cfg.Categories.Defaults,
	})
	if err != nil {
		return nil, err
	}
	log.Debug(cmd.Context(), "database opened", "path", cfg.Database, "timezone", cfg.Timezone)

	return &app{
		cfg: cfg,
		log: log,
		db:  gdb,
		tracker: db.NewTracker(gdb,
			db.WithClock(now),
			db.WithLocation(loc),
			db.WithLogger(log),
		),
	}, nil
}

// withTracker wraps a command so it runs against an opened tracker. Input
// and invariant errors are printed for the user; anything else fails the
// command.
func withTracker(fn func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		err = fn(ctx, cmd, args, a)
		if err == nil {
			return nil
		}
		if common.IsUserError(err) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return nil
		}
		a.log.Error(ctx, "command failed", "error", err)
		return err
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.daylog/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (overrides config)")

	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(entryCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(timesheetCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
