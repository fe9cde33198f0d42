package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/daylog/internal/config"
	"github.com/balkashynov/daylog/internal/db"
)

type testEnv struct {
	dir    string
	config string
	clock  time.Time
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Database = filepath.Join(dir, "daylog.db")
	cfg.Timezone = "UTC"
	cfg.Log.Level = "error"

	env := &testEnv{
		dir:    dir,
		config: filepath.Join(dir, "config.yaml"),
		clock:  time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, config.Write(env.config, cfg))

	prev := now
	now = func() time.Time { return env.clock }
	t.Cleanup(func() { now = prev })

	return env
}

// run executes the CLI with args and returns what it printed
func (e *testEnv) run(t *testing.T, args ...string) (string, string) {
	t.Helper()

	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", e.config}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	require.NoError(t, err, "stderr: %s", stderr.String())
	return stdout.String(), stderr.String()
}

// resetFlags restores every flag to its default between runs
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestWorkdayFlow(t *testing.T) {
	env := newEnv(t)

	out, _ := env.run(t, "day", "start")
	assert.Contains(t, out, "Day 2024-01-01 started at 08:00")

	out, _ = env.run(t, "start", "Build login #Programming", "--no-ui")
	assert.Contains(t, out, "Started entry #1: Build login #Programming")

	env.clock = env.clock.Add(90 * time.Minute)
	out, _ = env.run(t, "status")
	assert.Contains(t, out, "Day 2024-01-01 running since 08:00")
	assert.Contains(t, out, "Tracking #1: Build login #Programming")
	assert.Contains(t, out, "ago")

	out, _ = env.run(t, "stop")
	assert.Contains(t, out, "Stopped entry #1")
	assert.Contains(t, out, "(1.50h)")

	out, _ = env.run(t, "stop")
	assert.Contains(t, out, "No entry is running")

	env.clock = time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC)
	out, _ = env.run(t, "day", "stop")
	assert.Contains(t, out, "Day 2024-01-01 stopped at 17:00, 9.00h worked")

	out, _ = env.run(t, "status")
	assert.Contains(t, out, "Day 2024-01-01 stopped: 08:00-17:00")
	assert.Contains(t, out, "Today: 1 entries, 1.50h tracked")

	out, _ = env.run(t, "report", "--view", "table")
	assert.Contains(t, out, "Report 2023-12-31 → 2024-01-01")
	assert.Contains(t, out, "Programming")
	assert.Contains(t, out, "1.50")

	out, _ = env.run(t, "report", "--json")
	var summary db.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.InDelta(t, 1.5, summary.TotalHours, 1e-9)
	require.Len(t, summary.Daily, 2)

	out, _ = env.run(t, "timesheet")
	assert.Contains(t, out, "Week 2024-01-01 → 2024-01-07")
	assert.Contains(t, out, "Build login")
}

func TestUserErrorsArePrinted(t *testing.T) {
	env := newEnv(t)

	out, stderr := env.run(t, "start", "Build login #Programming", "--no-ui")
	assert.Empty(t, out)
	assert.Contains(t, stderr, "conflict: no workday is running")

	_, stderr = env.run(t, "entry", "edit", "abc")
	assert.Contains(t, stderr, "not a valid ID")

	_, stderr = env.run(t, "day", "add", "--start", "9:5", "--end", "17:00")
	assert.Contains(t, stderr, "Error:")

	_, stderr = env.run(t, "report", "--view", "pie")
	assert.Contains(t, stderr, `"pie": use chart or table`)

	_, stderr = env.run(t, "report", "--from", "0001-01-01")
	assert.Contains(t, stderr, "more than 3660 days")

	_, stderr = env.run(t, "day", "rm", "42")
	assert.Contains(t, stderr, "not found")
}

func TestManualDaysAndEntries(t *testing.T) {
	env := newEnv(t)

	out, _ := env.run(t, "day", "add", "--date", "yesterday", "--start", "09:00", "--end", "17:00", "--notes", "Offsite")
	assert.Contains(t, out, "Added day #1: 2023-12-31  09:00-17:00  8.00h  Offsite")

	out, _ = env.run(t, "day", "edit", "1", "--end", "12:00")
	assert.Contains(t, out, "Updated day #1: 2023-12-31  09:00-12:00  3.00h  Offsite")

	out, _ = env.run(t, "day", "ls")
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "2023-12-31")

	out, _ = env.run(t, "entry", "add", "Planning #Meetings", "--date", "yesterday", "--start", "09:30", "--end", "10:00")
	assert.Contains(t, out, "Added entry #1: 2023-12-31  09:30-10:00  0.50h")

	_, stderr := env.run(t, "entry", "edit", "1", "--end", "13:00")
	assert.Contains(t, stderr, "outside day 2023-12-31")

	out, _ = env.run(t, "entry", "edit", "1", "--project", "Sprint planning", "--end", "11:00")
	assert.Contains(t, out, "09:30-11:00  1.50h    Sprint planning #Meetings")

	out, _ = env.run(t, "entry", "ls", "--date", "yesterday")
	assert.Contains(t, out, "Total: 1.50h")

	out, _ = env.run(t, "entry", "ls", "--session", "1")
	assert.Contains(t, out, "Sprint planning")

	_, stderr = env.run(t, "entry", "add", "Review #Meetings", "--start", "09:00", "--end", "10:00")
	assert.Contains(t, stderr, "session 2024-01-01 not found")

	out, _ = env.run(t, "day", "rm", "1")
	assert.Contains(t, out, "Deleted day #1")

	out, _ = env.run(t, "entry", "ls", "--date", "yesterday")
	assert.Contains(t, out, "No entries found")
}

func TestOvernightDay(t *testing.T) {
	env := newEnv(t)
	env.clock = time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)

	env.run(t, "day", "start")
	env.run(t, "start", "Deploy #Programming", "--no-ui")

	env.clock = time.Date(2024, 1, 2, 2, 0, 0, 0, time.UTC)
	_, stderr := env.run(t, "stop", "--at", "03:00")
	assert.Contains(t, stderr, "2024-01-02 03:00 is in the future")

	out, _ := env.run(t, "stop", "--at", "00:15")
	assert.Contains(t, out, "(2.25h)")

	out, _ = env.run(t, "entry", "edit", "1", "--end", "00:45")
	assert.Contains(t, out, "Updated entry #1: 2024-01-01  22:00-00:45  2.75h")

	_, stderr = env.run(t, "day", "stop", "--at", "00:30")
	assert.Contains(t, stderr, "outside the day")

	out, _ = env.run(t, "day", "stop", "--at", "01:00")
	assert.Contains(t, out, "Day 2024-01-01 stopped at 01:00, 3.00h worked")
}

func TestOvernightDayEdits(t *testing.T) {
	env := newEnv(t)
	env.clock = time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)
	env.run(t, "day", "start")

	env.clock = time.Date(2024, 1, 2, 2, 0, 0, 0, time.UTC)
	out, _ := env.run(t, "day", "stop")
	assert.Contains(t, out, "4.00h worked")

	out, stderr := env.run(t, "day", "edit", "1", "--notes", "late shift")
	assert.Empty(t, stderr)
	assert.Contains(t, out, "Updated day #1: 2024-01-01  22:00-02:00  4.00h  late shift")

	out, _ = env.run(t, "day", "edit", "1", "--end", "01:30")
	assert.Contains(t, out, "22:00-01:30  3.50h")

	out, _ = env.run(t, "day", "edit", "1", "--date", "2023-12-30")
	assert.Contains(t, out, "Updated day #1: 2023-12-30  22:00-01:30  3.50h  late shift")

	out, _ = env.run(t, "day", "add", "--date", "2023-12-31", "--start", "23:00", "--end", "01:00")
	assert.Contains(t, out, "Added day #2: 2023-12-31  23:00-01:00  2.00h")
}

func TestCategoryCommands(t *testing.T) {
	env := newEnv(t)

	out, _ := env.run(t, "category", "add", "Research")
	assert.Contains(t, out, `Created category "Research"`)

	_, stderr := env.run(t, "category", "add", "Research")
	assert.Contains(t, stderr, "already exists")

	out, _ = env.run(t, "category", "rename", "Research", "Science")
	assert.Contains(t, out, `Renamed "Research" to "Science"`)

	env.run(t, "category", "deactivate", "Science")

	out, _ = env.run(t, "category", "ls")
	assert.Contains(t, out, "Programming")
	assert.NotContains(t, out, "Science")

	out, _ = env.run(t, "category", "ls", "--all")
	assert.Contains(t, out, "Science (inactive)")

	env.run(t, "category", "activate", "Science")
	out, _ = env.run(t, "category", "ls")
	assert.Contains(t, out, "Science")
}

func TestDoctor(t *testing.T) {
	env := newEnv(t)

	env.run(t, "day", "add", "--date", "yesterday", "--start", "09:00", "--end", "17:00")

	out, _ := env.run(t, "doctor")
	assert.Contains(t, out, "0 rows corrected")
	assert.Contains(t, out, "No problems found")

	out, _ = env.run(t, "doctor", "--check")
	assert.NotContains(t, out, "Recalculated")
}

func TestConfigCommands(t *testing.T) {
	env := newEnv(t)

	out, _ := env.run(t, "config", "show")
	assert.Contains(t, out, "timezone: UTC")
	assert.Contains(t, out, env.dir)

	path := filepath.Join(env.dir, "nested", "config.yaml")
	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"--config", path, "config", "init"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, stdout.String(), "Wrote "+path)
	_, err := os.Stat(path)
	require.NoError(t, err)

	stdout.Reset()
	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"--config", path, "config", "init"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, stderr.String(), "already exists")
}

func TestVersion(t *testing.T) {
	env := newEnv(t)

	SetVersion("1.2.3", "abc123", "2024-01-01")
	t.Cleanup(func() { SetVersion("dev", "none", "unknown") })

	out, _ := env.run(t, "version")
	assert.Equal(t, "daylog 1.2.3 (commit abc123, built 2024-01-01)\n", out)
}

func TestGetWeekStart(t *testing.T) {
	cases := map[string]string{
		"2024-01-01": "2024-01-01", // Monday
		"2024-01-03": "2024-01-01",
		"2024-01-07": "2024-01-01", // Sunday
		"2024-01-08": "2024-01-08",
	}
	for in, want := range cases {
		day, err := time.Parse("2006-01-02", in)
		require.NoError(t, err)
		assert.Equal(t, want, getWeekStart(day).Format("2006-01-02"), in)
	}
}
