package db

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/daylog/internal/common"
)

// seedWeek records two Meetings days (2.0h and 1.0h) and one Programming
// day inside the week of 2023-12-31
func seedWeek(t *testing.T, f *fixture) {
	t.Helper()

	type span struct {
		date, project, category string
		from, to                int // hours
	}
	days := map[string][]span{
		"2024-01-01": {
			{"2024-01-01", "Standup", "Meetings", 9, 10},
			{"2024-01-01", "Planning", "Meetings", 10, 11},
			{"2024-01-01", "Build", "Programming", 11, 15},
		},
		"2024-01-03": {
			{"2024-01-03", "Standup", "Meetings", 9, 10},
		},
	}

	for date, spans := range days {
		session, err := f.tracker.ManualSession(f.ctx, at(date, 8, 0), ptr(at(date, 17, 0)), "")
		require.NoError(t, err)
		for _, s := range spans {
			_, err := f.tracker.ManualEntry(f.ctx, session.ID, s.project, s.category, at(s.date, s.from, 0), at(s.date, s.to, 0))
			require.NoError(t, err)
		}
	}
}

func TestDailyTotals(t *testing.T) {
	f := newFixture(t)
	seedWeek(t, f)

	totals, err := f.tracker.DailyTotals(f.ctx, day("2023-12-31"), day("2024-01-06"))
	require.NoError(t, err)

	want := []DailyTotal{
		{Date: "2023-12-31"},
		{Date: "2024-01-01", Hours: 6, Entries: 3},
		{Date: "2024-01-02"},
		{Date: "2024-01-03", Hours: 1, Entries: 1},
		{Date: "2024-01-04"},
		{Date: "2024-01-05"},
		{Date: "2024-01-06"},
	}
	if diff := cmp.Diff(want, totals); diff != "" {
		t.Errorf("DailyTotals mismatch (-want +got):\n%s", diff)
	}
}

func TestDailyTotals_EmptyRangeIsAllZero(t *testing.T) {
	f := newFixture(t)

	totals, err := f.tracker.DailyTotals(f.ctx, day("2024-02-27"), day("2024-03-01"))
	require.NoError(t, err)
	require.Len(t, totals, 4)
	for _, d := range totals {
		assert.Zero(t, d.Hours, d.Date)
	}
	assert.Equal(t, "2024-02-29", totals[2].Date)
}

func TestDailyTotals_IgnoresOpenEntries(t *testing.T) {
	f := newFixture(t)
	session := startedDay(t, f)
	_, err := f.tracker.StartEntry(f.ctx, session.ID, "Build", "Programming")
	require.NoError(t, err)

	totals, err := f.tracker.DailyTotals(f.ctx, day("2024-01-01"), day("2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, []DailyTotal{{Date: "2024-01-01"}}, totals)
}

func TestDailyTotals_RejectsInvertedRange(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.DailyTotals(f.ctx, day("2024-01-02"), day("2024-01-01"))
	require.True(t, common.IsValidation(err), "got %v", err)
}

func TestReports_RejectOversizedRange(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.Summary(f.ctx, day("0001-01-01"), day("2024-01-01"))
	require.True(t, common.IsValidation(err), "got %v", err)
	assert.Contains(t, err.Error(), "more than 3660")

	_, err = f.tracker.ProjectTimesheet(f.ctx, day("2014-01-01"), day("2024-01-09"))
	require.True(t, common.IsValidation(err), "got %v", err)

	totals, err := f.tracker.DailyTotals(f.ctx, day("2014-01-01"), day("2024-01-08"))
	require.NoError(t, err)
	assert.Len(t, totals, MaxReportDays)
}

func TestDaySpan(t *testing.T) {
	assert.Equal(t, 1, daySpan(day("2024-01-01"), day("2024-01-01")))
	assert.Equal(t, 366, daySpan(day("2024-01-01"), day("2024-12-31")))
	assert.Equal(t, 738886, daySpan(day("0001-01-01"), day("2024-01-01")))
}

func TestCategoryAverages(t *testing.T) {
	f := newFixture(t)
	seedWeek(t, f)

	averages, err := f.tracker.CategoryAverages(f.ctx, day("2023-12-31"), day("2024-01-06"))
	require.NoError(t, err)

	want := []CategoryAverage{
		{Category: "Meetings", TotalHours: 3, Days: 2, AverageHours: 1.5, Share: 3.0 / 7 * 100},
		{Category: "Programming", TotalHours: 4, Days: 1, AverageHours: 4, Share: 4.0 / 7 * 100},
	}
	if diff := cmp.Diff(want, averages, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("CategoryAverages mismatch (-want +got):\n%s", diff)
	}

	// Narrower range only sees the 2024-01-03 standup
	averages, err = f.tracker.CategoryAverages(f.ctx, day("2024-01-02"), day("2024-01-03"))
	require.NoError(t, err)
	require.Len(t, averages, 1)
	assert.Equal(t, "Meetings", averages[0].Category)
	assert.Equal(t, 1.0, averages[0].AverageHours)
	assert.Equal(t, 100.0, averages[0].Share)
}

func TestProjectTimesheet(t *testing.T) {
	f := newFixture(t)
	seedWeek(t, f)

	sheet, err := f.tracker.ProjectTimesheet(f.ctx, day("2024-01-01"), day("2024-01-03"))
	require.NoError(t, err)

	want := &Timesheet{
		Days: []string{"2024-01-01", "2024-01-02", "2024-01-03"},
		Rows: []TimesheetRow{
			{Project: "Build", Hours: []float64{4, 0, 0}, Total: 4},
			{Project: "Planning", Hours: []float64{1, 0, 0}, Total: 1},
			{Project: "Standup", Hours: []float64{1, 0, 1}, Total: 2},
		},
		DayTotals: []float64{6, 0, 1},
		Total:     7,
	}
	if diff := cmp.Diff(want, sheet); diff != "" {
		t.Errorf("ProjectTimesheet mismatch (-want +got):\n%s", diff)
	}
}

// Every view reads the same numbers
func TestSummary_ConsistentWithParts(t *testing.T) {
	f := newFixture(t)
	seedWeek(t, f)

	from, to := day("2023-12-31"), day("2024-01-06")
	summary, err := f.tracker.Summary(f.ctx, from, to)
	require.NoError(t, err)

	daily, err := f.tracker.DailyTotals(f.ctx, from, to)
	require.NoError(t, err)
	averages, err := f.tracker.CategoryAverages(f.ctx, from, to)
	require.NoError(t, err)
	sheet, err := f.tracker.ProjectTimesheet(f.ctx, from, to)
	require.NoError(t, err)

	assert.Equal(t, "2023-12-31", summary.From)
	assert.Equal(t, "2024-01-06", summary.To)
	assert.Equal(t, 7.0, summary.TotalHours)
	assert.Empty(t, cmp.Diff(daily, summary.Daily))
	assert.Empty(t, cmp.Diff(averages, summary.Categories))
	assert.Empty(t, cmp.Diff(*sheet, summary.Timesheet))
}
