package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/daylog/internal/db"
)

func sampleSummary() *db.Summary {
	return &db.Summary{
		From:       "2024-01-01",
		To:         "2024-01-03",
		TotalHours: 7,
		Daily: []db.DailyTotal{
			{Date: "2024-01-01", Hours: 6, Entries: 3},
			{Date: "2024-01-02"},
			{Date: "2024-01-03", Hours: 1, Entries: 1},
		},
		Categories: []db.CategoryAverage{
			{Category: "Meetings", TotalHours: 3, Days: 2, AverageHours: 1.5, Share: 3.0 / 7 * 100},
			{Category: "Programming", TotalHours: 4, Days: 1, AverageHours: 4, Share: 4.0 / 7 * 100},
		},
		Timesheet: db.Timesheet{
			Days: []string{"2024-01-01", "2024-01-02", "2024-01-03"},
			Rows: []db.TimesheetRow{
				{Project: "Build", Hours: []float64{4, 0, 0}, Total: 4},
				{Project: "Standup", Hours: []float64{2, 0, 1}, Total: 3},
			},
			DayTotals: []float64{6, 0, 1},
			Total:     7,
		},
	}
}

func TestRenderDailyTable(t *testing.T) {
	out := RenderDailyTable(sampleSummary().Daily)

	for _, want := range []string{"Date", "2024-01-01", "6.00", "2024-01-02", "0.00", "Total", "7.00"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderDailyChart_ScalesToPeak(t *testing.T) {
	out := RenderDailyChart(sampleSummary().Daily, 12)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, 12, strings.Count(lines[0], "█"))
	assert.Contains(t, lines[1], "·")
	assert.Equal(t, 2, strings.Count(lines[2], "█"))
	assert.True(t, strings.HasSuffix(lines[2], "1.00"))
}

func TestRenderDailyChart_AllZero(t *testing.T) {
	out := RenderDailyChart([]db.DailyTotal{{Date: "2024-01-01"}, {Date: "2024-01-02"}}, 0)

	assert.NotContains(t, out, "█")
	assert.Equal(t, 2, strings.Count(out, "0.00"))
}

func TestRenderCategoryViews_ShareSameNumbers(t *testing.T) {
	s := sampleSummary()

	chart := RenderCategoryChart(s.Categories, 20)
	tbl := RenderCategoryTable(s.Categories)

	for _, out := range []string{chart, tbl} {
		assert.Contains(t, out, "Meetings")
		assert.Contains(t, out, "1.50")
		assert.Contains(t, out, "42.9%")
		assert.Contains(t, out, "57.1%")
	}
	assert.Contains(t, chart, "Meetings (42.9%)")
}

func TestRenderCategory_Empty(t *testing.T) {
	assert.Contains(t, RenderCategoryChart(nil, 10), "No entries in range.")
	assert.Contains(t, RenderCategoryTable(nil), "No entries in range.")
}

func TestRenderTimesheet(t *testing.T) {
	out := RenderTimesheet(sampleSummary().Timesheet)

	for _, want := range []string{"Project", "Mon 01", "Tue 02", "Wed 03", "Build", "Standup", "4.00", "-", "7.00"} {
		assert.Contains(t, out, want)
	}

	assert.Contains(t, RenderTimesheet(db.Timesheet{}), "No time tracked")
}

func TestRender(t *testing.T) {
	s := sampleSummary()

	chart, err := Render(s, ViewChart, 10)
	require.NoError(t, err)
	assert.Contains(t, chart, "Report 2024-01-01 → 2024-01-03")
	assert.Contains(t, chart, "█")

	tbl, err := Render(s, ViewTable, 10)
	require.NoError(t, err)
	assert.Contains(t, tbl, "Avg/day")
	assert.NotContains(t, tbl, "█")

	_, err = Render(s, "pie", 10)
	require.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleSummary()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 7.0, decoded["total_hours"])
	assert.Len(t, decoded["daily"], 3)
	assert.Contains(t, buf.String(), `"average_hours": 1.5`)
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "2.50", FormatHours(2.5))
	assert.Equal(t, "0.00", FormatHours(0))
	assert.Equal(t, "0.33", FormatHours(1.0/3))
}
