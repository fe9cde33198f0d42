// Package report renders the aggregates computed by the tracker as terminal
// tables, bar charts or JSON. Every view formats the same values; nothing
// here recomputes them.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/balkashynov/daylog/internal/db"
	"github.com/balkashynov/daylog/internal/parser"
	"github.com/balkashynov/daylog/internal/tui"
)

// Views
const (
	ViewChart = "chart"
	ViewTable = "table"
)

// DefaultChartWidth is the bar length of the largest value
const DefaultChartWidth = 40

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(tui.ColorAccentBright))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(tui.ColorPrimaryText)).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(tui.ColorSecondaryText)).
			Padding(0, 1)

	totalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(tui.ColorSuccess)).
			Padding(0, 1)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(tui.ColorAccentMain))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(tui.ColorDisabledText))
)

// FormatHours renders hours with two decimals
func FormatHours(h float64) string {
	return fmt.Sprintf("%.2f", h)
}

// Render draws a whole summary in the requested view
func Render(summary *db.Summary, view string, width int) (string, error) {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Report %s → %s", summary.From, summary.To)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Total tracked: %s h", FormatHours(summary.TotalHours))))
	b.WriteString("\n\n")

	switch view {
	case ViewChart:
		b.WriteString(titleStyle.Render("Daily hours"))
		b.WriteString("\n")
		b.WriteString(RenderDailyChart(summary.Daily, width))
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Average daily hours by category"))
		b.WriteString("\n")
		b.WriteString(RenderCategoryChart(summary.Categories, width))
	case ViewTable:
		b.WriteString(titleStyle.Render("Daily hours"))
		b.WriteString("\n")
		b.WriteString(RenderDailyTable(summary.Daily))
		b.WriteString("\n\n")
		b.WriteString(titleStyle.Render("Average daily hours by category"))
		b.WriteString("\n")
		b.WriteString(RenderCategoryTable(summary.Categories))
		b.WriteString("\n")
	default:
		return "", fmt.Errorf("unknown view %q (chart or table)", view)
	}

	return b.String(), nil
}

// RenderDailyTable lists the hours of every date
func RenderDailyTable(totals []db.DailyTotal) string {
	t := newTable("Date", "Hours", "Entries")
	var sum float64
	for _, d := range totals {
		t.Row(d.Date, FormatHours(d.Hours), fmt.Sprint(d.Entries))
		sum += d.Hours
	}
	t.Row("Total", FormatHours(sum), "")
	return styleRows(t, len(totals)).String()
}

// RenderDailyChart draws one bar per date
func RenderDailyChart(totals []db.DailyTotal, width int) string {
	labels := make([]string, len(totals))
	values := make([]float64, len(totals))
	for i, d := range totals {
		labels[i] = d.Date
		values[i] = d.Hours
	}
	return barChart(labels, values, width)
}

// RenderCategoryTable lists the category averages
func RenderCategoryTable(averages []db.CategoryAverage) string {
	if len(averages) == 0 {
		return mutedStyle.Render("No entries in range.")
	}

	t := newTable("Category", "Total", "Days", "Avg/day", "Share")
	for _, a := range averages {
		t.Row(a.Category, FormatHours(a.TotalHours), fmt.Sprint(a.Days), FormatHours(a.AverageHours), fmt.Sprintf("%.1f%%", a.Share))
	}
	return styleRows(t, -1).String()
}

// RenderCategoryChart draws the average daily hours of each category. The
// legend carries the share of total time.
func RenderCategoryChart(averages []db.CategoryAverage, width int) string {
	if len(averages) == 0 {
		return mutedStyle.Render("No entries in range.") + "\n"
	}

	labels := make([]string, len(averages))
	values := make([]float64, len(averages))
	for i, a := range averages {
		labels[i] = fmt.Sprintf("%s (%.1f%%)", a.Category, a.Share)
		values[i] = a.AverageHours
	}
	return barChart(labels, values, width)
}

// RenderTimesheet draws the project by date matrix. Empty cells show a dash.
func RenderTimesheet(sheet db.Timesheet) string {
	if len(sheet.Rows) == 0 {
		return mutedStyle.Render("No time tracked in range.")
	}

	headers := []string{"Project"}
	for _, d := range sheet.Days {
		headers = append(headers, dayHeader(d))
	}
	headers = append(headers, "Total")

	t := newTable(headers...)
	for _, row := range sheet.Rows {
		cells := []string{row.Project}
		for _, h := range row.Hours {
			cells = append(cells, cell(h))
		}
		cells = append(cells, FormatHours(row.Total))
		t.Row(cells...)
	}

	totals := []string{"Total"}
	for _, h := range sheet.DayTotals {
		totals = append(totals, FormatHours(h))
	}
	totals = append(totals, FormatHours(sheet.Total))
	t.Row(totals...)

	return styleRows(t, len(sheet.Rows)).String()
}

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorBorder))).
		Headers(headers...)
}

// styleRows highlights the header and the totals row; -1 means no totals
func styleRows(t *table.Table, totalRow int) *table.Table {
	return t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case row == totalRow:
			return totalStyle
		default:
			return cellStyle
		}
	})
}

func barChart(labels []string, values []float64, width int) string {
	if width <= 0 {
		width = DefaultChartWidth
	}

	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, lipgloss.Width(l))
	}
	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}

	var b strings.Builder
	for i, l := range labels {
		n := 0
		if peak > 0 {
			n = int(math.Round(values[i] / peak * float64(width)))
		}
		bar := barStyle.Render(strings.Repeat("█", n))
		if n == 0 {
			bar = mutedStyle.Render("·")
		}
		fmt.Fprintf(&b, "%-*s %s %s\n", labelWidth, l, bar, FormatHours(values[i]))
	}
	return b.String()
}

func cell(h float64) string {
	if h == 0 {
		return "-"
	}
	return FormatHours(h)
}

// dayHeader turns 2024-01-01 into "Mon 01"
func dayHeader(date string) string {
	if t, err := time.Parse(parser.DateLayout, date); err == nil {
		return t.Format("Mon 02")
	}
	return date
}
