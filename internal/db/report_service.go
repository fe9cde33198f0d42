package db

import (
	"context"
	"sort"
	"time"

	"github.com/balkashynov/daylog/internal/common"
	"github.com/balkashynov/daylog/internal/models"
	"github.com/balkashynov/daylog/internal/parser"
)

// DailyTotal is the tracked time of one civil date
type DailyTotal struct {
	Date    string  `json:"date"`
	Hours   float64 `json:"hours"`
	Entries int     `json:"entries"`
}

// CategoryAverage is the per-day average of one category over a range
type CategoryAverage struct {
	Category     string  `json:"category"`
	TotalHours   float64 `json:"total_hours"`
	Days         int     `json:"days"`          // distinct dates with an entry in the category
	AverageHours float64 `json:"average_hours"` // TotalHours / Days
	Share        float64 `json:"share"`         // percent of all hours in range
}

// TimesheetRow is one project across the days of a timesheet
type TimesheetRow struct {
	Project string    `json:"project"`
	Hours   []float64 `json:"hours"` // aligned with Timesheet.Days
	Total   float64   `json:"total"`
}

// Timesheet is a project by date matrix of hours
type Timesheet struct {
	Days      []string       `json:"days"`
	Rows      []TimesheetRow `json:"rows"`
	DayTotals []float64      `json:"day_totals"`
	Total     float64        `json:"total"`
}

// Summary bundles every aggregate of one range so all views agree
type Summary struct {
	From       string            `json:"from"`
	To         string            `json:"to"`
	TotalHours float64           `json:"total_hours"`
	Daily      []DailyTotal      `json:"daily"`
	Categories []CategoryAverage `json:"categories"`
	Timesheet  Timesheet         `json:"timesheet"`
}

// MaxReportDays bounds the dates one report may span
const MaxReportDays = 3660

// closedEntries loads the finished entries dated within [from, to]
func (t *Tracker) closedEntries(ctx context.Context, from, to time.Time) ([]models.Entry, error) {
	fromKey, toKey := parser.DayKey(from), parser.DayKey(to)
	if fromKey > toKey {
		return nil, common.Invalid("range", "%s is after %s", fromKey, toKey)
	}
	if span := daySpan(from, to); span > MaxReportDays {
		return nil, common.Invalid("range", "%s to %s spans %d days, more than %d", fromKey, toKey, span, MaxReportDays)
	}

	var entries []models.Entry
	err := t.read(ctx).
		Where("ended_at IS NOT NULL AND entry_date BETWEEN ? AND ?", fromKey, toKey).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	sortByStart(entries)
	return entries, nil
}

// daySpan counts the calendar dates from from to to, both included
func daySpan(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC).Unix()
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).Unix()
	return int((b-a)/86400) + 1
}

// DailyTotals sums closed entries per date. Every date of the range is
// present, in order, with zero when nothing was tracked.
func (t *Tracker) DailyTotals(ctx context.Context, from, to time.Time) ([]DailyTotal, error) {
	entries, err := t.closedEntries(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return dailyTotals(parser.DaysInRange(from, to), entries), nil
}

// CategoryAverages computes average daily hours per category
func (t *Tracker) CategoryAverages(ctx context.Context, from, to time.Time) ([]CategoryAverage, error) {
	entries, err := t.closedEntries(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return categoryAverages(entries), nil
}

// ProjectTimesheet lays out hours per project and date
func (t *Tracker) ProjectTimesheet(ctx context.Context, from, to time.Time) (*Timesheet, error) {
	entries, err := t.closedEntries(ctx, from, to)
	if err != nil {
		return nil, err
	}
	sheet := projectTimesheet(parser.DaysInRange(from, to), entries)
	return &sheet, nil
}

// Summary computes every aggregate from a single read
func (t *Tracker) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	entries, err := t.closedEntries(ctx, from, to)
	if err != nil {
		return nil, err
	}

	days := parser.DaysInRange(from, to)
	summary := &Summary{
		From:       parser.DayKey(from),
		To:         parser.DayKey(to),
		Daily:      dailyTotals(days, entries),
		Categories: categoryAverages(entries),
		Timesheet:  projectTimesheet(days, entries),
	}
	for _, d := range summary.Daily {
		summary.TotalHours += d.Hours
	}
	return summary, nil
}

func dailyTotals(days []string, entries []models.Entry) []DailyTotal {
	totals := make([]DailyTotal, len(days))
	index := make(map[string]int, len(days))
	for i, day := range days {
		totals[i] = DailyTotal{Date: day}
		index[day] = i
	}

	for _, e := range entries {
		i, ok := index[e.EntryDate]
		if !ok || e.DurationHours == nil {
			continue
		}
		totals[i].Hours += *e.DurationHours
		totals[i].Entries++
	}
	return totals
}

func categoryAverages(entries []models.Entry) []CategoryAverage {
	type acc struct {
		hours float64
		days  map[string]struct{}
	}
	byCategory := make(map[string]*acc)
	var grand float64

	for _, e := range entries {
		if e.DurationHours == nil {
			continue
		}
		a, ok := byCategory[e.Category]
		if !ok {
			a = &acc{days: make(map[string]struct{})}
			byCategory[e.Category] = a
		}
		a.hours += *e.DurationHours
		a.days[e.EntryDate] = struct{}{}
		grand += *e.DurationHours
	}

	averages := make([]CategoryAverage, 0, len(byCategory))
	for name, a := range byCategory {
		avg := CategoryAverage{
			Category:     name,
			TotalHours:   a.hours,
			Days:         len(a.days),
			AverageHours: a.hours / float64(len(a.days)),
		}
		if grand > 0 {
			avg.Share = a.hours / grand * 100
		}
		averages = append(averages, avg)
	}
	sort.Slice(averages, func(i, j int) bool { return averages[i].Category < averages[j].Category })
	return averages
}

func projectTimesheet(days []string, entries []models.Entry) Timesheet {
	sheet := Timesheet{
		Days:      days,
		Rows:      []TimesheetRow{},
		DayTotals: make([]float64, len(days)),
	}
	index := make(map[string]int, len(days))
	for i, day := range days {
		index[day] = i
	}

	rows := make(map[string]*TimesheetRow)
	for _, e := range entries {
		i, ok := index[e.EntryDate]
		if !ok || e.DurationHours == nil {
			continue
		}
		row, ok := rows[e.Project]
		if !ok {
			row = &TimesheetRow{Project: e.Project, Hours: make([]float64, len(days))}
			rows[e.Project] = row
		}
		row.Hours[i] += *e.DurationHours
		row.Total += *e.DurationHours
		sheet.DayTotals[i] += *e.DurationHours
		sheet.Total += *e.DurationHours
	}

	for _, row := range rows {
		sheet.Rows = append(sheet.Rows, *row)
	}
	sort.Slice(sheet.Rows, func(i, j int) bool { return sheet.Rows[i].Project < sheet.Rows[j].Project })
	return sheet
}
