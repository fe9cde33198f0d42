package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/daylog/internal/common"
)

// DateLayout is the civil date format used for keys and storage
const DateLayout = "2006-01-02"

var (
	isoDateRegex  = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	relativeRegex = regexp.MustCompile(`^(\d+)\s+(day|days|week|weeks)\s+ago$`)
)

// ParseDate parses a civil date relative to now, in loc.
// Supported formats:
// - yyyy-mm-dd (e.g., "2024-01-31")
// - today, yesterday
// - X days ago, X weeks ago (e.g., "3 days ago", "1 week ago")
// The result is midnight of that date in loc.
func ParseDate(input string, now time.Time, loc *time.Location) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	today := DayStart(now, loc)

	switch input {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if date, err := parseISODate(input, loc); err == nil {
		return date, nil
	} else if isoDateRegex.MatchString(input) {
		return time.Time{}, err
	}

	if date, err := parseRelativeDate(input, today); err == nil {
		return date, nil
	}

	return time.Time{}, common.Invalid("date", "%q: use yyyy-mm-dd, today, yesterday, or X days ago", input)
}

// parseISODate parses yyyy-mm-dd
func parseISODate(input string, loc *time.Location) (time.Time, error) {
	matches := isoDateRegex.FindStringSubmatch(input)
	if len(matches) != 4 {
		return time.Time{}, common.Invalid("date", "%q is not yyyy-mm-dd", input)
	}

	year, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	day, _ := strconv.Atoi(matches[3])

	if month < 1 || month > 12 {
		return time.Time{}, common.Invalid("date", "month must be between 1 and 12")
	}
	if day < 1 || day > 31 {
		return time.Time{}, common.Invalid("date", "day must be between 1 and 31")
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)

	// Check if date is valid (handles leap years, etc.)
	if date.Day() != day || date.Month() != time.Month(month) || date.Year() != year {
		return time.Time{}, common.Invalid("date", "%s does not exist", input)
	}

	return date, nil
}

// parseRelativeDate parses "X days ago" and "X weeks ago"
func parseRelativeDate(input string, today time.Time) (time.Time, error) {
	matches := relativeRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return time.Time{}, common.Invalid("date", "invalid relative date")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil || amount > 3660 {
		return time.Time{}, common.Invalid("date", "invalid number")
	}

	switch matches[2] {
	case "day", "days":
		return today.AddDate(0, 0, -amount), nil
	default:
		return today.AddDate(0, 0, -7*amount), nil
	}
}

// DayStart returns midnight of t's civil date in loc
func DayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DateKey returns the civil yyyy-mm-dd of t in loc
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// WeekStart returns the Sunday on or before t, at midnight in loc
func WeekStart(t time.Time, loc *time.Location) time.Time {
	day := DayStart(t, loc)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// DaysInRange lists every date key from from to to inclusive. Each bound
// contributes its own calendar date; no timezone conversion happens.
func DaysInRange(from, to time.Time) []string {
	start := calendarDay(from)
	end := calendarDay(to)

	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DateLayout))
	}
	return days
}

// DayKey returns the yyyy-mm-dd of t as written, without converting zones
func DayKey(t time.Time) string {
	return t.Format(DateLayout)
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
