package commands

import (
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/daylog/internal/common"
	"github.com/balkashynov/daylog/internal/db"
	"github.com/balkashynov/daylog/internal/parser"
)

// openEnd is the --end value that leaves a record running
const openEnd = "open"

// parseID parses a session or entry ID argument
func parseID(kind, arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || id == 0 {
		return 0, common.Invalid(kind+" id", "%q is not a valid ID", arg)
	}
	return uint(id), nil
}

// parseDay resolves a --date value against the tracker's clock
func parseDay(t *db.Tracker, value string) (time.Time, error) {
	return parser.ParseDate(value, t.Now(), t.Location())
}

// clockAfter resolves HH:MM on the date of after. A clock earlier than
// after lands on the next day, so an overnight end keeps its date.
func clockAfter(t *db.Tracker, value string, after time.Time) (time.Time, error) {
	clock, err := parser.ParseClock(value)
	if err != nil {
		return time.Time{}, err
	}
	at := parser.Combine(after, clock, t.Location())
	if at.Before(after.Truncate(time.Minute)) {
		at = parser.Combine(after.AddDate(0, 0, 1), clock, t.Location())
	}
	return at, nil
}

// stopTime resolves the --at of a live stop: now when empty, otherwise the
// first HH:MM after start, which must not be in the future
func stopTime(t *db.Tracker, value string, start time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return t.Now(), nil
	}
	at, err := clockAfter(t, value, start)
	if err != nil {
		return time.Time{}, err
	}
	if at.After(t.Now()) {
		return time.Time{}, common.Invalid("at", "%s is in the future", at.Format("2006-01-02 15:04"))
	}
	return at, nil
}

// parseEnd resolves an --end value: HH:MM after start, or "open" for nil
func parseEnd(t *db.Tracker, value string, start time.Time) (*time.Time, error) {
	if strings.EqualFold(strings.TrimSpace(value), openEnd) {
		return nil, nil
	}
	end, err := clockAfter(t, value, start)
	if err != nil {
		return nil, err
	}
	return &end, nil
}

// shiftDays moves ts by days calendar days, keeping its wall clock
func shiftDays(t *db.Tracker, ts time.Time, days int) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d+days, ts.Hour(), ts.Minute(), ts.Second(), 0, t.Location())
}

// daysBetween counts calendar days from one civil date to another
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC).Unix()
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).Unix()
	return int((b - a) / 86400)
}

// dayOf returns midnight of a stored yyyy-mm-dd date
func dayOf(t *db.Tracker, date string) (time.Time, error) {
	return parser.ParseDate(date, t.Now(), t.Location())
}
