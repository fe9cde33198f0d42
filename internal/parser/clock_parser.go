package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/daylog/internal/common"
)

// clockRegex matches H:MM or HH:MM with an optional :SS suffix
var clockRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// Clock is a wall-clock time of day with minute precision
type Clock struct {
	Hour   int
	Minute int
}

// String renders the clock as zero-padded HH:MM
func (c Clock) String() string {
	return pad2(c.Hour) + ":" + pad2(c.Minute)
}

// ParseClock parses 24-hour HH:MM text.
// Accepted:
// - "09:30", "9:30" (hour may omit its leading zero)
// - "09:30:00" (seconds are tolerated only when zero)
// Rejected: "9:5" (minutes need two digits), "24:00", "12:60", "9:30:15"
func ParseClock(input string) (Clock, error) {
	input = strings.TrimSpace(input)

	matches := clockRegex.FindStringSubmatch(input)
	if len(matches) != 4 {
		return Clock{}, common.Invalid("time", "%q is not in HH:MM format", input)
	}

	hour, err := strconv.Atoi(matches[1])
	if err != nil {
		return Clock{}, common.Invalid("time", "invalid hour in %q", input)
	}
	minute, err := strconv.Atoi(matches[2])
	if err != nil {
		return Clock{}, common.Invalid("time", "invalid minute in %q", input)
	}

	if hour < 0 || hour > 23 {
		return Clock{}, common.Invalid("time", "hour must be between 0 and 23, got %d", hour)
	}
	if minute < 0 || minute > 59 {
		return Clock{}, common.Invalid("time", "minute must be between 0 and 59, got %d", minute)
	}
	if matches[3] != "" {
		if seconds, _ := strconv.Atoi(matches[3]); seconds != 0 {
			return Clock{}, common.Invalid("time", "seconds are not supported in %q", input)
		}
	}

	return Clock{Hour: hour, Minute: minute}, nil
}

// Combine places a clock time on the civil date of day, in loc. No DST
// correction is made: a wall-clock time inside a spring-forward gap comes
// back however time.Date normalizes it.
func Combine(day time.Time, clock Clock, loc *time.Location) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, clock.Hour, clock.Minute, 0, 0, loc)
}

// ParseTimeOn parses HH:MM text and anchors it on day in loc
func ParseTimeOn(input string, day time.Time, loc *time.Location) (time.Time, error) {
	clock, err := ParseClock(input)
	if err != nil {
		return time.Time{}, err
	}
	return Combine(day, clock, loc), nil
}

// FormatClock renders the wall-clock part of t as HH:MM
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
