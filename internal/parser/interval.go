package parser

import (
	"time"

	"github.com/balkashynov/daylog/internal/common"
)

// HoursBetween returns end-start in hours. Both values carry a full date, so
// an overnight interval is simply an end on the following day.
func HoursBetween(start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, common.Invalid("end", "%s is before start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return end.Sub(start).Hours(), nil
}
