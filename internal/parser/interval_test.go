package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/daylog/internal/common"
)

func TestHoursBetween(t *testing.T) {
	loc := chicago(t)
	at := func(day, hour, minute int) time.Time {
		return time.Date(2024, 1, day, hour, minute, 0, 0, loc)
	}

	tests := []struct {
		name       string
		start, end time.Time
		want       float64
	}{
		{"same instant", at(1, 8, 0), at(1, 8, 0), 0},
		{"two and a half hours", at(1, 8, 0), at(1, 10, 30), 2.5},
		{"workday", at(1, 8, 0), at(1, 17, 0), 9},
		{"overnight", at(1, 22, 0), at(2, 1, 30), 3.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := HoursBetween(tc.start, tc.end)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHoursBetween_EndBeforeStart(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	for _, back := range []time.Duration{time.Second, time.Minute, 5 * time.Hour, 48 * time.Hour} {
		_, err := HoursBetween(start, start.Add(-back))
		require.Error(t, err)
		assert.True(t, common.IsValidation(err))
	}
}

func TestHoursBetween_AcrossOffsets(t *testing.T) {
	loc := chicago(t)
	// DST starts 2024-03-10 02:00 local: 01:00 CST to 04:00 CDT is two real hours
	start := time.Date(2024, 3, 10, 1, 0, 0, 0, loc)
	end := time.Date(2024, 3, 10, 4, 0, 0, 0, loc)

	got, err := HoursBetween(start, end)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)
}
