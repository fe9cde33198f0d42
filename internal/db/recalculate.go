package db

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/daylog/internal/models"
	"github.com/balkashynov/daylog/internal/parser"
)

// RecalculateEntry refreshes the derived fields of e from its timestamps.
// An open entry has no duration.
func RecalculateEntry(e *models.Entry, loc *time.Location) error {
	e.EntryDate = parser.DateKey(e.StartedAt, loc)

	if e.EndedAt == nil {
		e.DurationHours = nil
		return nil
	}

	hours, err := parser.HoursBetween(e.StartedAt, *e.EndedAt)
	if err != nil {
		return err
	}
	e.DurationHours = &hours
	return nil
}

// RecalculateSession refreshes the date and total hours of s. The total is
// the wall-clock span of the day and ignores entries, so idle time counts.
func RecalculateSession(s *models.Session, loc *time.Location) error {
	s.SessionDate = parser.DateKey(s.StartedAt, loc)

	if s.EndedAt == nil {
		s.TotalHours = nil
		return nil
	}

	hours, err := parser.HoursBetween(s.StartedAt, *s.EndedAt)
	if err != nil {
		return err
	}
	s.TotalHours = &hours
	return nil
}

// saveEntry is the only way entries reach the database
func (t *Tracker) saveEntry(tx *gorm.DB, e *models.Entry) error {
	if err := RecalculateEntry(e, t.loc); err != nil {
		return err
	}
	return tx.Save(e).Error
}

// saveSession is the only way sessions reach the database
func (t *Tracker) saveSession(tx *gorm.DB, s *models.Session) error {
	if err := RecalculateSession(s, t.loc); err != nil {
		return err
	}
	return tx.Save(s).Error
}

// Recalculate walks every row and rewrites derived fields that drifted from
// their timestamps, e.g. after the database was edited by hand. It returns
// the number of rows that were corrected.
func (t *Tracker) Recalculate(ctx context.Context) (int, error) {
	fixed := 0

	err := t.mutate(ctx, func(tx *gorm.DB) error {
		var sessions []models.Session
		if err := tx.Order("id").Find(&sessions).Error; err != nil {
			return err
		}
		for i := range sessions {
			s := sessions[i]
			beforeHours, beforeDate := s.TotalHours, s.SessionDate
			if err := RecalculateSession(&s, t.loc); err != nil {
				t.log.Warn(ctx, "session has end before start", "session_id", s.ID)
				continue
			}
			if !sameHours(beforeHours, s.TotalHours) || beforeDate != s.SessionDate {
				if err := tx.Save(&s).Error; err != nil {
					return err
				}
				fixed++
			}
		}

		var entries []models.Entry
		if err := tx.Order("id").Find(&entries).Error; err != nil {
			return err
		}
		for i := range entries {
			e := entries[i]
			beforeHours, beforeDate := e.DurationHours, e.EntryDate
			if err := RecalculateEntry(&e, t.loc); err != nil {
				t.log.Warn(ctx, "entry has end before start", "entry_id", e.ID)
				continue
			}
			if !sameHours(beforeHours, e.DurationHours) || beforeDate != e.EntryDate {
				if err := tx.Save(&e).Error; err != nil {
					return err
				}
				fixed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	t.log.Info(ctx, "recalculated totals", "fixed", fixed)
	return fixed, nil
}

func sameHours(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
