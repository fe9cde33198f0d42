package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/daylog/internal/common"
	"github.com/balkashynov/daylog/internal/models"
	"github.com/balkashynov/daylog/internal/parser"
)

// SessionEdit holds the admin changes for a workday. A nil End reopens it.
type SessionEdit struct {
	Start time.Time
	End   *time.Time
	Notes *string
}

// StartDay opens the workday for day, starting now. A date holds at most one
// session: a day that was already stopped is reopened with EditSession.
func (t *Tracker) StartDay(ctx context.Context, day time.Time) (*models.Session, error) {
	now := t.Now()
	date := parser.DayKey(day)
	if date != parser.DayKey(now) {
		return nil, common.Invalid("date", "a day can only be started on %s", parser.DayKey(now))
	}

	session := models.Session{StartedAt: now}

	err := t.mutate(ctx, func(tx *gorm.DB) error {
		open, err := findOpenSession(tx)
		if err != nil {
			return err
		}
		if open != nil {
			return common.Conflict("day %s is already running, stop it first", open.SessionDate)
		}

		var existing int64
		if err := tx.Model(&models.Session{}).Where("session_date = ?", date).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return common.Conflict("day %s was already tracked, edit it to reopen", date)
		}

		return t.saveSession(tx, &session)
	})
	if err != nil {
		return nil, fmt.Errorf("start day: %w", err)
	}

	t.log.Info(ctx, "day started", "session_id", session.ID, "date", session.SessionDate)
	return &session, nil
}

// StopDay closes the workday at end. An entry still running in it is
// stopped at the same time.
func (t *Tracker) StopDay(ctx context.Context, sessionID uint, end time.Time) (*models.Session, error) {
	end = t.civil(end)
	var session *models.Session

	err := t.mutate(ctx, func(tx *gorm.DB) error {
		var err error
		session, err = loadSession(tx, sessionID)
		if common.IsNotFound(err) {
			return common.NotFound("open session", sessionID)
		}
		if err != nil {
			return err
		}
		if !session.IsOpen() {
			return common.NotFound("open session", sessionID)
		}
		if end.Before(session.StartedAt) {
			return common.Invalid("end", "%s is before the day started at %s",
				parser.FormatClock(end), parser.FormatClock(session.StartedAt))
		}

		var entries []models.Entry
		if err := tx.Where("session_id = ?", session.ID).Find(&entries).Error; err != nil {
			return err
		}
		for i := range entries {
			e := &entries[i]
			if e.IsOpen() {
				if end.Before(e.StartedAt) {
					return common.Invalid("end", "%s is before entry %d started at %s",
						parser.FormatClock(end), e.ID, parser.FormatClock(e.StartedAt))
				}
				e.EndedAt = &end
				if err := t.saveEntry(tx, e); err != nil {
					return err
				}
				t.log.Info(ctx, "entry stopped with day", "entry_id", e.ID)
			}
		}

		session.EndedAt = &end
		if err := checkEntriesWithin(session, entries); err != nil {
			return err
		}
		return t.saveSession(tx, session)
	})
	if err != nil {
		return nil, fmt.Errorf("stop day: %w", err)
	}

	t.log.Info(ctx, "day stopped", "session_id", session.ID, "total_hours", *session.TotalHours)
	return session, nil
}

// EditSession rewrites the span and notes of a workday
func (t *Tracker) EditSession(ctx context.Context, id uint, edit SessionEdit) (*models.Session, error) {
	start := t.civil(edit.Start)
	end := t.civilPtr(edit.End)
	if end != nil && end.Before(start) {
		return nil, common.Invalid("end", "%s is before start %s", parser.FormatClock(*end), parser.FormatClock(start))
	}

	var session *models.Session
	err := t.mutate(ctx, func(tx *gorm.DB) error {
		var err error
		session, err = loadSession(tx, id)
		if err != nil {
			return err
		}

		date := parser.DateKey(start, t.loc)
		var clash int64
		if err := tx.Model(&models.Session{}).Where("session_date = ? AND id <> ?", date, id).Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return common.Conflict("day %s already has a session", date)
		}

		if end == nil {
			open, err := findOpenSession(tx)
			if err != nil {
				return err
			}
			if open != nil && open.ID != id {
				return common.Conflict("day %s is still running", open.SessionDate)
			}
		}

		var entries []models.Entry
		if err := tx.Where("session_id = ?", id).Find(&entries).Error; err != nil {
			return err
		}

		session.StartedAt = start
		session.EndedAt = end
		if edit.Notes != nil {
			session.Notes = *edit.Notes
		}
		if err := checkEntriesWithin(session, entries); err != nil {
			return err
		}
		return t.saveSession(tx, session)
	})
	if err != nil {
		return nil, fmt.Errorf("edit session: %w", err)
	}

	t.log.Info(ctx, "session edited", "session_id", id)
	return session, nil
}

// ManualSession records a workday after the fact. A nil end leaves it open.
func (t *Tracker) ManualSession(ctx context.Context, start time.Time, end *time.Time, notes string) (*models.Session, error) {
	start = t.civil(start)
	end = t.civilPtr(end)
	if end != nil && end.Before(start) {
		return nil, common.Invalid("end", "%s is before start %s", parser.FormatClock(*end), parser.FormatClock(start))
	}

	session := models.Session{StartedAt: start, EndedAt: end, Notes: notes}
	date := parser.DateKey(start, t.loc)

	err := t.mutate(ctx, func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Session{}).Where("session_date = ?", date).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return common.Conflict("day %s already has a session", date)
		}

		if end == nil {
			open, err := findOpenSession(tx)
			if err != nil {
				return err
			}
			if open != nil {
				return common.Conflict("day %s is still running", open.SessionDate)
			}
		}

		return t.saveSession(tx, &session)
	})
	if err != nil {
		return nil, fmt.Errorf("add session: %w", err)
	}

	t.log.Info(ctx, "session added", "session_id", session.ID, "date", session.SessionDate)
	return &session, nil
}

// DeleteSession removes a workday together with its entries
func (t *Tracker) DeleteSession(ctx context.Context, id uint) error {
	err := t.mutate(ctx, func(tx *gorm.DB) error {
		if _, err := loadSession(tx, id); err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", id).Delete(&models.Entry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Session{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	t.log.Info(ctx, "session deleted", "session_id", id)
	return nil
}

// ActiveSession returns the running workday, or nil when there is none
func (t *Tracker) ActiveSession(ctx context.Context) (*models.Session, error) {
	return findOpenSession(t.read(ctx))
}

// GetSession retrieves a workday by ID
func (t *Tracker) GetSession(ctx context.Context, id uint) (*models.Session, error) {
	return loadSession(t.read(ctx), id)
}

// SessionOn returns the workday dated day
func (t *Tracker) SessionOn(ctx context.Context, day time.Time) (*models.Session, error) {
	date := parser.DayKey(day)
	var session models.Session
	err := t.read(ctx).Where("session_date = ?", date).Take(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NotFound("session", date)
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions returns the workdays dated within [from, to], oldest first
func (t *Tracker) ListSessions(ctx context.Context, from, to time.Time) ([]models.Session, error) {
	fromKey, toKey := parser.DayKey(from), parser.DayKey(to)
	if fromKey > toKey {
		return nil, common.Invalid("range", "%s is after %s", fromKey, toKey)
	}

	var sessions []models.Session
	err := t.read(ctx).
		Where("session_date BETWEEN ? AND ?", fromKey, toKey).
		Order("session_date ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// AllSessions returns every workday, oldest first
func (t *Tracker) AllSessions(ctx context.Context) ([]models.Session, error) {
	var sessions []models.Session
	if err := t.read(ctx).Order("session_date ASC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// checkEntriesWithin rejects a session span that leaves any entry outside
func checkEntriesWithin(session *models.Session, entries []models.Entry) error {
	for _, e := range entries {
		if !session.Covers(e.StartedAt) {
			return common.Invalid("span", "entry %d starts at %s, outside the day", e.ID, e.StartedAt.Format(time.DateTime))
		}
		if e.EndedAt == nil {
			if !session.IsOpen() {
				return common.Invalid("span", "entry %d is still running", e.ID)
			}
			continue
		}
		if !session.Covers(*e.EndedAt) {
			return common.Invalid("span", "entry %d ends at %s, outside the day", e.ID, e.EndedAt.Format(time.DateTime))
		}
	}
	return nil
}
