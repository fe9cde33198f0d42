package db

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/daylog/internal/common"
	"github.com/balkashynov/daylog/internal/models"
	"github.com/balkashynov/daylog/internal/parser"
)

// EntryEdit holds the admin changes for an entry. Nil fields stay as they
// are, except End: a nil End reopens the entry.
type EntryEdit struct {
	Start    time.Time
	End      *time.Time
	Project  *string
	Category *string
}

// StatusInfo is what the status line and tracker screen render
type StatusInfo struct {
	Now          time.Time
	Session      *models.Session
	Entry        *models.Entry
	SessionHours float64 // elapsed so far, or the total once stopped
	EntryHours   float64
	Today        []models.Entry
}

// StartEntry begins tracking project in the running session
func (t *Tracker) StartEntry(ctx context.Context, sessionID uint, project, category string) (*models.Entry, error) {
	project = strings.TrimSpace(project)
	category = strings.TrimSpace(category)
	if project == "" {
		return nil, common.Invalid("project", "must not be empty")
	}

	entry := models.Entry{
		SessionID: sessionID,
		Project:   project,
		Category:  category,
		StartedAt: t.Now(),
	}

	err := t.mutate(ctx, func(tx *gorm.DB) error {
		session, err := loadSession(tx, sessionID)
		if err != nil {
			return err
		}
		if !session.IsOpen() {
			return common.Conflict("day %s is already stopped", session.SessionDate)
		}

		open, err := findOpenEntry(tx)
		if err != nil {
			return err
		}
		if open != nil {
			return common.Conflict("entry %d (%s) is still running, stop it first", open.ID, open.Project)
		}

		if err := requireActiveCategory(tx, category); err != nil {
			return err
		}
		return t.saveEntry(tx, &entry)
	})
	if err != nil {
		return nil, fmt.Errorf("start entry: %w", err)
	}

	t.log.Info(ctx, "entry started", "entry_id", entry.ID, "session_id", sessionID, "project", project, "category", category)
	return &entry, nil
}

// StopEntry closes a running entry at end
func (t *Tracker) StopEntry(ctx context.Context, entryID uint, end time.Time) (*models.Entry, error) {
	end = t.civil(end)
	var entry *models.Entry

	err := t.mutate(ctx, func(tx *gorm.DB) error {
		var err error
		entry, err = loadEntry(tx, entryID)
		if err != nil {
			return err
		}
		if !entry.IsOpen() {
			return common.Conflict("entry %d is already stopped", entryID)
		}
		if end.Before(entry.StartedAt) {
			return common.Invalid("end", "%s is before the entry started at %s",
				parser.FormatClock(end), parser.FormatClock(entry.StartedAt))
		}

		session, err := loadSession(tx, entry.SessionID)
		if err != nil {
			return err
		}
		if !session.Covers(end) {
			return common.Invalid("end", "%s is after the day ended", parser.FormatClock(end))
		}

		entry.EndedAt = &end
		return t.saveEntry(tx, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("stop entry: %w", err)
	}

	t.log.Info(ctx, "entry stopped", "entry_id", entry.ID, "hours", *entry.DurationHours)
	return entry, nil
}

// EditEntry rewrites an entry
func (t *Tracker) EditEntry(ctx context.Context, id uint, edit EntryEdit) (*models.Entry, error) {
	start := t.civil(edit.Start)
	end := t.civilPtr(edit.End)
	if end != nil && end.Before(start) {
		return nil, common.Invalid("end", "%s is before start %s", parser.FormatClock(*end), parser.FormatClock(start))
	}

	var entry *models.Entry
	err := t.mutate(ctx, func(tx *gorm.DB) error {
		var err error
		entry, err = loadEntry(tx, id)
		if err != nil {
			return err
		}

		if edit.Project != nil {
			project := strings.TrimSpace(*edit.Project)
			if project == "" {
				return common.Invalid("project", "must not be empty")
			}
			entry.Project = project
		}
		// Entries may keep a category that was retired after they were logged
		if edit.Category != nil && strings.TrimSpace(*edit.Category) != entry.Category {
			category := strings.TrimSpace(*edit.Category)
			if err := requireActiveCategory(tx, category); err != nil {
				return err
			}
			entry.Category = category
		}

		session, err := loadSession(tx, entry.SessionID)
		if err != nil {
			return err
		}
		if end == nil {
			if !session.IsOpen() {
				return common.Conflict("day %s is stopped, an entry in it cannot run", session.SessionDate)
			}
			open, err := findOpenEntry(tx)
			if err != nil {
				return err
			}
			if open != nil && open.ID != id {
				return common.Conflict("entry %d (%s) is still running", open.ID, open.Project)
			}
		}
		if err := checkWithinSession(session, start, end); err != nil {
			return err
		}

		entry.StartedAt = start
		entry.EndedAt = end
		return t.saveEntry(tx, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("edit entry: %w", err)
	}

	t.log.Info(ctx, "entry edited", "entry_id", id)
	return entry, nil
}

// ManualEntry records a finished entry after the fact
func (t *Tracker) ManualEntry(ctx context.Context, sessionID uint, project, category string, start, end time.Time) (*models.Entry, error) {
	start, end = t.civil(start), t.civil(end)
	project = strings.TrimSpace(project)
	category = strings.TrimSpace(category)
	if project == "" {
		return nil, common.Invalid("project", "must not be empty")
	}
	if end.Before(start) {
		return nil, common.Invalid("end", "%s is before start %s", parser.FormatClock(end), parser.FormatClock(start))
	}

	entry := models.Entry{
		SessionID: sessionID,
		Project:   project,
		Category:  category,
		StartedAt: start,
		EndedAt:   &end,
	}

	err := t.mutate(ctx, func(tx *gorm.DB) error {
		session, err := loadSession(tx, sessionID)
		if err != nil {
			return err
		}
		if err := requireActiveCategory(tx, category); err != nil {
			return err
		}
		if err := checkWithinSession(session, start, &end); err != nil {
			return err
		}
		return t.saveEntry(tx, &entry)
	})
	if err != nil {
		return nil, fmt.Errorf("add entry: %w", err)
	}

	t.log.Info(ctx, "entry added", "entry_id", entry.ID, "session_id", sessionID, "hours", *entry.DurationHours)
	return &entry, nil
}

// DeleteEntry removes an entry
func (t *Tracker) DeleteEntry(ctx context.Context, id uint) error {
	err := t.mutate(ctx, func(tx *gorm.DB) error {
		if _, err := loadEntry(tx, id); err != nil {
			return err
		}
		return tx.Delete(&models.Entry{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	t.log.Info(ctx, "entry deleted", "entry_id", id)
	return nil
}

// ActiveEntry returns the running entry, or nil when there is none
func (t *Tracker) ActiveEntry(ctx context.Context) (*models.Entry, error) {
	return findOpenEntry(t.read(ctx))
}

// GetEntry retrieves an entry by ID
func (t *Tracker) GetEntry(ctx context.Context, id uint) (*models.Entry, error) {
	return loadEntry(t.read(ctx), id)
}

// EntriesOn returns the entries that started on the civil date of day
func (t *Tracker) EntriesOn(ctx context.Context, day time.Time) ([]models.Entry, error) {
	var entries []models.Entry
	if err := t.read(ctx).Where("entry_date = ?", parser.DayKey(day)).Find(&entries).Error; err != nil {
		return nil, err
	}
	sortByStart(entries)
	return entries, nil
}

// EntriesForSession returns the entries of one workday
func (t *Tracker) EntriesForSession(ctx context.Context, sessionID uint) ([]models.Entry, error) {
	if _, err := loadSession(t.read(ctx), sessionID); err != nil {
		return nil, err
	}

	var entries []models.Entry
	if err := t.read(ctx).Where("session_id = ?", sessionID).Find(&entries).Error; err != nil {
		return nil, err
	}
	sortByStart(entries)
	return entries, nil
}

// AllEntries returns every entry, oldest first
func (t *Tracker) AllEntries(ctx context.Context) ([]models.Entry, error) {
	var entries []models.Entry
	if err := t.read(ctx).Find(&entries).Error; err != nil {
		return nil, err
	}
	sortByStart(entries)
	return entries, nil
}

// Status snapshots what is running right now
func (t *Tracker) Status(ctx context.Context) (*StatusInfo, error) {
	now := t.Now()
	info := &StatusInfo{Now: now}

	session, err := t.ActiveSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		// Fall back to today's stopped day, if any
		var sessions []models.Session
		if err := t.read(ctx).Where("session_date = ?", parser.DayKey(now)).Limit(1).Find(&sessions).Error; err != nil {
			return nil, err
		}
		if len(sessions) > 0 {
			session = &sessions[0]
		}
	}
	info.Session = session
	if session != nil {
		info.SessionHours = elapsedHours(session.StartedAt, session.EndedAt, session.TotalHours, now)
	}

	entry, err := t.ActiveEntry(ctx)
	if err != nil {
		return nil, err
	}
	info.Entry = entry
	if entry != nil {
		info.EntryHours = elapsedHours(entry.StartedAt, entry.EndedAt, entry.DurationHours, now)
	}

	info.Today, err = t.EntriesOn(ctx, now)
	if err != nil {
		return nil, err
	}
	return info, nil
}

func elapsedHours(start time.Time, end *time.Time, stored *float64, now time.Time) float64 {
	if end != nil && stored != nil {
		return *stored
	}
	if now.Before(start) {
		return 0
	}
	return now.Sub(start).Hours()
}

// checkWithinSession rejects an entry span that leaves its session
func checkWithinSession(session *models.Session, start time.Time, end *time.Time) error {
	if !session.Covers(start) {
		return common.Invalid("start", "%s is outside day %s", start.Format(time.DateTime), session.SessionDate)
	}
	if end != nil && !session.Covers(*end) {
		return common.Invalid("end", "%s is outside day %s", end.Format(time.DateTime), session.SessionDate)
	}
	return nil
}

// requireActiveCategory fails unless name is a selectable category
func requireActiveCategory(tx *gorm.DB, name string) error {
	if name == "" {
		return common.Invalid("category", "must not be empty")
	}

	var category models.Category
	if err := tx.Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.Invalid("category", "%q does not exist", name)
		}
		return err
	}
	if !category.Active {
		return common.Invalid("category", "%q is inactive", name)
	}
	return nil
}

func sortByStart(entries []models.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].StartedAt.Equal(entries[j].StartedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].StartedAt.Before(entries[j].StartedAt)
	})
}
