// Package db owns persistence and the workday/entry engine on top of it.
// Every mutation runs validate, mutate, recalculate and persist inside one
// transaction; open sessions and entries are always found by querying for a
// NULL end, never cached.
package db

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/daylog/internal/common"
	"github.com/balkashynov/daylog/internal/logging"
	"github.com/balkashynov/daylog/internal/models"
)

// Tracker is the engine behind every CLI and TUI action
type Tracker struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
	log logging.Logger

	// serializes check-then-write sequences
	mu sync.Mutex
}

// Option configures a Tracker
type Option func(*Tracker)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLocation sets the civil timezone all timestamps are recorded in
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) { t.loc = loc }
}

// WithLogger sets the structured logger
func WithLogger(l logging.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// NewTracker wraps an opened database
func NewTracker(db *gorm.DB, opts ...Option) *Tracker {
	t := &Tracker{
		db:  db,
		loc: time.Local,
		now: time.Now,
		log: logging.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Location returns the civil timezone
func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Now returns the current time in the civil timezone, whole seconds
func (t *Tracker) Now() time.Time {
	return t.civil(t.now())
}

// Today returns midnight of the current civil date
func (t *Tracker) Today() time.Time {
	y, m, d := t.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.loc)
}

// civil normalizes a timestamp before it is stored
func (t *Tracker) civil(ts time.Time) time.Time {
	return ts.In(t.loc).Truncate(time.Second)
}

func (t *Tracker) civilPtr(ts *time.Time) *time.Time {
	if ts == nil {
		return nil
	}
	c := t.civil(*ts)
	return &c
}

// mutate runs fn as one serialized transaction
func (t *Tracker) mutate(ctx context.Context, fn func(tx *gorm.DB) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.db.WithContext(ctx).Transaction(fn)
}

// read returns a context-bound handle for queries
func (t *Tracker) read(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx)
}

func loadSession(tx *gorm.DB, id uint) (*models.Session, error) {
	var session models.Session
	if err := tx.First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("session", id)
		}
		return nil, err
	}
	return &session, nil
}

func loadEntry(tx *gorm.DB, id uint) (*models.Entry, error) {
	var entry models.Entry
	if err := tx.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("entry", id)
		}
		return nil, err
	}
	return &entry, nil
}

// findOpenSession returns the running session, if any
func findOpenSession(tx *gorm.DB) (*models.Session, error) {
	var sessions []models.Session
	if err := tx.Where("ended_at IS NULL").Order("id DESC").Limit(1).Find(&sessions).Error; err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

// findOpenEntry returns the running entry anywhere in the dataset, if any
func findOpenEntry(tx *gorm.DB) (*models.Entry, error) {
	var entries []models.Entry
	if err := tx.Where("ended_at IS NULL").Order("id DESC").Limit(1).Find(&entries).Error; err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}
