package models

import (
	"time"
)

// Session represents one workday
type Session struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SessionDate string     `gorm:"size:10;not null;uniqueIndex" json:"session_date"` // civil YYYY-MM-DD
	StartedAt   time.Time  `gorm:"not null;serializer:civiltime" json:"started_at"`
	EndedAt     *time.Time `gorm:"serializer:civiltime" json:"ended_at"`
	TotalHours  *float64   `json:"total_hours"` // calculated field
	Notes       string     `json:"notes"`

	// Relationships
	Entries []Entry `gorm:"foreignKey:SessionID" json:"-"`
}

// IsOpen reports whether the workday is still running
func (s Session) IsOpen() bool {
	return s.EndedAt == nil
}

// Covers reports whether t falls inside the session span. An open session
// has no upper bound.
func (s Session) Covers(t time.Time) bool {
	if t.Before(s.StartedAt) {
		return false
	}
	return s.EndedAt == nil || !t.After(*s.EndedAt)
}
