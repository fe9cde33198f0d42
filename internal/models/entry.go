package models

import (
	"time"
)

// Entry represents one project activity interval inside a session
type Entry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SessionID     uint       `gorm:"not null;index" json:"session_id"`
	Project       string     `gorm:"not null" json:"project"`
	Category      string     `gorm:"not null;index" json:"category"`
	StartedAt     time.Time  `gorm:"not null;serializer:civiltime" json:"started_at"`
	EndedAt       *time.Time `gorm:"serializer:civiltime" json:"ended_at"`
	EntryDate     string     `gorm:"size:10;not null;index" json:"entry_date"` // civil date of StartedAt
	DurationHours *float64   `json:"duration_hours"`                          // calculated field
}

// IsOpen reports whether the entry is still being tracked
func (e Entry) IsOpen() bool {
	return e.EndedAt == nil
}
