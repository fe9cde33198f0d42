package models

// Category classifies entries. Entries reference it by name.
type Category struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	Name   string `gorm:"uniqueIndex;not null" json:"name"`
	Active bool   `gorm:"not null" json:"active"`
}

// DefaultCategories are seeded into an empty database
var DefaultCategories = []string{"Programming", "Meetings", "Marketing"}
