package db

import (
	"context"
	"fmt"

	"github.com/balkashynov/daylog/internal/models"
)

// Problem is an inconsistency found in stored data
type Problem struct {
	Kind    string `json:"kind"` // session, entry
	ID      uint   `json:"id"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s #%d: %s", p.Kind, p.ID, p.Message)
}

// Diagnose reports rows that break the tracking rules: more than one running
// workday or entry, entries outside their workday, and entries whose
// workday or category is gone. It changes nothing.
func (t *Tracker) Diagnose(ctx context.Context) ([]Problem, error) {
	var sessions []models.Session
	if err := t.read(ctx).Order("id").Find(&sessions).Error; err != nil {
		return nil, err
	}
	var entries []models.Entry
	if err := t.read(ctx).Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	var categories []models.Category
	if err := t.read(ctx).Find(&categories).Error; err != nil {
		return nil, err
	}

	problems := []Problem{}

	byID := make(map[uint]models.Session, len(sessions))
	var openSessions []uint
	for _, s := range sessions {
		byID[s.ID] = s
		if s.EndedAt != nil && s.EndedAt.Before(s.StartedAt) {
			problems = append(problems, Problem{"session", s.ID, "ends before it starts"})
		}
		if s.IsOpen() {
			openSessions = append(openSessions, s.ID)
		}
	}
	if len(openSessions) > 1 {
		for _, id := range openSessions[1:] {
			problems = append(problems, Problem{"session", id, fmt.Sprintf("running alongside session #%d", openSessions[0])})
		}
	}

	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.Name] = true
	}

	var openEntry uint
	for _, e := range entries {
		if e.EndedAt != nil && e.EndedAt.Before(e.StartedAt) {
			problems = append(problems, Problem{"entry", e.ID, "ends before it starts"})
		}
		if !known[e.Category] {
			problems = append(problems, Problem{"entry", e.ID, fmt.Sprintf("unknown category %q", e.Category)})
		}
		if e.IsOpen() {
			if openEntry != 0 {
				problems = append(problems, Problem{"entry", e.ID, fmt.Sprintf("running alongside entry #%d", openEntry)})
			} else {
				openEntry = e.ID
			}
		}

		session, ok := byID[e.SessionID]
		if !ok {
			problems = append(problems, Problem{"entry", e.ID, fmt.Sprintf("workday #%d does not exist", e.SessionID)})
			continue
		}
		if err := checkEntriesWithin(&session, []models.Entry{e}); err != nil {
			problems = append(problems, Problem{"entry", e.ID, fmt.Sprintf("outside workday #%d", session.ID)})
		}
	}

	if len(problems) > 0 {
		t.log.Warn(ctx, "data problems found", "count", len(problems))
	}
	return problems, nil
}
