package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/daylog/internal/models"
)

func TestDiagnose_CleanDatabase(t *testing.T) {
	f := newFixture(t)

	session, err := f.tracker.ManualSession(f.ctx, at("2023-12-31", 9, 0), ptr(at("2023-12-31", 17, 0)), "")
	require.NoError(t, err)
	_, err = f.tracker.ManualEntry(f.ctx, session.ID, "Build login", "Programming", at("2023-12-31", 9, 0), at("2023-12-31", 11, 0))
	require.NoError(t, err)

	problems, err := f.tracker.Diagnose(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestDiagnose_FindsBrokenRows(t *testing.T) {
	f := newFixture(t)

	session, err := f.tracker.ManualSession(f.ctx, at("2023-12-31", 9, 0), ptr(at("2023-12-31", 12, 0)), "")
	require.NoError(t, err)

	// Rows written behind the tracker's back
	outside := models.Entry{
		SessionID: session.ID, Project: "Late", Category: "Programming",
		StartedAt: at("2023-12-31", 13, 0), EndedAt: ptr(at("2023-12-31", 14, 0)), EntryDate: "2023-12-31",
	}
	require.NoError(t, f.db.Create(&outside).Error)
	orphan := models.Entry{
		SessionID: 999, Project: "Ghost", Category: "Sales",
		StartedAt: at("2023-12-31", 9, 0), EndedAt: ptr(at("2023-12-31", 10, 0)), EntryDate: "2023-12-31",
	}
	require.NoError(t, f.db.Exec("PRAGMA foreign_keys = OFF").Error)
	require.NoError(t, f.db.Create(&orphan).Error)

	problems, err := f.tracker.Diagnose(f.ctx)
	require.NoError(t, err)

	var messages []string
	for _, p := range problems {
		messages = append(messages, p.String())
	}
	assert.Contains(t, messages, "entry #1: outside workday #1")
	assert.Contains(t, messages, `entry #2: unknown category "Sales"`)
	assert.Contains(t, messages, "entry #2: workday #999 does not exist")
}
