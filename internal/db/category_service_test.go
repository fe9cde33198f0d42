package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/daylog/internal/common"
)

func TestCreateCategory(t *testing.T) {
	f := newFixture(t)

	category, err := f.tracker.CreateCategory(f.ctx, " Research ")
	require.NoError(t, err)
	assert.Equal(t, "Research", category.Name)
	assert.True(t, category.Active)

	_, err = f.tracker.CreateCategory(f.ctx, "Research")
	require.True(t, common.IsConflict(err), "got %v", err)

	// Exact match only
	_, err = f.tracker.CreateCategory(f.ctx, "research")
	require.NoError(t, err)

	_, err = f.tracker.CreateCategory(f.ctx, "  ")
	require.True(t, common.IsValidation(err), "got %v", err)
}

func TestRenameCategory_UpdatesHistory(t *testing.T) {
	f := newFixture(t)

	first, err := f.tracker.ManualSession(f.ctx, at("2023-12-28", 9, 0), ptr(at("2023-12-28", 17, 0)), "")
	require.NoError(t, err)
	second, err := f.tracker.ManualSession(f.ctx, at("2023-12-29", 9, 0), ptr(at("2023-12-29", 17, 0)), "")
	require.NoError(t, err)

	a, err := f.tracker.ManualEntry(f.ctx, first.ID, "Ads", "Marketing", at("2023-12-28", 9, 0), at("2023-12-28", 10, 0))
	require.NoError(t, err)
	b, err := f.tracker.ManualEntry(f.ctx, second.ID, "Post", "Marketing", at("2023-12-29", 9, 0), at("2023-12-29", 10, 0))
	require.NoError(t, err)
	c, err := f.tracker.ManualEntry(f.ctx, second.ID, "Build", "Programming", at("2023-12-29", 10, 0), at("2023-12-29", 11, 0))
	require.NoError(t, err)

	renamed, err := f.tracker.RenameCategory(f.ctx, "Marketing", "Growth")
	require.NoError(t, err)
	assert.Equal(t, "Growth", renamed.Name)

	for _, id := range []uint{a.ID, b.ID} {
		e, err := f.tracker.GetEntry(f.ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Growth", e.Category)
	}
	untouched, err := f.tracker.GetEntry(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Programming", untouched.Category)

	names, err := f.tracker.Categories(f.ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Growth", "Meetings", "Programming"}, names)

	session := startedDay(t, f)
	_, err = f.tracker.StartEntry(f.ctx, session.ID, "Ads", "Marketing")
	require.True(t, common.IsValidation(err), "got %v", err)
	_, err = f.tracker.StartEntry(f.ctx, session.ID, "Ads", "Growth")
	require.NoError(t, err)
}

func TestRenameCategory_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.RenameCategory(f.ctx, "Sales", "Revenue")
	require.True(t, common.IsNotFound(err), "got %v", err)

	_, err = f.tracker.RenameCategory(f.ctx, "Marketing", "Meetings")
	require.True(t, common.IsConflict(err), "got %v", err)

	// Inactive names are still taken
	require.NoError(t, f.tracker.DeactivateCategory(f.ctx, "Meetings"))
	_, err = f.tracker.RenameCategory(f.ctx, "Marketing", "Meetings")
	require.True(t, common.IsConflict(err), "got %v", err)

	_, err = f.tracker.RenameCategory(f.ctx, "Marketing", "")
	require.True(t, common.IsValidation(err), "got %v", err)

	same, err := f.tracker.RenameCategory(f.ctx, "Marketing", "Marketing")
	require.NoError(t, err)
	assert.Equal(t, "Marketing", same.Name)
}

func TestRenameCategory_TrimsBothNames(t *testing.T) {
	f := newFixture(t)

	session, err := f.tracker.ManualSession(f.ctx, at("2023-12-28", 9, 0), ptr(at("2023-12-28", 17, 0)), "")
	require.NoError(t, err)
	entry, err := f.tracker.ManualEntry(f.ctx, session.ID, "Standup", "Meetings", at("2023-12-28", 9, 0), at("2023-12-28", 9, 15))
	require.NoError(t, err)

	renamed, err := f.tracker.RenameCategory(f.ctx, " Meetings ", " Calls")
	require.NoError(t, err)
	assert.Equal(t, "Calls", renamed.Name)

	moved, err := f.tracker.GetEntry(f.ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Calls", moved.Category)

	same, err := f.tracker.RenameCategory(f.ctx, "Calls ", "Calls")
	require.NoError(t, err)
	assert.Equal(t, "Calls", same.Name)
}

func TestDeactivateCategory_KeepsEntries(t *testing.T) {
	f := newFixture(t)
	session := startedDay(t, f)

	entry, err := f.tracker.ManualEntry(f.ctx, session.ID, "Standup", "Meetings", at("2024-01-01", 8, 0), at("2024-01-01", 8, 15))
	require.NoError(t, err)

	require.NoError(t, f.tracker.DeactivateCategory(f.ctx, "Meetings"))

	active, err := f.tracker.Categories(f.ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Marketing", "Programming"}, active)

	all, err := f.tracker.Categories(f.ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Marketing", "Meetings", "Programming"}, all)

	stored, err := f.tracker.GetEntry(f.ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Meetings", stored.Category)

	require.NoError(t, f.tracker.ActivateCategory(f.ctx, "Meetings"))
	active, err = f.tracker.Categories(f.ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 3)

	err = f.tracker.DeactivateCategory(f.ctx, "Sales")
	require.True(t, common.IsNotFound(err), "got %v", err)
}
