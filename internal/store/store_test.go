package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayflow/internal/workspace"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCalendarCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ev, err := s.CreateEvent(ctx, "u1", workspace.CalendarEvent{Title: "Demo", Date: "2026-09-01", Time: "10:00"})
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)

	ev.Title = "Demo day"
	_, err = s.UpdateEvent(ctx, "u1", ev)
	require.NoError(t, err)

	list, err := s.ListEvents(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Demo day", list[0].Title)

	require.NoError(t, s.DeleteEvent(ctx, "u1", ev.ID))
	list, err = s.ListEvents(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUserScoping(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	n, err := s.CreateNote(ctx, "u1", workspace.Note{Title: "Mine"})
	require.NoError(t, err)

	other, err := s.ListNotes(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other, "another user's notes must be invisible")

	// Foreign delete and update read as not-found.
	assert.ErrorIs(t, s.DeleteNote(ctx, "u2", n.ID), ErrNotFound)
	_, err = s.UpdateNote(ctx, "u2", n)
	assert.ErrorIs(t, err, ErrNotFound)

	mine, err := s.ListNotes(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestUpdateMissingIsNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.UpdateEvent(ctx, "u1", workspace.CalendarEvent{ID: "missing", Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.RemoveItem(ctx, "u1", "missing"), ErrNotFound)
}

func TestKanbanMove(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCard(ctx, "u1", workspace.KanbanCard{Title: "Ship it"})
	require.NoError(t, err)
	assert.Equal(t, "todo", c.Column, "column defaults to todo")

	moved, err := s.MoveCard(ctx, "u1", c.ID, "doing")
	require.NoError(t, err)
	assert.Equal(t, "doing", moved.Column)
	assert.Equal(t, "Ship it", moved.Title)
}

func TestDailyToggle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	item, err := s.AddItem(ctx, "u1", workspace.DailyItem{Title: "Stretch", Date: "2026-08-30"})
	require.NoError(t, err)
	assert.False(t, item.Done)

	toggled, err := s.ToggleItem(ctx, "u1", item.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Done)

	toggled, err = s.ToggleItem(ctx, "u1", item.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Done)
}

func TestGeneratePlan(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.CreateEvent(ctx, "u1", workspace.CalendarEvent{Title: "Standup", Date: "2026-08-30", Time: "09:00"})
	require.NoError(t, err)
	_, err = s.CreateEvent(ctx, "u1", workspace.CalendarEvent{Title: "Retro", Date: "2026-08-30", Time: "16:00"})
	require.NoError(t, err)
	_, err = s.CreateEvent(ctx, "u1", workspace.CalendarEvent{Title: "Other day", Date: "2026-09-02"})
	require.NoError(t, err)

	items, err := s.GeneratePlan(ctx, "u1", "2026-08-30")
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, "2026-08-30", it.Date)
		assert.NotEmpty(t, it.LinkedEventID)
	}

	// Regeneration does not duplicate linked items.
	again, err := s.GeneratePlan(ctx, "u1", "2026-08-30")
	require.NoError(t, err)
	assert.Len(t, again, 2)
}

func TestSnapshotAssemblesAllDomains(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ev, err := s.CreateEvent(ctx, "u1", workspace.CalendarEvent{Title: "Kickoff", Date: "2026-09-01"})
	require.NoError(t, err)
	_, err = s.CreateCard(ctx, "u1", workspace.KanbanCard{Title: "Prep deck", LinkedEventID: ev.ID})
	require.NoError(t, err)
	_, err = s.CreateNote(ctx, "u1", workspace.Note{Title: "Agenda", LinkedEventID: ev.ID})
	require.NoError(t, err)
	_, err = s.AddItem(ctx, "u1", workspace.DailyItem{Title: "Pack laptop", Date: "2026-09-01"})
	require.NoError(t, err)

	snap, err := s.Snapshot(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, snap.Events, 1)
	assert.Len(t, snap.Cards, 1)
	assert.Len(t, snap.Notes, 1)
	assert.Len(t, snap.DailyItems, 1)
	assert.False(t, snap.Empty())
}
