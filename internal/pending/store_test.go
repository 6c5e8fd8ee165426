package pending

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore() (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}
	return NewStore(WithClock(clock.Now)), clock
}

func TestCreate_StampsTTL(t *testing.T) {
	store, clock := newTestStore()

	p := store.Create("u1", "notes_create", map[string]any{"title": "Release Plan"}, "Create a note")
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, clock.Now(), p.CreatedAt)
	assert.Equal(t, clock.Now().Add(15*time.Minute), p.ExpiresAt)
}

func TestGet_OwnerOnly(t *testing.T) {
	store, _ := newTestStore()
	p := store.Create("u1", "notes_create", nil, "Create a note")

	got, ok := store.Get(p.ID, "u1")
	require.True(t, ok)
	assert.Equal(t, p.ID, got.ID)

	// A different user sees exactly "not found".
	_, ok = store.Get(p.ID, "u2")
	assert.False(t, ok)

	_, ok = store.Get("never-existed", "u1")
	assert.False(t, ok)
}

func TestRemove_MakesProposalUnretrievable(t *testing.T) {
	store, _ := newTestStore()
	p := store.Create("u1", "notes_create", nil, "Create a note")

	store.Remove(p.ID)
	_, ok := store.Get(p.ID, "u1")
	assert.False(t, ok)

	// Removing again is a no-op, not an error.
	store.Remove(p.ID)
}

func TestTTLExpiry_LazySweep(t *testing.T) {
	store, clock := newTestStore()
	p := store.Create("u1", "notes_create", nil, "Create a note")

	clock.Advance(14 * time.Minute)
	_, ok := store.Get(p.ID, "u1")
	assert.True(t, ok, "still alive before the TTL")

	clock.Advance(2 * time.Minute)
	_, ok = store.Get(p.ID, "u1")
	assert.False(t, ok, "expired without an explicit Remove")
	assert.Zero(t, store.Len(), "sweep removed the stored entry")
}

func TestSweep_RunsOnAnyAccess(t *testing.T) {
	store, clock := newTestStore()
	store.Create("u1", "a", nil, "a")
	store.Create("u1", "b", nil, "b")

	clock.Advance(16 * time.Minute)
	fresh := store.Create("u1", "c", nil, "c")

	assert.Equal(t, 1, store.Len())
	_, ok := store.Get(fresh.ID, "u1")
	assert.True(t, ok)
}

func TestTake_ConsumesExactlyOnce(t *testing.T) {
	store, _ := newTestStore()
	p := store.Create("u1", "notes_create", nil, "Create a note")

	got, ok := store.Take(p.ID, "u1")
	require.True(t, ok)
	assert.Equal(t, "notes_create", got.ToolName)

	_, ok = store.Take(p.ID, "u1")
	assert.False(t, ok, "second take must see not-found")
}

func TestTake_WrongOwnerLeavesProposalIntact(t *testing.T) {
	store, _ := newTestStore()
	p := store.Create("u1", "notes_create", nil, "Create a note")

	_, ok := store.Take(p.ID, "u2")
	assert.False(t, ok)

	_, ok = store.Get(p.ID, "u1")
	assert.True(t, ok, "foreign take must not consume the proposal")
}

func TestTake_ConcurrentResolutionsSingleWinner(t *testing.T) {
	store, _ := newTestStore()
	p := store.Create("u1", "notes_create", nil, "Create a note")

	const attempts = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := store.Take(p.ID, "u1"); ok {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	assert.Equal(t, 1, count, "exactly one concurrent confirm may win")
}

func TestCreate_ArgumentsAreCopied(t *testing.T) {
	store, _ := newTestStore()
	args := map[string]any{"title": "original"}
	p := store.Create("u1", "notes_create", args, "Create a note")

	args["title"] = "mutated"
	got, ok := store.Get(p.ID, "u1")
	require.True(t, ok)
	assert.Equal(t, "original", got.Arguments["title"])
}
