// Package pending holds proposed mutating tool calls awaiting explicit user
// confirmation.
//
// The store is process-local and disposable: proposals expire after a fixed
// TTL, swept lazily on access rather than by a background timer. A proposal
// is resolvable only by the user that created it; for anyone else a lookup
// behaves exactly like "not found".
package pending

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a proposal stays confirmable.
const DefaultTTL = 15 * time.Minute

// Proposal describes one mutating tool call awaiting confirmation. The owning
// user id is kept inside the store and never leaves it.
type Proposal struct {
	ID        string         `json:"id"`
	ToolName  string         `json:"toolName"`
	Arguments map[string]any `json:"arguments"`
	Summary   string         `json:"summary"`
	CreatedAt time.Time      `json:"createdAt"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

type entry struct {
	proposal Proposal
	userID   string
}

// Store is the ephemeral proposal store. Safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	items map[string]entry
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock injects a clock, for TTL testing.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithTTL overrides the proposal lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// NewStore creates an empty proposal store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		items: make(map[string]entry),
		ttl:   DefaultTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new proposal owned by userID and returns a client-safe
// copy.
func (s *Store) Create(userID, toolName string, args map[string]any, summary string) Proposal {
	now := s.now()
	p := Proposal{
		ID:        uuid.NewString(),
		ToolName:  toolName,
		Arguments: copyArgs(args),
		Summary:   summary,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
	s.items[p.ID] = entry{proposal: p, userID: userID}
	return p
}

// Get returns the proposal if it exists, has not expired, and is owned by
// userID. Expired, foreign and unknown ids are indistinguishable.
func (s *Store) Get(id, userID string) (Proposal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(s.now())

	e, ok := s.items[id]
	if !ok || e.userID != userID {
		return Proposal{}, false
	}
	return e.proposal, true
}

// Take atomically looks up and removes a proposal in one critical section, so
// two concurrent resolutions of the same id can never both succeed. Ownership
// and expiry rules match Get.
func (s *Store) Take(id, userID string) (Proposal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(s.now())

	e, ok := s.items[id]
	if !ok || e.userID != userID {
		return Proposal{}, false
	}
	delete(s.items, id)
	return e.proposal, true
}

// Remove unconditionally deletes a proposal. Removing an id that is already
// gone is a no-op, which makes duplicate resolution requests read as "not
// found" rather than errors.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

// Len reports the number of live entries, including not-yet-swept expired
// ones.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// sweepLocked drops every expired entry. Callers hold s.mu.
func (s *Store) sweepLocked(now time.Time) {
	for id, e := range s.items {
		if !e.proposal.ExpiresAt.After(now) {
			delete(s.items, id)
		}
	}
}

func copyArgs(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	return out
}
