// Package session keeps the bounded, process-local conversation trail: a
// per-session list of domain events and a global action log.
//
// Both structures are capped with oldest-first eviction, never persisted, and
// reset on process restart. Construction and teardown are explicit so tests
// control the lifecycle.
package session

import (
	"sync"
	"time"

	"dayflow/internal/tools"
)

// Caps for the bounded structures.
const (
	DefaultMaxSessionEvents = 200
	DefaultMaxActions       = 500
)

// EventKind classifies a domain event.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
	EventDeleted EventKind = "deleted"
	EventLinked  EventKind = "linked"
)

// DomainEvent is one entry of a session's event list.
type DomainEvent struct {
	Kind     EventKind `json:"kind"`
	ItemType string    `json:"itemType"`
	ItemID   string    `json:"itemId"`
	At       time.Time `json:"at"`
}

// ActionRecord is one entry of the global action log.
type ActionRecord struct {
	SessionID string         `json:"sessionId"`
	ToolName  string         `json:"toolName"`
	Args      map[string]any `json:"args"`
	Result    tools.Result   `json:"result"`
	CreatedAt time.Time      `json:"createdAt"`
}

type sessionContext struct {
	sessionID string
	userID    string
	startedAt time.Time
	events    []DomainEvent
}

// Trail owns the session contexts and the action log. Safe for concurrent
// use across all requests.
type Trail struct {
	mu         sync.Mutex
	sessions   map[string]*sessionContext
	actions    []ActionRecord
	maxEvents  int
	maxActions int
	now        func() time.Time
}

// Option configures a Trail.
type Option func(*Trail)

// WithClock injects a clock for deterministic timestamps in tests.
func WithClock(now func() time.Time) Option {
	return func(t *Trail) { t.now = now }
}

// WithCaps overrides the bounded-list capacities.
func WithCaps(maxEvents, maxActions int) Option {
	return func(t *Trail) {
		t.maxEvents = maxEvents
		t.maxActions = maxActions
	}
}

// NewTrail creates an empty trail.
func NewTrail(opts ...Option) *Trail {
	t := &Trail{
		sessions:   make(map[string]*sessionContext),
		maxEvents:  DefaultMaxSessionEvents,
		maxActions: DefaultMaxActions,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RecordEvent appends a domain event to the session's bounded list, creating
// the session context on first use. The oldest entry is dropped at capacity.
func (t *Trail) RecordEvent(sessionID, userID string, kind EventKind, itemType, itemID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sc, ok := t.sessions[sessionID]
	if !ok {
		sc = &sessionContext{sessionID: sessionID, userID: userID, startedAt: t.now()}
		t.sessions[sessionID] = sc
	}

	sc.events = append(sc.events, DomainEvent{Kind: kind, ItemType: itemType, ItemID: itemID, At: t.now()})
	if len(sc.events) > t.maxEvents {
		sc.events = sc.events[len(sc.events)-t.maxEvents:]
	}
}

// Events returns a copy of the session's event list, oldest first.
func (t *Trail) Events(sessionID string) []DomainEvent {
	t.mu.Lock()
	defer t.mu.Unlock()

	sc, ok := t.sessions[sessionID]
	if !ok {
		return nil
	}
	out := make([]DomainEvent, len(sc.events))
	copy(out, sc.events)
	return out
}

// StartedAt returns when a session context was first seen.
func (t *Trail) StartedAt(sessionID string) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sc, ok := t.sessions[sessionID]
	if !ok {
		return time.Time{}, false
	}
	return sc.startedAt, true
}

// RecordAction appends to the global action log, evicting the oldest record
// at capacity.
func (t *Trail) RecordAction(sessionID, toolName string, args map[string]any, result tools.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.actions = append(t.actions, ActionRecord{
		SessionID: sessionID,
		ToolName:  toolName,
		Args:      args,
		Result:    result,
		CreatedAt: t.now(),
	})
	if len(t.actions) > t.maxActions {
		t.actions = t.actions[len(t.actions)-t.maxActions:]
	}
}

// Actions returns a copy of the whole action log, oldest first.
func (t *Trail) Actions() []ActionRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]ActionRecord, len(t.actions))
	copy(out, t.actions)
	return out
}

// ActionsBySession filters the action log by session id.
func (t *Trail) ActionsBySession(sessionID string) []ActionRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []ActionRecord
	for _, a := range t.actions {
		if a.SessionID == sessionID {
			out = append(out, a)
		}
	}
	return out
}

// Reset drops all sessions and actions. Intended for tests and process
// shutdown paths.
func (t *Trail) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions = make(map[string]*sessionContext)
	t.actions = nil
}
