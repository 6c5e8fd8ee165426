// Package store persists workspace records in SQLite and implements the
// per-domain storage interfaces the tool packages consume.
//
// Every row is scoped by user id; all lookups filter on it, so one user's
// records are invisible to another even at the storage layer.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"

	"dayflow/internal/workspace"
)

// ErrNotFound is returned when an id does not exist for the given user.
var ErrNotFound = errors.New("record not found")

// Store is the SQLite-backed workspace database.
type Store struct {
	db *sql.DB
}

// Open initializes the SQLite database at the given path. ":memory:" is
// accepted for tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calendar_events (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		date TEXT NOT NULL DEFAULT '',
		time TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_events_user ON calendar_events(user_id);
	CREATE INDEX IF NOT EXISTS idx_events_date ON calendar_events(user_id, date);

	CREATE TABLE IF NOT EXISTS kanban_cards (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		col TEXT NOT NULL DEFAULT 'todo',
		due_date TEXT NOT NULL DEFAULT '',
		linked_event_id TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_cards_user ON kanban_cards(user_id);

	CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		linked_event_id TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_notes_user ON notes(user_id);

	CREATE TABLE IF NOT EXISTS daily_items (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		date TEXT NOT NULL DEFAULT '',
		done INTEGER NOT NULL DEFAULT 0,
		linked_event_id TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_daily_user ON daily_items(user_id);
	CREATE INDEX IF NOT EXISTS idx_daily_date ON daily_items(user_id, date);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Snapshot assembles the full workspace state for one user.
func (s *Store) Snapshot(ctx context.Context, userID string) (workspace.Snapshot, error) {
	var snap workspace.Snapshot
	var err error

	if snap.Events, err = s.ListEvents(ctx, userID); err != nil {
		return workspace.Snapshot{}, err
	}
	if snap.Cards, err = s.ListCards(ctx, userID); err != nil {
		return workspace.Snapshot{}, err
	}
	if snap.Notes, err = s.ListNotes(ctx, userID); err != nil {
		return workspace.Snapshot{}, err
	}
	if snap.DailyItems, err = s.ListItems(ctx, userID); err != nil {
		return workspace.Snapshot{}, err
	}
	return snap, nil
}

// affectOne runs a user-scoped statement and maps zero affected rows to
// ErrNotFound.
func (s *Store) affectOne(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}
