package store

import (
	"context"
	"fmt"

	"dayflow/internal/workspace"
)

// CreateNote inserts a note, assigning an id when absent.
func (s *Store) CreateNote(ctx context.Context, userID string, n workspace.Note) (workspace.Note, error) {
	if n.ID == "" {
		n.ID = newID()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, user_id, title, content, linked_event_id) VALUES (?, ?, ?, ?, ?)`,
		n.ID, userID, n.Title, n.Content, n.LinkedEventID)
	if err != nil {
		return workspace.Note{}, fmt.Errorf("failed to insert note: %w", err)
	}
	return n, nil
}

// UpdateNote overwrites an existing note owned by the user.
func (s *Store) UpdateNote(ctx context.Context, userID string, n workspace.Note) (workspace.Note, error) {
	err := s.affectOne(ctx,
		`UPDATE notes SET title = ?, content = ?, linked_event_id = ? WHERE id = ? AND user_id = ?`,
		n.Title, n.Content, n.LinkedEventID, n.ID, userID)
	if err != nil {
		return workspace.Note{}, err
	}
	return n, nil
}

// DeleteNote removes a note owned by the user.
func (s *Store) DeleteNote(ctx context.Context, userID, id string) error {
	return s.affectOne(ctx,
		`DELETE FROM notes WHERE id = ? AND user_id = ?`, id, userID)
}

// ListNotes returns the user's notes ordered by title.
func (s *Store) ListNotes(ctx context.Context, userID string) ([]workspace.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, linked_event_id FROM notes WHERE user_id = ? ORDER BY title`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var list []workspace.Note
	for rows.Next() {
		var n workspace.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.LinkedEventID); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}
