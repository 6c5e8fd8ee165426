package store

import (
	"context"
	"fmt"

	"dayflow/internal/workspace"
)

// CreateCard inserts a kanban card, defaulting the column to "todo".
func (s *Store) CreateCard(ctx context.Context, userID string, c workspace.KanbanCard) (workspace.KanbanCard, error) {
	if c.ID == "" {
		c.ID = newID()
	}
	if c.Column == "" {
		c.Column = "todo"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kanban_cards (id, user_id, title, col, due_date, linked_event_id) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, userID, c.Title, c.Column, c.DueDate, c.LinkedEventID)
	if err != nil {
		return workspace.KanbanCard{}, fmt.Errorf("failed to insert card: %w", err)
	}
	return c, nil
}

// UpdateCard overwrites an existing card owned by the user.
func (s *Store) UpdateCard(ctx context.Context, userID string, c workspace.KanbanCard) (workspace.KanbanCard, error) {
	err := s.affectOne(ctx,
		`UPDATE kanban_cards SET title = ?, col = ?, due_date = ?, linked_event_id = ? WHERE id = ? AND user_id = ?`,
		c.Title, c.Column, c.DueDate, c.LinkedEventID, c.ID, userID)
	if err != nil {
		return workspace.KanbanCard{}, err
	}
	return c, nil
}

// MoveCard changes only the card's column and returns the updated card.
func (s *Store) MoveCard(ctx context.Context, userID, id, column string) (workspace.KanbanCard, error) {
	if err := s.affectOne(ctx,
		`UPDATE kanban_cards SET col = ? WHERE id = ? AND user_id = ?`, column, id, userID); err != nil {
		return workspace.KanbanCard{}, err
	}
	return s.getCard(ctx, userID, id)
}

// DeleteCard removes a card owned by the user.
func (s *Store) DeleteCard(ctx context.Context, userID, id string) error {
	return s.affectOne(ctx,
		`DELETE FROM kanban_cards WHERE id = ? AND user_id = ?`, id, userID)
}

// ListCards returns the user's cards ordered by column then title.
func (s *Store) ListCards(ctx context.Context, userID string) ([]workspace.KanbanCard, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, col, due_date, linked_event_id FROM kanban_cards WHERE user_id = ? ORDER BY col, title`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	var cards []workspace.KanbanCard
	for rows.Next() {
		var c workspace.KanbanCard
		if err := rows.Scan(&c.ID, &c.Title, &c.Column, &c.DueDate, &c.LinkedEventID); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (s *Store) getCard(ctx context.Context, userID, id string) (workspace.KanbanCard, error) {
	var c workspace.KanbanCard
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, col, due_date, linked_event_id FROM kanban_cards WHERE id = ? AND user_id = ?`,
		id, userID).Scan(&c.ID, &c.Title, &c.Column, &c.DueDate, &c.LinkedEventID)
	if err != nil {
		return workspace.KanbanCard{}, err
	}
	return c, nil
}
