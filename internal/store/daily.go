package store

import (
	"context"
	"fmt"

	"dayflow/internal/workspace"
)

// AddItem inserts a daily planner item, assigning an id when absent.
func (s *Store) AddItem(ctx context.Context, userID string, item workspace.DailyItem) (workspace.DailyItem, error) {
	if item.ID == "" {
		item.ID = newID()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_items (id, user_id, title, date, done, linked_event_id) VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, userID, item.Title, item.Date, item.Done, item.LinkedEventID)
	if err != nil {
		return workspace.DailyItem{}, fmt.Errorf("failed to insert daily item: %w", err)
	}
	return item, nil
}

// ToggleItem flips an item's done flag and returns the updated item.
func (s *Store) ToggleItem(ctx context.Context, userID, id string) (workspace.DailyItem, error) {
	if err := s.affectOne(ctx,
		`UPDATE daily_items SET done = NOT done WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return workspace.DailyItem{}, err
	}
	return s.getItem(ctx, userID, id)
}

// RemoveItem deletes an item owned by the user.
func (s *Store) RemoveItem(ctx context.Context, userID, id string) error {
	return s.affectOne(ctx,
		`DELETE FROM daily_items WHERE id = ? AND user_id = ?`, id, userID)
}

// ListItems returns the user's planner items ordered by date then title.
func (s *Store) ListItems(ctx context.Context, userID string) ([]workspace.DailyItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, date, done, linked_event_id FROM daily_items WHERE user_id = ? ORDER BY date, title`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily items: %w", err)
	}
	defer rows.Close()

	var items []workspace.DailyItem
	for rows.Next() {
		var it workspace.DailyItem
		if err := rows.Scan(&it.ID, &it.Title, &it.Date, &it.Done, &it.LinkedEventID); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GeneratePlan seeds the planner for a date from that day's calendar events.
// Events already represented by a linked item are skipped, so regeneration
// is idempotent. The full plan for the date is returned.
func (s *Store) GeneratePlan(ctx context.Context, userID, date string) ([]workspace.DailyItem, error) {
	events, err := s.eventsOn(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	for _, ev := range events {
		var n int
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM daily_items WHERE user_id = ? AND date = ? AND linked_event_id = ?`,
			userID, date, ev.ID).Scan(&n)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			continue
		}
		if _, err := s.AddItem(ctx, userID, workspace.DailyItem{
			Title:         ev.Title,
			Date:          date,
			LinkedEventID: ev.ID,
		}); err != nil {
			return nil, err
		}
	}

	return s.itemsOn(ctx, userID, date)
}

func (s *Store) itemsOn(ctx context.Context, userID, date string) ([]workspace.DailyItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, date, done, linked_event_id FROM daily_items WHERE user_id = ? AND date = ? ORDER BY title`,
		userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily items: %w", err)
	}
	defer rows.Close()

	var items []workspace.DailyItem
	for rows.Next() {
		var it workspace.DailyItem
		if err := rows.Scan(&it.ID, &it.Title, &it.Date, &it.Done, &it.LinkedEventID); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Store) getItem(ctx context.Context, userID, id string) (workspace.DailyItem, error) {
	var it workspace.DailyItem
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, date, done, linked_event_id FROM daily_items WHERE id = ? AND user_id = ?`,
		id, userID).Scan(&it.ID, &it.Title, &it.Date, &it.Done, &it.LinkedEventID)
	if err != nil {
		return workspace.DailyItem{}, err
	}
	return it, nil
}
