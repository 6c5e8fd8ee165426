package store

import (
	"context"
	"fmt"

	"dayflow/internal/workspace"
)

// CreateEvent inserts a calendar event, assigning an id when absent.
func (s *Store) CreateEvent(ctx context.Context, userID string, ev workspace.CalendarEvent) (workspace.CalendarEvent, error) {
	if ev.ID == "" {
		ev.ID = newID()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calendar_events (id, user_id, title, date, time, status) VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, userID, ev.Title, ev.Date, ev.Time, ev.Status)
	if err != nil {
		return workspace.CalendarEvent{}, fmt.Errorf("failed to insert event: %w", err)
	}
	return ev, nil
}

// UpdateEvent overwrites an existing event owned by the user.
func (s *Store) UpdateEvent(ctx context.Context, userID string, ev workspace.CalendarEvent) (workspace.CalendarEvent, error) {
	err := s.affectOne(ctx,
		`UPDATE calendar_events SET title = ?, date = ?, time = ?, status = ? WHERE id = ? AND user_id = ?`,
		ev.Title, ev.Date, ev.Time, ev.Status, ev.ID, userID)
	if err != nil {
		return workspace.CalendarEvent{}, err
	}
	return ev, nil
}

// DeleteEvent removes an event owned by the user.
func (s *Store) DeleteEvent(ctx context.Context, userID, id string) error {
	return s.affectOne(ctx,
		`DELETE FROM calendar_events WHERE id = ? AND user_id = ?`, id, userID)
}

// ListEvents returns the user's events ordered by date then title.
func (s *Store) ListEvents(ctx context.Context, userID string) ([]workspace.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, date, time, status FROM calendar_events WHERE user_id = ? ORDER BY date, title`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []workspace.CalendarEvent
	for rows.Next() {
		var ev workspace.CalendarEvent
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Date, &ev.Time, &ev.Status); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// eventsOn returns the user's events for one date.
func (s *Store) eventsOn(ctx context.Context, userID, date string) ([]workspace.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, date, time, status FROM calendar_events WHERE user_id = ? AND date = ? ORDER BY time, title`,
		userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []workspace.CalendarEvent
	for rows.Next() {
		var ev workspace.CalendarEvent
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Date, &ev.Time, &ev.Status); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
