// Package calendar registers the calendar domain tools.
package calendar

import (
	"context"

	"dayflow/internal/tools"
	"dayflow/internal/workspace"
)

// Store is the calendar persistence interface consumed by the tools.
type Store interface {
	CreateEvent(ctx context.Context, userID string, ev workspace.CalendarEvent) (workspace.CalendarEvent, error)
	UpdateEvent(ctx context.Context, userID string, ev workspace.CalendarEvent) (workspace.CalendarEvent, error)
	DeleteEvent(ctx context.Context, userID, id string) error
	ListEvents(ctx context.Context, userID string) ([]workspace.CalendarEvent, error)
}

// Register adds the calendar tools to the registry.
func Register(reg *tools.Registry, store Store) error {
	descriptors := []*tools.Descriptor{
		{
			Name:        "calendar_create_event",
			Description: "Create a calendar event",
			Module:      workspace.ModuleCalendar,
			Mutating:    true,
			Schema: tools.Schema{
				Required: []string{"title"},
				Properties: map[string]tools.Property{
					"title": {Type: "string", Description: "Event title"},
					"date":  {Type: "string", Description: "ISO date (YYYY-MM-DD)"},
					"time":  {Type: "string", Description: "Start time (HH:MM)"},
				},
			},
			Execute: func(ctx context.Context, args map[string]any, ec tools.ExecContext) (any, error) {
				return store.CreateEvent(ctx, ec.UserID, workspace.CalendarEvent{
					Title: tools.StringArg(args, "title"),
					Date:  tools.StringArg(args, "date"),
					Time:  tools.StringArg(args, "time"),
				})
			},
		},
		{
			Name:        "calendar_update_event",
			Description: "Update or reschedule a calendar event",
			Module:      workspace.ModuleCalendar,
			Mutating:    true,
			Schema: tools.Schema{
				Required: []string{"id"},
				Properties: map[string]tools.Property{
					"id":     {Type: "string", Description: "Event id"},
					"title":  {Type: "string", Description: "New title"},
					"date":   {Type: "string", Description: "New ISO date"},
					"time":   {Type: "string", Description: "New start time"},
					"status": {Type: "string", Description: "New status"},
				},
			},
			Execute: func(ctx context.Context, args map[string]any, ec tools.ExecContext) (any, error) {
				return store.UpdateEvent(ctx, ec.UserID, workspace.CalendarEvent{
					ID:     tools.StringArg(args, "id"),
					Title:  tools.StringArg(args, "title"),
					Date:   tools.StringArg(args, "date"),
					Time:   tools.StringArg(args, "time"),
					Status: tools.StringArg(args, "status"),
				})
			},
		},
		{
			Name:        "calendar_delete_event",
			Description: "Delete a calendar event",
			Module:      workspace.ModuleCalendar,
			Mutating:    true,
			Schema: tools.Schema{
				Required: []string{"id"},
				Properties: map[string]tools.Property{
					"id": {Type: "string", Description: "Event id"},
				},
			},
			Execute: func(ctx context.Context, args map[string]any, ec tools.ExecContext) (any, error) {
				if err := store.DeleteEvent(ctx, ec.UserID, tools.StringArg(args, "id")); err != nil {
					return nil, err
				}
				return map[string]any{"deleted": true}, nil
			},
		},
		{
			Name:        "calendar_list_events",
			Description: "List the user's calendar events",
			Module:      workspace.ModuleCalendar,
			Schema:      tools.Schema{Required: []string{}},
			Execute: func(ctx context.Context, args map[string]any, ec tools.ExecContext) (any, error) {
				return store.ListEvents(ctx, ec.UserID)
			},
		},
	}

	for _, d := range descriptors {
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	return nil
}
