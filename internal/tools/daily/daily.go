// Package daily registers the daily planner domain tools.
package daily

import (
	"context"

	"dayflow/internal/tools"
	"dayflow/internal/workspace"
)

// Store is the daily planner persistence interface consumed by the tools.
type Store interface {
	AddItem(ctx context.Context, userID string, item workspace.DailyItem) (workspace.DailyItem, error)
	ToggleItem(ctx context.Context, userID, id string) (workspace.DailyItem, error)
	RemoveItem(ctx context.Context, userID, id string) error
	ListItems(ctx context.Context, userID string) ([]workspace.DailyItem, error)

	// GeneratePlan seeds the planner for a date from that day's calendar
	// events and returns the resulting items.
	GeneratePlan(ctx context.Context, userID, date string) ([]workspace.DailyItem, error)
}

// Register adds the daily planner tools to the registry.
func Register(reg *tools.Registry, store Store) error {
	descriptors := []*tools.Descriptor{
		{
			Name:        "daily_add_item",
			Description: "Add an item to the daily plan",
			Module:      workspace.ModuleDaily,
			Mutating:    true,
			Schema: tools.Schema{
				Required: []string{"title"},
				Properties: map[string]tools.Property{
					"title": {Type: "string", Description: "Item title"},
					"date":  {Type: "string", Description: "ISO date, defaults to today"},
				},
			},
			Execute: func(ctx context.Context, args map[string]any, ec tools.ExecContext) (any, error) {
				date := tools.StringArg(args, "date")
				if date == "" {
					date = ec.Now.UTC().Format("2006-01-02")
				}
				return store.AddItem(ctx, ec.UserID, workspace.DailyItem{
					Title: tools.StringArg(args, "title"),
					Date:  date,
				})
			},
		},
		{
			Name:        "daily_toggle_item",
			Description: "Toggle a daily item between done and pending",
			Module:      workspace.ModuleDaily,
			Mutating:    true,
			Schema: tools.Schema{
				Required: []string{"id"},
				Properties: map[string]tools.Property{
					"id": {Type: "string", Description: "Item id"},
				},
			},
			Execute: func(ctx context.Context, args map[string]any, ec tools.ExecContext) (any, error) {
				return store.ToggleItem(ctx, ec.UserID, tools.StringArg(args, "id"))
			},
		},
		{
			Name:        "daily_remove_item",
			Description: "Remove an item from the daily plan",
			Module:      workspace.ModuleDaily,
			Mutating:    true,
			Schema: tools.Schema{
				Required: []string{"id"},
				Properties: map[string]tools.Property{
					"id": {Type: "string", Description: "Item id"},
				},
			},
			Execute: func(ctx context.Context, args map[string]any, ec tools.ExecContext) (any, error) {
				if err := store.RemoveItem(ctx, ec.UserID, tools.StringArg(args, "id")); err != nil {
					return nil, err
				}
				return map[string]any{"deleted": true}, nil
			},
		},
		{
			Name:        "daily_generate_plan",
			Description: "Generate the daily plan from the day's calendar events",
			Module:      workspace.ModuleDaily,
			Mutating:    true,
			Schema: tools.Schema{
				Required: []string{},
				Properties: map[string]tools.Property{
					"date": {Type: "string", Description: "ISO date, defaults to today"},
				},
			},
			Execute: func(ctx context.Context, args map[string]any, ec tools.ExecContext) (any, error) {
				date := tools.StringArg(args, "date")
				if date == "" {
					date = ec.Now.UTC().Format("2006-01-02")
				}
				return store.GeneratePlan(ctx, ec.UserID, date)
			},
		},
		{
			Name:        "daily_list_items",
			Description: "List the user's daily plan items",
			Module:      workspace.ModuleDaily,
			Schema:      tools.Schema{Required: []string{}},
			Execute: func(ctx context.Context, args map[string]any, ec tools.ExecContext) (any, error) {
				return store.ListItems(ctx, ec.UserID)
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
