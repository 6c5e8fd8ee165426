// Package kanban registers the kanban board domain tools.
package kanban

import (
	"context"

	"dayflow/internal/tools"
	"dayflow/internal/workspace"
)

// Store is the kanban persistence interface consumed by the tools.
type Store interface {
	CreateCard(ctx context.Context, userID string, c workspace.KanbanCard) (workspace.KanbanCard, error)
	UpdateCard(ctx context.Context, userID string, c workspace.KanbanCard) (workspace.KanbanCard, error)
	MoveCard(ctx context.Context, userID, id, column string) (workspace.KanbanCard, error)
	DeleteCard(ctx context.Context, userID, id string) error
	ListCards(ctx context.Context, userID string) ([]workspace.KanbanCard, error)
}

// Register adds the kanban tools to the registry.
func Register(reg *tools.Registry, store Store) error {
	descriptors := []*tools.Descriptor{
		{
			Name:        "kanban_create_card",
			Description: "Create a card on the kanban board",
			Module:      workspace.ModuleKanban,
			Mutating:    true,
			Schema: tools.Schema{
				Required: []string{"title"},
				Properties: map[string]tools.Property{
					"title":         {Type: "string", Description: "Card title"},
					"column":        {Type: "string", Description: "Target column"},
					"dueDate":       {Type: "string", Description: "ISO due date"},
					"linkedEventId": {Type: "string", Description: "Calendar event to link the card to"},
				},
			},
			Execute: func(ctx context.Context, args map[string]any, ec tools.ExecContext) (any, error) {
				return store.CreateCard(ctx, ec.UserID, workspace.KanbanCard{
					Title:         tools.StringArg(args, "title"),
					Column:        tools.StringArg(args, "column"),
					DueDate:       tools.StringArg(args, "dueDate"),
					LinkedEventID: tools.StringArg(args, "linkedEventId"),
				})
			},
		},
		{
			Name:        "kanban_update_card",
			Description: "Update a kanban card",
			Module:      workspace.ModuleKanban,
			Mutating:    true,
			Schema: tools.Schema{
				Required: []string{"id"},
				Properties: map[string]tools.Property{
					"id":      {Type: "string", Description: "Card id"},
					"title":   {Type: "string", Description: "New title"},
					"dueDate": {Type: "string", Description: "New due date"},
				},
			},
			Execute: func(ctx context.Context, args map[string]any, ec tools.ExecContext) (any, error) {
				return store.UpdateCard(ctx, ec.UserID, workspace.KanbanCard{
					ID:      tools.StringArg(args, "id"),
					Title:   tools.StringArg(args, "title"),
					DueDate: tools.StringArg(args, "dueDate"),
				})
			},
		},
		{
			Name:        "kanban_move_card",
			Description: "Move a card to another column",
			Module:      workspace.ModuleKanban,
			Mutating:    true,
			Schema: tools.Schema{
				Required: []string{"id", "column"},
				Properties: map[string]tools.Property{
					"id":     {Type: "string", Description: "Card id"},
					"column": {Type: "string", Description: "Target column"},
				},
			},
			Execute: func(ctx context.Context, args map[string]any, ec tools.ExecContext) (any, error) {
				return store.MoveCard(ctx, ec.UserID, tools.StringArg(args, "id"), tools.StringArg(args, "column"))
			},
		},
		{
			Name:        "kanban_delete_card",
			Description: "Delete a kanban card",
			Module:      workspace.ModuleKanban,
			Mutating:    true,
			Schema: tools.Schema{
				Required: []string{"id"},
				Properties: map[string]tools.Property{
					"id": {Type: "string", Description: "Card id"},
				},
			},
			Execute: func(ctx context.Context, args map[string]any, ec tools.ExecContext) (any, error) {
				if err := store.DeleteCard(ctx, ec.UserID, tools.StringArg(args, "id")); err != nil {
					return nil, err
				}
				return map[string]any{"deleted": true}, nil
			},
		},
		{
			Name:        "kanban_list_cards",
			Description: "List the user's kanban cards",
			Module:      workspace.ModuleKanban,
			Schema:      tools.Schema{Required: []string{}},
			Execute: func(ctx context.Context, args map[string]any, ec tools.ExecContext) (any, error) {
				return store.ListCards(ctx, ec.UserID)
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
