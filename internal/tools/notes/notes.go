// Package notes registers the notes domain tools.
package notes

import (
	"context"

	"dayflow/internal/tools"
	"dayflow/internal/workspace"
)

// Store is the notes persistence interface consumed by the tools. The agent
// core treats it as an opaque, already-validated data source.
type Store interface {
	CreateNote(ctx context.Context, userID string, n workspace.Note) (workspace.Note, error)
	UpdateNote(ctx context.Context, userID string, n workspace.Note) (workspace.Note, error)
	DeleteNote(ctx context.Context, userID, id string) error
	ListNotes(ctx context.Context, userID string) ([]workspace.Note, error)
}

// Register adds the notes tools to the registry.
func Register(reg *tools.Registry, store Store) error {
	descriptors := []*tools.Descriptor{
		{
			Name:        "notes_create",
			Description: "Create a new note",
			Module:      workspace.ModuleNotes,
			Mutating:    true,
			Schema: tools.Schema{
				Required: []string{"title"},
				Properties: map[string]tools.Property{
					"title":         {Type: "string", Description: "Note title"},
					"content":       {Type: "string", Description: "Note body"},
					"linkedEventId": {Type: "string", Description: "Calendar event to link the note to"},
				},
			},
			Execute: func(ctx context.Context, args map[string]any, ec tools.ExecContext) (any, error) {
				return store.CreateNote(ctx, ec.UserID, workspace.Note{
					Title:         tools.StringArg(args, "title"),
					Content:       tools.StringArg(args, "content"),
					LinkedEventID: tools.StringArg(args, "linkedEventId"),
				})
			},
		},
		{
			Name:        "notes_update",
			Description: "Update an existing note",
			Module:      workspace.ModuleNotes,
			Mutating:    true,
			Schema: tools.Schema{
				Required: []string{"id"},
				Properties: map[string]tools.Property{
					"id":      {Type: "string", Description: "Note id"},
					"title":   {Type: "string", Description: "New title"},
					"content": {Type: "string", Description: "New body"},
				},
			},
			Execute: func(ctx context.Context, args map[string]any, ec tools.ExecContext) (any, error) {
				return store.UpdateNote(ctx, ec.UserID, workspace.Note{
					ID:      tools.StringArg(args, "id"),
					Title:   tools.StringArg(args, "title"),
					Content: tools.StringArg(args, "content"),
				})
			},
		},
		{
			Name:        "notes_delete",
			Description: "Delete a note",
			Module:      workspace.ModuleNotes,
			Mutating:    true,
			Schema: tools.Schema{
				Required: []string{"id"},
				Properties: map[string]tools.Property{
					"id": {Type: "string", Description: "Note id"},
				},
			},
			Execute: func(ctx context.Context, args map[string]any, ec tools.ExecContext) (any, error) {
				if err := store.DeleteNote(ctx, ec.UserID, tools.StringArg(args, "id")); err != nil {
					return nil, err
				}
				return map[string]any{"deleted": true}, nil
			},
		},
		{
			Name:        "notes_list",
			Description: "List the user's notes",
			Module:      workspace.ModuleNotes,
			Schema:      tools.Schema{Required: []string{}},
			Execute: func(ctx context.Context, args map[string]any, ec tools.ExecContext) (any, error) {
				return store.ListNotes(ctx, ec.UserID)
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
