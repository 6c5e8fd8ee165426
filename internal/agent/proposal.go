package agent

import (
	"regexp"
	"strings"

	"dayflow/internal/intent"
	"dayflow/internal/session"
	"dayflow/internal/tools"
	"dayflow/internal/workspace"
)

// toolTable maps (module, action kind) to the tool that performs it. The
// first selected module that has a tool for the kind wins.
var toolTable = map[workspace.Module]map[intent.ActionKind]string{
	workspace.ModuleCalendar: {
		intent.ActionCreate: "calendar_create_event",
		intent.ActionUpdate: "calendar_update_event",
		intent.ActionMove:   "calendar_update_event",
		intent.ActionDelete: "calendar_delete_event",
	},
	workspace.ModuleKanban: {
		intent.ActionCreate: "kanban_create_card",
		intent.ActionUpdate: "kanban_update_card",
		intent.ActionMove:   "kanban_move_card",
		intent.ActionDelete: "kanban_delete_card",
	},
	workspace.ModuleNotes: {
		intent.ActionCreate: "notes_create",
		intent.ActionUpdate: "notes_update",
		intent.ActionDelete: "notes_delete",
	},
	workspace.ModuleDaily: {
		intent.ActionCreate:   "daily_add_item",
		intent.ActionUpdate:   "daily_toggle_item",
		intent.ActionDelete:   "daily_remove_item",
		intent.ActionGenerate: "daily_generate_plan",
	},
}

// chooseTool resolves an action kind against the selected modules. Only
// tools actually present in the registry are eligible.
func chooseTool(reg *tools.Registry, kind intent.ActionKind, modules []workspace.Module) (string, bool) {
	for _, m := range modules {
		if name, ok := toolTable[m][kind]; ok && reg.Has(name) {
			return name, true
		}
	}
	// Generate defaults to the planner even when the message scoped to
	// other modules ("summarize my meetings").
	if kind == intent.ActionGenerate {
		if name := toolTable[workspace.ModuleDaily][kind]; reg.Has(name) {
			return name, true
		}
	}
	return "", false
}

var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`"([^"]+)"`),
	regexp.MustCompile(`“([^”]+)”`),
	regexp.MustCompile(`(?i)(?:titled|called|named|titulada?|llamada?)\s+(.+?)(?:\.|$)`),
}

// extractTitle pulls a quoted or announced title out of the message, falling
// back to the trimmed message itself.
func extractTitle(message string) string {
	for _, re := range titlePatterns {
		if m := re.FindStringSubmatch(message); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return strings.TrimSpace(message)
}

var columnPattern = regexp.MustCompile(`(?i)(?:to|into|a la columna|a)\s+(todo|doing|done|backlog)\b`)

// buildArguments derives the proposed tool arguments from the message and the
// unified context. Update/move/delete targets are resolved by title against
// the snapshot when possible; an unresolved target is left for the dispatch
// result to report.
func buildArguments(message string, kind intent.ActionKind, toolName string, unified workspace.Unified) map[string]any {
	args := map[string]any{}

	switch kind {
	case intent.ActionCreate:
		args["title"] = extractTitle(message)
	case intent.ActionGenerate:
		// daily_generate_plan defaults the date itself.
	default:
		if id := resolveTargetID(message, toolName, unified); id != "" {
			args["id"] = id
		}
		if kind == intent.ActionMove {
			if m := columnPattern.FindStringSubmatch(message); m != nil {
				args["column"] = strings.ToLower(m[1])
			}
		}
	}

	return args
}

// resolveTargetID finds the domain record whose title appears in the message.
func resolveTargetID(message, toolName string, unified workspace.Unified) string {
	msg := strings.ToLower(message)
	prefix := strings.SplitN(toolName, "_", 2)[0]

	for _, e := range unified.Entities {
		if e.Title == "" || !strings.Contains(msg, strings.ToLower(e.Title)) {
			continue
		}
		switch prefix {
		case "calendar":
			if e.Event != nil {
				return e.Event.ID
			}
		case "kanban":
			if len(e.Cards) > 0 {
				return e.Cards[0].ID
			}
		case "notes":
			if len(e.Notes) > 0 {
				return e.Notes[0].ID
			}
		case "daily":
			if len(e.DailyItems) > 0 {
				return e.DailyItems[0].ID
			}
		}
	}
	return ""
}

// auditShape maps a tool name to the item type and event kind recorded in
// the session trail after a successful dispatch.
func auditShape(toolName string) (string, session.EventKind) {
	itemType := "item"
	switch {
	case strings.HasPrefix(toolName, "calendar_"):
		itemType = "event"
	case strings.HasPrefix(toolName, "kanban_"):
		itemType = "card"
	case strings.HasPrefix(toolName, "notes_"):
		itemType = "note"
	case strings.HasPrefix(toolName, "daily_"):
		itemType = "daily_item"
	}

	switch {
	case strings.Contains(toolName, "create") || strings.Contains(toolName, "add"):
		return itemType, session.EventCreated
	case strings.Contains(toolName, "delete") || strings.Contains(toolName, "remove"):
		return itemType, session.EventDeleted
	default:
		return itemType, session.EventUpdated
	}
}
