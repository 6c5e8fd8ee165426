package agent

import (
	"fmt"
	"strings"

	"dayflow/internal/intent"
	"dayflow/internal/tools"
)

// Display texts for both supported response languages. Kept as functions
// rather than a template layer: the surface is small and the wording is part
// of the product contract.

func confirmText(lang, summary string) string {
	if lang == "es" {
		return fmt.Sprintf("Necesito tu confirmación: %s", summary)
	}
	return fmt.Sprintf("I need your confirmation before doing this: %s", summary)
}

func navigateText(lang, route string) string {
	if lang == "es" {
		return fmt.Sprintf("Llevándote a %s.", route)
	}
	return fmt.Sprintf("Taking you to %s.", route)
}

func clarifyText(lang string) string {
	if lang == "es" {
		return "¿Puedes contarme un poco más sobre lo que necesitas?"
	}
	return "Could you tell me a bit more about what you need?"
}

func unknownText(lang string) string {
	if lang == "es" {
		return "No estoy seguro de qué quieres hacer. Puedes preguntarme por tu calendario, tus notas, el tablero o tu plan del día."
	}
	return "I'm not sure what you'd like me to do. You can ask about your calendar, notes, board or daily plan."
}

func declineText(lang string) string {
	if lang == "es" {
		return "De acuerdo, descarté la acción propuesta."
	}
	return "Okay, I've discarded the proposed action."
}

func dispatchText(lang, summary string, res tools.Result) string {
	if res.OK {
		if lang == "es" {
			return fmt.Sprintf("Hecho: %s", summary)
		}
		return fmt.Sprintf("Done: %s", summary)
	}
	if lang == "es" {
		return fmt.Sprintf("La acción falló: %s", res.Error)
	}
	return fmt.Sprintf("The action failed: %s", res.Error)
}

// summarize builds the human-readable proposal summary.
func summarize(lang string, kind intent.ActionKind, toolName string, args map[string]any) string {
	subject := subjectFor(lang, toolName)
	title := tools.StringArg(args, "title")

	if lang == "es" {
		verb := map[intent.ActionKind]string{
			intent.ActionCreate:   "Crear",
			intent.ActionUpdate:   "Actualizar",
			intent.ActionDelete:   "Eliminar",
			intent.ActionMove:     "Mover",
			intent.ActionGenerate: "Generar",
		}[kind]
		if title != "" {
			return fmt.Sprintf("%s %s «%s»", verb, subject, title)
		}
		return fmt.Sprintf("%s %s", verb, subject)
	}

	verb := map[intent.ActionKind]string{
		intent.ActionCreate:   "Create",
		intent.ActionUpdate:   "Update",
		intent.ActionDelete:   "Delete",
		intent.ActionMove:     "Move",
		intent.ActionGenerate: "Generate",
	}[kind]
	if title != "" {
		return fmt.Sprintf("%s %s “%s”", verb, subject, title)
	}
	return fmt.Sprintf("%s %s", verb, subject)
}

func subjectFor(lang, toolName string) string {
	type subject struct{ en, es string }
	table := map[string]subject{
		"calendar": {"a calendar event", "un evento del calendario"},
		"kanban":   {"a kanban card", "una tarjeta del tablero"},
		"notes":    {"a note", "una nota"},
		"daily":    {"the daily plan", "el plan del día"},
	}
	prefix := toolName
	if i := strings.IndexByte(toolName, '_'); i > 0 {
		prefix = toolName[:i]
	}
	s, ok := table[prefix]
	if !ok {
		if lang == "es" {
			return "un elemento"
		}
		return "an item"
	}
	if lang == "es" {
		return s.es
	}
	return s.en
}
