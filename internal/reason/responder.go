// Package reason phrases answers for query turns. The orchestrator's control
// flow never depends on it: proposals, navigation and confirmation semantics
// are decided before any responder runs, and every responder failure falls
// back to a deterministic context summary.
package reason

import (
	"context"
	"fmt"
	"strings"
)

// Responder turns a question plus workspace context into display text.
type Responder interface {
	Answer(ctx context.Context, question, contextFragment, language string) (string, error)
}

// FallbackAnswer is the deterministic answer used when no responder is
// configured or the configured one fails.
func FallbackAnswer(question, contextFragment, language string) string {
	if strings.TrimSpace(contextFragment) == "" {
		if language == "es" {
			return "No veo nada relacionado en tu espacio de trabajo ahora mismo."
		}
		return "I don't see anything related in your workspace right now."
	}
	if language == "es" {
		return fmt.Sprintf("Esto es lo que veo en tu espacio de trabajo:\n%s", contextFragment)
	}
	return fmt.Sprintf("Here is what I can see in your workspace:\n%s", contextFragment)
}
