// Package intent classifies a free-text user message into an agent intent.
//
// Classification is a pure, deterministic function of the trimmed message
// text. No history or session state is consulted, and classification never
// fails: the worst case degrades to clarify (empty input) or unknown.
package intent

import (
	"strings"

	"dayflow/internal/workspace"
)

// Type is the top-level classification of a message.
type Type string

const (
	TypeQuery    Type = "query"
	TypeAction   Type = "action"
	TypeNavigate Type = "navigate"
	TypeClarify  Type = "clarify"
	TypeUnknown  Type = "unknown"
)

// ActionKind refines Type == TypeAction.
type ActionKind string

const (
	ActionCreate   ActionKind = "create"
	ActionUpdate   ActionKind = "update"
	ActionDelete   ActionKind = "delete"
	ActionMove     ActionKind = "move"
	ActionGenerate ActionKind = "generate"
)

// Confidence levels per classification branch. Informational only; branching
// logic never compares them.
const (
	confidenceNavigate = 0.85
	confidenceAction   = 0.8
	confidenceQuery    = 0.72
	confidenceUnknown  = 0.4
	confidenceClarify  = 0.2
)

// Intent is the classification result for one message.
type Intent struct {
	Type                 Type       `json:"type"`
	ActionKind           ActionKind `json:"actionKind,omitempty"`
	Confidence           float64    `json:"confidence"`
	NavigateTo           string     `json:"navigateTo,omitempty"`
	RequiresConfirmation bool       `json:"requiresConfirmation"`
}

// Classify derives the intent for a message.
//
// Pattern groups are tested in strict priority order: navigation before
// action verbs before query heuristics. A message matching several groups is
// resolved by this fixed precedence, never by confidence.
func Classify(message string) Intent {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return Intent{Type: TypeClarify, Confidence: confidenceClarify}
	}

	if route, ok := matchNavigation(msg); ok {
		return Intent{Type: TypeNavigate, Confidence: confidenceNavigate, NavigateTo: route}
	}

	if kind, ok := matchActionVerb(msg); ok {
		return Intent{
			Type:                 TypeAction,
			ActionKind:           kind,
			Confidence:           confidenceAction,
			RequiresConfirmation: true,
		}
	}

	if isQuestion(msg) {
		return Intent{Type: TypeQuery, Confidence: confidenceQuery}
	}

	return Intent{Type: TypeUnknown, Confidence: confidenceUnknown}
}

// SelectModules picks the domain modules a message is about.
//
// An empty message scopes to the daily planner only. A message with no domain
// vocabulary fans out to all modules so context is never under-scoped. Any
// match returns exactly the matched set.
func SelectModules(message string) []workspace.Module {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return []workspace.Module{workspace.ModuleDaily}
	}

	var matched []workspace.Module
	for _, mv := range moduleVocabulary {
		if mv.matches(msg) {
			matched = append(matched, mv.module)
		}
	}
	if len(matched) == 0 {
		return workspace.AllModules()
	}
	return matched
}

// DetectLanguage returns "es" when the message carries Spanish vocabulary,
// otherwise "en". Used only to phrase responses; classification itself is
// language-blind across both rule sets.
func DetectLanguage(message string) string {
	msg := strings.ToLower(strings.TrimSpace(message))
	for _, re := range spanishSignals {
		if re.MatchString(msg) {
			return "es"
		}
	}
	return "en"
}
