// Package tools provides the closed catalogue of callable domain operations
// and the dispatch boundary for executing them.
//
// The registry is assembled once at startup from each domain's tool module
// and is immutable afterwards. Tool names are globally unique; a duplicate is
// a startup invariant violation, not a runtime error.
package tools

import (
	"context"
	"time"

	"dayflow/internal/workspace"
)

// ExecContext is passed into every tool call. Tools use it for ownership
// scoping and relative-time resolution; the dispatcher never widens or
// narrows it per tool.
type ExecContext struct {
	UserID string
	Now    time.Time
}

// NowISO returns the context time formatted for tools that store ISO dates.
func (ec ExecContext) NowISO() string {
	return ec.Now.UTC().Format(time.RFC3339)
}

// ExecuteFunc is the signature of a tool executor. A returned error is caught
// at the dispatch boundary and converted to a failed Result, never thrown
// further.
type ExecuteFunc func(ctx context.Context, args map[string]any, ec ExecContext) (any, error)

// Property describes a single parameter for the JSON-schema-shaped contract.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Enum        []any  `json:"enum,omitempty"`
}

// Schema defines the input contract of a tool.
type Schema struct {
	Required   []string            `json:"required"`
	Properties map[string]Property `json:"properties"`
}

// Descriptor is one static registry entry.
type Descriptor struct {
	// Name uniquely identifies the tool across the whole registry,
	// e.g. "notes_create".
	Name string

	// Description explains what the tool does, for prompt assembly and docs.
	Description string

	// Module is the domain area this tool belongs to.
	Module workspace.Module

	// Mutating marks tools that change workspace data. Mutating tools are
	// never executed without explicit confirmation.
	Mutating bool

	// Schema describes the expected arguments.
	Schema Schema

	// Execute runs the tool.
	Execute ExecuteFunc
}

// Validate checks the descriptor invariants enforced at registration.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return ErrNameEmpty
	}
	if d.Execute == nil {
		return ErrExecuteNil
	}
	return nil
}

// Result is the normalized outcome of one dispatch. Failures are data, not
// transport errors.
type Result struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// BatchCall is one entry of a parallel dispatch. ToolCallID lets the caller
// correlate responses without relying on ordering.
type BatchCall struct {
	ToolCallID string         `json:"toolCallId"`
	ToolName   string         `json:"toolName"`
	Args       map[string]any `json:"args"`
}

// BatchResult pairs a dispatch result with its originating call id.
type BatchResult struct {
	ToolCallID string `json:"toolCallId"`
	Result     Result `json:"result"`
}
