// Package stream turns a finished agent turn into an ordered frame sequence
// for server-sent-event delivery.
//
// Frame order is fixed: zero or more token frames, then an optional action
// frame, then an optional navigate frame, then exactly one done frame. A
// turn that failed produces a single error frame instead.
package stream

import (
	"time"

	"dayflow/internal/intent"
	"dayflow/internal/pending"
	"dayflow/internal/workspace"
)

// FrameType discriminates the SSE event name.
type FrameType string

const (
	FrameToken    FrameType = "token"
	FrameAction   FrameType = "action"
	FrameNavigate FrameType = "navigate"
	FrameDone     FrameType = "done"
	FrameError    FrameType = "error"
)

// DefaultChunkSize is the token frame width in runes.
const DefaultChunkSize = 36

// Frame is one SSE event: the type names the event, Data is its JSON body.
type Frame struct {
	Type FrameType
	Data any
}

// TokenPayload carries one slice of the response text.
type TokenPayload struct {
	Text string `json:"text"`
}

// ActionPayload announces a pending proposal the client must confirm.
type ActionPayload struct {
	ID        string         `json:"id"`
	ToolName  string         `json:"toolName"`
	Arguments map[string]any `json:"arguments"`
	Summary   string         `json:"summary"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

// NavigatePayload tells the client to change route.
type NavigatePayload struct {
	Route string `json:"route"`
}

// DonePayload closes the turn with its classification metadata.
type DonePayload struct {
	Language string             `json:"language"`
	Intent   intent.Intent      `json:"intent"`
	Modules  []workspace.Module `json:"modules,omitempty"`
}

// ErrorPayload is the only frame of a failed turn.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Encoder chunks turn output into frames.
type Encoder struct {
	chunkSize int
}

// NewEncoder returns an Encoder emitting token frames of chunkSize runes.
// A non-positive chunkSize selects DefaultChunkSize.
func NewEncoder(chunkSize int) *Encoder {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Encoder{chunkSize: chunkSize}
}

// Encode lays out a successful turn. Blank text still yields one empty token
// frame so clients always observe at least one token before done.
func (e *Encoder) Encode(text string, proposal *pending.Proposal, navigateTo string, done DonePayload) []Frame {
	var frames []Frame

	chunks := chunkRunes(text, e.chunkSize)
	if len(chunks) == 0 {
		chunks = []string{""}
	}
	for _, c := range chunks {
		frames = append(frames, Frame{Type: FrameToken, Data: TokenPayload{Text: c}})
	}

	if proposal != nil {
		frames = append(frames, Frame{Type: FrameAction, Data: ActionPayload{
			ID:        proposal.ID,
			ToolName:  proposal.ToolName,
			Arguments: proposal.Arguments,
			Summary:   proposal.Summary,
			ExpiresAt: proposal.ExpiresAt,
		}})
	}
	if navigateTo != "" {
		frames = append(frames, Frame{Type: FrameNavigate, Data: NavigatePayload{Route: navigateTo}})
	}

	return append(frames, Frame{Type: FrameDone, Data: done})
}

// EncodeError lays out a failed turn: a single error frame, nothing else.
func (e *Encoder) EncodeError(message string) []Frame {
	return []Frame{{Type: FrameError, Data: ErrorPayload{Message: message}}}
}

// chunkRunes splits s into runs of at most size runes. Splitting by rune
// keeps multi-byte characters intact.
func chunkRunes(s string, size int) []string {
	if s == "" {
		return nil
	}
	runes := []rune(s)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
