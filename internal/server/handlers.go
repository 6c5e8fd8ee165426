package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dayflow/internal/agent"
	"dayflow/internal/stream"
	"dayflow/internal/tools"
)

// handleTurn runs one agent turn and streams the outcome as SSE frames.
//
// The response is always 200 with Content-Type text/event-stream; turn
// failures are delivered as an error frame so the client reads one protocol
// regardless of outcome.
func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req agent.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid turn body: "+err.Error())
		return
	}
	if req.SessionID == "" {
		req.SessionID = r.Header.Get(headerSession)
	}

	ec := s.execContext(r)

	// A request that carries no snapshot reads the persisted workspace.
	if req.Snapshot.Empty() && s.snapshots != nil {
		snap, err := s.snapshots.Snapshot(r.Context(), ec.UserID)
		if err != nil {
			s.logger.Warn("snapshot load failed, running with empty context",
				zap.String("user", ec.UserID), zap.Error(err))
		} else {
			req.Snapshot = snap
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	res, err := s.orch.Turn(r.Context(), req, ec)

	var frames []stream.Frame
	if err != nil {
		frames = s.encoder.EncodeError(err.Error())
	} else {
		frames = s.encoder.Encode(res.Text, res.Pending, res.NavigateTo, stream.DonePayload{
			Language: res.Language,
			Intent:   res.Intent,
			Modules:  res.Modules,
		})
	}

	if err := stream.WriteAll(w, frames); err != nil {
		s.logger.Warn("stream interrupted", zap.Error(err))
	}
}

// toolRequest is the direct-dispatch body. Confirm must be true for
// mutating tools; the registry enforces it.
type toolRequest struct {
	Arguments map[string]any `json:"arguments"`
	Confirm   bool           `json:"confirm"`
}

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req toolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid tool body: "+err.Error())
		return
	}

	result := s.registry.DispatchGuarded(r.Context(), name, req.Arguments, s.execContext(r), req.Confirm)
	if confirmationRejected(result) {
		writeError(w, http.StatusForbidden, "confirmation_required", result.Error)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// confirmationRejected reports whether a dispatch was blocked by the
// confirmation gate. The registry reports failures as text, so the gate's
// sentinel is matched by prefix.
func confirmationRejected(res tools.Result) bool {
	return !res.OK && strings.HasPrefix(res.Error, tools.ErrConfirmationRequired.Error())
}

// batchRequest runs several read-only tools in one round trip.
type batchRequest struct {
	Calls   []tools.BatchCall `json:"calls"`
	Confirm bool              `json:"confirm"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid batch body: "+err.Error())
		return
	}

	if !req.Confirm {
		for _, call := range req.Calls {
			if s.registry.IsMutating(call.ToolName) {
				writeError(w, http.StatusForbidden, "confirmation_required",
					"batch contains mutating tool "+call.ToolName+" without confirm")
				return
			}
		}
	}

	results := s.registry.DispatchBatch(r.Context(), req.Calls, s.execContext(r))
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// pendingView is the client-facing shape of a stored proposal.
type pendingView struct {
	ID        string         `json:"id"`
	ToolName  string         `json:"toolName"`
	Arguments map[string]any `json:"arguments"`
	Summary   string         `json:"summary"`
	CreatedAt time.Time      `json:"createdAt"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

// handlePending returns a stored proposal. Foreign and expired proposals are
// both a plain 404; the caller cannot probe which.
func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	proposal, ok := s.pending.Get(id, r.Header.Get(headerUser))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "pending action not found")
		return
	}
	writeJSON(w, http.StatusOK, pendingView{
		ID:        proposal.ID,
		ToolName:  proposal.ToolName,
		Arguments: proposal.Arguments,
		Summary:   proposal.Summary,
		CreatedAt: proposal.CreatedAt,
		ExpiresAt: proposal.ExpiresAt,
	})
}

func (s *Server) handleSessionActions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId": id,
		"actions":   s.trail.ActionsBySession(id),
	})
}
