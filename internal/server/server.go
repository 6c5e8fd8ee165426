// Package server exposes the agent over HTTP. Turns stream as server-sent
// events; the remaining endpoints are plain JSON.
//
// Identity travels in headers: X-User-ID names the caller and X-Session-ID
// names the conversation. Both are opaque strings minted by the caller.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"dayflow/internal/agent"
	"dayflow/internal/pending"
	"dayflow/internal/session"
	"dayflow/internal/stream"
	"dayflow/internal/tools"
	"dayflow/internal/workspace"
)

const (
	headerUser    = "X-User-ID"
	headerSession = "X-Session-ID"
)

// SnapshotSource loads the persisted workspace state for a user. The server
// consults it when a turn request does not carry its own snapshot.
type SnapshotSource interface {
	Snapshot(ctx context.Context, userID string) (workspace.Snapshot, error)
}

// Server routes HTTP traffic to the orchestrator and registry.
type Server struct {
	orch      *agent.Orchestrator
	registry  *tools.Registry
	pending   *pending.Store
	trail     *session.Trail
	snapshots SnapshotSource
	encoder   *stream.Encoder
	logger    *zap.Logger
	now       func() time.Time
}

// Options configures a Server. Snapshots and Logger are optional.
type Options struct {
	Orchestrator *agent.Orchestrator
	Registry     *tools.Registry
	Pending      *pending.Store
	Trail        *session.Trail
	Snapshots    SnapshotSource

	// ChunkSize is the streaming token width; zero selects the default.
	ChunkSize int

	Logger *zap.Logger
	Now    func() time.Time
}

// New assembles a Server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		orch:      opts.Orchestrator,
		registry:  opts.Registry,
		pending:   opts.Pending,
		trail:     opts.Trail,
		snapshots: opts.Snapshots,
		encoder:   stream.NewEncoder(opts.ChunkSize),
		logger:    logger,
		now:       now,
	}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1/agent", func(r chi.Router) {
		r.Use(s.requireUser)
		r.Post("/turn", s.handleTurn)
		r.Post("/tools/batch", s.handleBatch)
		r.Post("/tools/{name}", s.handleTool)
		r.Get("/pending/{id}", s.handlePending)
		r.Get("/sessions/{id}/actions", s.handleSessionActions)
	})

	return r
}

// requestLogger logs one line per request after it finishes.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", s.now().Sub(start)))
	})
}

// requireUser rejects requests without a caller identity.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(headerUser) == "" {
			writeError(w, http.StatusUnauthorized, "missing_user", "X-User-ID header is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) execContext(r *http.Request) tools.ExecContext {
	return tools.ExecContext{
		UserID: r.Header.Get(headerUser),
		Now:    s.now(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorBody is the JSON error envelope shared by every non-stream endpoint.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]errorBody{"error": {Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
