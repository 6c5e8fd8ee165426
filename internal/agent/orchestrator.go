// Package agent composes the intent classifier, context unifier, tool
// registry, pending-action store and session trail into one request/response
// turn.
//
// The safety contract lives here: a mutating tool is never executed from a
// fresh message. An action intent only produces a stored proposal; execution
// happens on a later turn that carries the proposal id and an explicit
// approval, and only for the user that created it.
package agent

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"dayflow/internal/intent"
	"dayflow/internal/pending"
	"dayflow/internal/reason"
	"dayflow/internal/session"
	"dayflow/internal/tools"
	"dayflow/internal/workspace"
)

// Orchestrator errors surfaced to the transport.
var (
	// ErrProposalNotFound covers expired, foreign and never-existing
	// proposals alike; the distinction is deliberately not exposed.
	ErrProposalNotFound = errors.New("pending action not found")

	// ErrMissingSession is returned when the caller supplied no session id.
	ErrMissingSession = errors.New("session id is required")

	// ErrMissingUser is returned when the caller supplied no user id.
	ErrMissingUser = errors.New("user id is required")
)

// Decision references a previously proposed action.
type Decision struct {
	ActionID string `json:"actionId"`
	Approved bool   `json:"approved"`
}

// TurnRequest is one user message plus its surrounding state.
type TurnRequest struct {
	SessionID string             `json:"sessionId"`
	UserID    string             `json:"-"`
	Message   string             `json:"message"`
	Snapshot  workspace.Snapshot `json:"snapshot,omitempty"`
	Decision  *Decision          `json:"decision,omitempty"`
}

// TurnResult is everything one turn produced.
type TurnResult struct {
	Text       string
	Language   string
	Intent     intent.Intent
	Pending    *pending.Proposal
	NavigateTo string
	Modules    []workspace.Module
}

// Orchestrator runs turns. All fields are required except responder.
type Orchestrator struct {
	registry  *tools.Registry
	pending   *pending.Store
	trail     *session.Trail
	responder reason.Responder
	maxChars  int
	logger    *zap.Logger
}

// Options configures an Orchestrator.
type Options struct {
	Registry *tools.Registry
	Pending  *pending.Store
	Trail    *session.Trail

	// Responder is optional; without one, query turns fall back to the
	// deterministic context summary.
	Responder reason.Responder

	// ContextMaxChars bounds the unified prompt fragment. Zero means the
	// workspace default.
	ContextMaxChars int

	Logger *zap.Logger
}

// New creates an Orchestrator.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		registry:  opts.Registry,
		pending:   opts.Pending,
		trail:     opts.Trail,
		responder: opts.Responder,
		maxChars:  opts.ContextMaxChars,
		logger:    logger,
	}
}

// Turn executes one request/response cycle.
func (o *Orchestrator) Turn(ctx context.Context, req TurnRequest, ec tools.ExecContext) (TurnResult, error) {
	if req.SessionID == "" {
		return TurnResult{}, ErrMissingSession
	}
	if ec.UserID == "" {
		return TurnResult{}, ErrMissingUser
	}

	if req.Decision != nil {
		return o.resolveDecision(ctx, req, ec)
	}
	return o.freshTurn(ctx, req, ec)
}

// resolveDecision consumes a stored proposal. The proposal is taken (looked
// up and removed atomically) before any dispatch so a duplicate submission
// reads as not-found instead of executing twice.
func (o *Orchestrator) resolveDecision(ctx context.Context, req TurnRequest, ec tools.ExecContext) (TurnResult, error) {
	lang := intent.DetectLanguage(req.Message)

	proposal, ok := o.pending.Take(req.Decision.ActionID, ec.UserID)
	if !ok {
		return TurnResult{}, fmt.Errorf("%w: %s", ErrProposalNotFound, req.Decision.ActionID)
	}

	if !req.Decision.Approved {
		o.logger.Info("pending action declined",
			zap.String("session", req.SessionID),
			zap.String("tool", proposal.ToolName))
		return TurnResult{Text: declineText(lang), Language: lang}, nil
	}

	result := o.registry.Dispatch(ctx, proposal.ToolName, proposal.Arguments, ec)
	o.trail.RecordAction(req.SessionID, proposal.ToolName, proposal.Arguments, result)
	if result.OK {
		itemType, kind := auditShape(proposal.ToolName)
		o.trail.RecordEvent(req.SessionID, ec.UserID, kind, itemType, itemIDFromResult(result))
	}

	o.logger.Info("pending action executed",
		zap.String("session", req.SessionID),
		zap.String("tool", proposal.ToolName),
		zap.Bool("ok", result.OK))

	return TurnResult{Text: dispatchText(lang, proposal.Summary, result), Language: lang}, nil
}

// freshTurn classifies the message and routes it.
func (o *Orchestrator) freshTurn(ctx context.Context, req TurnRequest, ec tools.ExecContext) (TurnResult, error) {
	it := intent.Classify(req.Message)
	lang := intent.DetectLanguage(req.Message)
	modules := intent.SelectModules(req.Message)
	unified := workspace.Unify(req.Snapshot, o.maxChars)

	res := TurnResult{Language: lang, Intent: it, Modules: modules}

	switch it.Type {
	case intent.TypeAction:
		proposal, ok := o.propose(req, ec, it, unified, lang)
		if !ok {
			res.Text = unknownText(lang)
			return res, nil
		}
		res.Pending = &proposal
		res.Text = confirmText(lang, proposal.Summary)

	case intent.TypeNavigate:
		res.NavigateTo = it.NavigateTo
		res.Text = navigateText(lang, it.NavigateTo)

	case intent.TypeQuery:
		res.Text = o.answer(ctx, req.Message, unified.PromptFragment, lang)

	case intent.TypeClarify:
		res.Text = clarifyText(lang)

	default:
		res.Text = unknownText(lang)
	}

	o.logger.Debug("turn resolved",
		zap.String("session", req.SessionID),
		zap.String("intent", string(it.Type)),
		zap.Int("entities", len(unified.Entities)))

	return res, nil
}

// propose builds and stores a pending action for an action intent.
func (o *Orchestrator) propose(req TurnRequest, ec tools.ExecContext, it intent.Intent, unified workspace.Unified, lang string) (pending.Proposal, bool) {
	toolName, ok := chooseTool(o.registry, it.ActionKind, intent.SelectModules(req.Message))
	if !ok {
		return pending.Proposal{}, false
	}

	args := buildArguments(req.Message, it.ActionKind, toolName, unified)
	summary := summarize(lang, it.ActionKind, toolName, args)

	proposal := o.pending.Create(ec.UserID, toolName, args, summary)
	o.logger.Info("pending action proposed",
		zap.String("session", req.SessionID),
		zap.String("tool", toolName),
		zap.String("proposal", proposal.ID))
	return proposal, true
}

// answer phrases a query response, falling back to the deterministic summary
// whenever the responder is absent or fails.
func (o *Orchestrator) answer(ctx context.Context, question, fragment, lang string) string {
	if o.responder != nil {
		text, err := o.responder.Answer(ctx, question, fragment, lang)
		if err == nil {
			return text
		}
		o.logger.Warn("responder failed, using fallback", zap.Error(err))
	}
	return reason.FallbackAnswer(question, fragment, lang)
}

// itemIDFromResult pulls the created/updated record id out of a dispatch
// result when the tool returned a domain struct or map.
func itemIDFromResult(res tools.Result) string {
	switch v := res.Data.(type) {
	case workspace.CalendarEvent:
		return v.ID
	case workspace.KanbanCard:
		return v.ID
	case workspace.Note:
		return v.ID
	case workspace.DailyItem:
		return v.ID
	case map[string]any:
		return tools.StringArg(v, "id")
	default:
		return ""
	}
}
