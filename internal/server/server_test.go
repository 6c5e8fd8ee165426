package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"dayflow/internal/agent"
	"dayflow/internal/pending"
	"dayflow/internal/session"
	"dayflow/internal/tools"
	"dayflow/internal/tools/notes"
	"dayflow/internal/workspace"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type memNotesStore struct {
	notes  []workspace.Note
	nextID int
}

func (s *memNotesStore) CreateNote(ctx context.Context, userID string, n workspace.Note) (workspace.Note, error) {
	s.nextID++
	n.ID = fmt.Sprintf("n%d", s.nextID)
	s.notes = append(s.notes, n)
	return n, nil
}

func (s *memNotesStore) UpdateNote(ctx context.Context, userID string, n workspace.Note) (workspace.Note, error) {
	return n, nil
}

func (s *memNotesStore) DeleteNote(ctx context.Context, userID, id string) error { return nil }

func (s *memNotesStore) ListNotes(ctx context.Context, userID string) ([]workspace.Note, error) {
	return s.notes, nil
}

type staticSnapshots struct {
	snap workspace.Snapshot
}

func (s staticSnapshots) Snapshot(ctx context.Context, userID string) (workspace.Snapshot, error) {
	return s.snap, nil
}

type fixture struct {
	srv     *httptest.Server
	store   *memNotesStore
	pending *pending.Store
	trail   *session.Trail
}

func newFixture(t *testing.T, snapshots SnapshotSource) *fixture {
	t.Helper()

	reg := tools.NewRegistry()
	store := &memNotesStore{}
	require.NoError(t, notes.Register(reg, store))

	pendingStore := pending.NewStore()
	trail := session.NewTrail()
	orch := agent.New(agent.Options{Registry: reg, Pending: pendingStore, Trail: trail})

	s := New(Options{
		Orchestrator: orch,
		Registry:     reg,
		Pending:      pendingStore,
		Trail:        trail,
		Snapshots:    snapshots,
		ChunkSize:    8,
	})

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return &fixture{srv: ts, store: store, pending: pendingStore, trail: trail}
}

func (f *fixture) do(t *testing.T, method, path, user, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	req.Header.Set("X-Session-ID", "s1")
	resp, err := f.srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return sb.String()
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, nil)
	resp := f.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"ok"`)
}

func TestAgentEndpointsRequireUser(t *testing.T) {
	f := newFixture(t, nil)
	resp := f.do(t, http.MethodPost, "/v1/agent/turn", "", `{"message":"hi"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "missing_user")
}

func TestTurn_StreamsFramesInOrder(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.do(t, http.MethodPost, "/v1/agent/turn", "u1",
		`{"sessionId":"s1","message":"create a note titled Release Plan"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "no", resp.Header.Get("X-Accel-Buffering"))

	body := readBody(t, resp)
	tok := strings.Index(body, "event: token")
	action := strings.Index(body, "event: action")
	done := strings.Index(body, "event: done")
	require.GreaterOrEqual(t, tok, 0, "body: %s", body)
	require.Greater(t, action, tok, "action frame must follow tokens")
	require.Greater(t, done, action, "done frame must be last")

	assert.Contains(t, body, "notes_create")
	// Nothing executed without confirmation.
	assert.Empty(t, f.store.notes)
}

func TestTurn_DecisionExecutesProposal(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.do(t, http.MethodPost, "/v1/agent/turn", "u1",
		`{"sessionId":"s1","message":"create a note titled Release Plan"}`)
	body := readBody(t, resp)

	// Pull the proposal id out of the action frame.
	start := strings.Index(body, "event: action\ndata: ")
	require.GreaterOrEqual(t, start, 0)
	jsonStart := start + len("event: action\ndata: ")
	jsonEnd := strings.Index(body[jsonStart:], "\n")
	var payload struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body[jsonStart:jsonStart+jsonEnd]), &payload))
	require.NotEmpty(t, payload.ID)

	resp = f.do(t, http.MethodPost, "/v1/agent/turn", "u1",
		fmt.Sprintf(`{"sessionId":"s1","decision":{"actionId":%q,"approved":true}}`, payload.ID))
	body = readBody(t, resp)
	assert.Contains(t, body, "event: done")

	require.Len(t, f.store.notes, 1)
	assert.Equal(t, "Release Plan", f.store.notes[0].Title)
}

func TestTurn_UnknownDecisionStreamsErrorFrame(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.do(t, http.MethodPost, "/v1/agent/turn", "u1",
		`{"sessionId":"s1","decision":{"actionId":"ghost","approved":true}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "event: error")
	assert.NotContains(t, body, "event: done")
}

func TestTurn_FillsSnapshotFromStore(t *testing.T) {
	f := newFixture(t, staticSnapshots{snap: workspace.Snapshot{
		Events: []workspace.CalendarEvent{{ID: "e1", Title: "Quarterly Review", Date: "2026-09-01"}},
	}})

	resp := f.do(t, http.MethodPost, "/v1/agent/turn", "u1",
		`{"sessionId":"s1","message":"what do I have coming up?"}`)
	body := readBody(t, resp)
	assert.Contains(t, body, "Quarterly Review")
}

func TestTool_MutatingRequiresConfirm(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.do(t, http.MethodPost, "/v1/agent/tools/notes_create", "u1",
		`{"arguments":{"title":"Direct"}}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "confirmation_required")
	assert.Empty(t, f.store.notes)

	resp = f.do(t, http.MethodPost, "/v1/agent/tools/notes_create", "u1",
		`{"arguments":{"title":"Direct"},"confirm":true}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"ok":true`)
	assert.Len(t, f.store.notes, 1)
}

func TestTool_UnknownNameIsResultNotStatus(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.do(t, http.MethodPost, "/v1/agent/tools/bogus", "u1", `{"arguments":{}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `"ok":false`)
	assert.Contains(t, body, "Unknown tool")
}

func TestBatch_ReadOnlyRunsWithoutConfirm(t *testing.T) {
	f := newFixture(t, nil)
	f.store.notes = append(f.store.notes, workspace.Note{ID: "n1", Title: "Seeded"})

	resp := f.do(t, http.MethodPost, "/v1/agent/tools/batch", "u1",
		`{"calls":[{"toolCallId":"c1","toolName":"notes_list","args":{}}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `"c1"`)
	assert.Contains(t, body, "Seeded")
}

func TestBatch_MutatingWithoutConfirmRejected(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.do(t, http.MethodPost, "/v1/agent/tools/batch", "u1",
		`{"calls":[{"toolCallId":"c1","toolName":"notes_create","args":{"title":"x"}}]}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, f.store.notes)
}

func TestPendingEndpoint_OwnerScoped(t *testing.T) {
	f := newFixture(t, nil)
	proposal := f.pending.Create("u1", "notes_create", map[string]any{"title": "x"}, "Create a note")

	resp := f.do(t, http.MethodGet, "/v1/agent/pending/"+proposal.ID, "u1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "notes_create")

	resp = f.do(t, http.MethodGet, "/v1/agent/pending/"+proposal.ID, "u2", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionActionsEndpoint(t *testing.T) {
	f := newFixture(t, nil)
	f.trail.RecordAction("s1", "notes_create", map[string]any{"title": "x"}, tools.Result{OK: true})
	f.trail.RecordAction("s2", "notes_delete", map[string]any{"id": "n9"}, tools.Result{OK: true})

	resp := f.do(t, http.MethodGet, "/v1/agent/sessions/s1/actions", "u1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "notes_create")
	assert.NotContains(t, body, "notes_delete")
}
