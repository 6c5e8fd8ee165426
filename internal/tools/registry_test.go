package tools

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayflow/internal/workspace"
)

func echoTool(name string, module workspace.Module, mutating bool) *Descriptor {
	return &Descriptor{
		Name:        name,
		Description: "echoes its input",
		Module:      module,
		Mutating:    mutating,
		Execute: func(ctx context.Context, args map[string]any, ec ExecContext) (any, error) {
			return args, nil
		},
	}
}

func testExecContext() ExecContext {
	return ExecContext{UserID: "u1", Now: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoTool("notes_list", workspace.ModuleNotes, false)))

	got := reg.Get("notes_list")
	require.NotNil(t, got)
	assert.Equal(t, "notes_list", got.Name)
	assert.True(t, reg.Has("notes_list"))
	assert.False(t, reg.Has("missing"))
}

func TestRegistry_DuplicateNameIsStartupError(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoTool("dupe", workspace.ModuleNotes, false)))

	err := reg.Register(echoTool("dupe", workspace.ModuleKanban, false))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateName)

	assert.Panics(t, func() {
		reg.MustRegister(echoTool("dupe", workspace.ModuleNotes, false))
	})
}

func TestRegistry_Validation(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register(&Descriptor{Name: "", Execute: func(ctx context.Context, args map[string]any, ec ExecContext) (any, error) { return nil, nil }})
	assert.ErrorIs(t, err, ErrNameEmpty)

	err = reg.Register(&Descriptor{Name: "no_exec"})
	assert.ErrorIs(t, err, ErrExecuteNil)
}

func TestRegistry_ByModules(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(echoTool("notes_create", workspace.ModuleNotes, true))
	reg.MustRegister(echoTool("notes_list", workspace.ModuleNotes, false))
	reg.MustRegister(echoTool("kanban_move_card", workspace.ModuleKanban, true))

	t.Run("empty set returns everything", func(t *testing.T) {
		assert.Len(t, reg.ByModules(nil), 3)
	})

	t.Run("single module", func(t *testing.T) {
		got := reg.ByModules([]workspace.Module{workspace.ModuleNotes})
		require.Len(t, got, 2)
		names := []string{got[0].Name, got[1].Name}
		sort.Strings(names)
		assert.Equal(t, []string{"notes_create", "notes_list"}, names)
	})

	t.Run("module with no tools", func(t *testing.T) {
		assert.Empty(t, reg.ByModules([]workspace.Module{workspace.ModuleCalendar}))
	})
}

func TestRegistry_IsMutating(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(echoTool("notes_create", workspace.ModuleNotes, true))
	reg.MustRegister(echoTool("notes_list", workspace.ModuleNotes, false))

	assert.True(t, reg.IsMutating("notes_create"))
	assert.False(t, reg.IsMutating("notes_list"))
	// Unknown names fail open on the read path.
	assert.False(t, reg.IsMutating("nope"))
}

func TestDispatch_UnknownToolReturnsResultNotError(t *testing.T) {
	reg := NewRegistry()

	res := reg.Dispatch(context.Background(), "ghost_tool", nil, testExecContext())
	assert.False(t, res.OK)
	assert.Equal(t, "Unknown tool: ghost_tool", res.Error)
}

func TestDispatch_MissingRequiredArg(t *testing.T) {
	reg := NewRegistry()
	d := echoTool("notes_create", workspace.ModuleNotes, true)
	d.Schema = Schema{Required: []string{"title"}}
	reg.MustRegister(d)

	res := reg.Dispatch(context.Background(), "notes_create", map[string]any{}, testExecContext())
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "title")
}

func TestDispatch_ExecutorErrorBecomesFailedResult(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(&Descriptor{
		Name:   "broken",
		Module: workspace.ModuleDaily,
		Execute: func(ctx context.Context, args map[string]any, ec ExecContext) (any, error) {
			return nil, errors.New("store unavailable")
		},
	})

	res := reg.Dispatch(context.Background(), "broken", nil, testExecContext())
	assert.False(t, res.OK)
	assert.Equal(t, "store unavailable", res.Error)
}

func TestDispatch_PanickingExecutorIsContained(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(&Descriptor{
		Name:   "grenade",
		Module: workspace.ModuleDaily,
		Execute: func(ctx context.Context, args map[string]any, ec ExecContext) (any, error) {
			panic("boom")
		},
	})

	res := reg.Dispatch(context.Background(), "grenade", nil, testExecContext())
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "boom")
}

func TestDispatchGuarded_MutatingWithoutConfirmationIsRejected(t *testing.T) {
	reg := NewRegistry()
	executed := false
	reg.MustRegister(&Descriptor{
		Name:     "notes_delete",
		Module:   workspace.ModuleNotes,
		Mutating: true,
		Execute: func(ctx context.Context, args map[string]any, ec ExecContext) (any, error) {
			executed = true
			return "deleted", nil
		},
	})

	res := reg.DispatchGuarded(context.Background(), "notes_delete", nil, testExecContext(), false)
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "requires confirmation")
	assert.False(t, executed, "executor must not run without confirmation")

	res = reg.DispatchGuarded(context.Background(), "notes_delete", nil, testExecContext(), true)
	assert.True(t, res.OK)
	assert.True(t, executed)
}

func TestDispatchGuarded_ReadToolNeedsNoConfirmation(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(echoTool("notes_list", workspace.ModuleNotes, false))

	res := reg.DispatchGuarded(context.Background(), "notes_list", nil, testExecContext(), false)
	assert.True(t, res.OK)
}

func TestDispatchBatch_CorrelatesByCallID(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(&Descriptor{
		Name:   "slowecho",
		Module: workspace.ModuleDaily,
		Execute: func(ctx context.Context, args map[string]any, ec ExecContext) (any, error) {
			return StringArg(args, "v"), nil
		},
	})
	reg.MustRegister(&Descriptor{
		Name:   "fails",
		Module: workspace.ModuleDaily,
		Execute: func(ctx context.Context, args map[string]any, ec ExecContext) (any, error) {
			return nil, errors.New("nope")
		},
	})

	calls := []BatchCall{
		{ToolCallID: "a", ToolName: "slowecho", Args: map[string]any{"v": "1"}},
		{ToolCallID: "b", ToolName: "fails"},
		{ToolCallID: "c", ToolName: "missing_tool"},
		{ToolCallID: "d", ToolName: "slowecho", Args: map[string]any{"v": "2"}},
	}

	results := reg.DispatchBatch(context.Background(), calls, testExecContext())
	require.Len(t, results, 4)

	byID := map[string]Result{}
	for _, r := range results {
		byID[r.ToolCallID] = r.Result
	}

	assert.True(t, byID["a"].OK)
	assert.Equal(t, "1", byID["a"].Data)
	// Partial failures never fail the batch.
	assert.False(t, byID["b"].OK)
	assert.False(t, byID["c"].OK)
	assert.True(t, byID["d"].OK)
	assert.Equal(t, "2", byID["d"].Data)
}
