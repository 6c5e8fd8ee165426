package tools

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Dispatch looks up and runs a tool by name. Every failure mode is reported
// inside the Result: unknown names, missing required arguments, executor
// errors and executor panics all come back as {ok:false}, never as a fault
// that escapes the boundary.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any, ec ExecContext) Result {
	d := r.Get(name)
	if d == nil {
		return Result{OK: false, Error: fmt.Sprintf("Unknown tool: %s", name)}
	}
	if args == nil {
		args = map[string]any{}
	}

	for _, required := range d.Schema.Required {
		if _, ok := args[required]; !ok {
			return Result{OK: false, Error: fmt.Sprintf("%v: %s", ErrMissingRequiredArg, required)}
		}
	}

	return runExecutor(ctx, d, args, ec)
}

// DispatchGuarded enforces the transport-level confirmation gate before
// dispatching: a mutating tool without confirmed=true is rejected without
// execution. This is independent of the pending-action flow and exists as a
// second enforcement point for callers that bypass the orchestrator.
func (r *Registry) DispatchGuarded(ctx context.Context, name string, args map[string]any, ec ExecContext, confirmed bool) Result {
	if r.IsMutating(name) && !confirmed {
		return Result{OK: false, Error: fmt.Sprintf("%v: %s", ErrConfirmationRequired, name)}
	}
	return r.Dispatch(ctx, name, args, ec)
}

// DispatchBatch runs all calls concurrently. Sub-calls have no ordering
// dependency; results are paired with the original tool call ids and a failed
// sub-call never fails the batch.
func (r *Registry) DispatchBatch(ctx context.Context, calls []BatchCall, ec ExecContext) []BatchResult {
	results := make([]BatchResult, len(calls))

	g, ctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		g.Go(func() error {
			results[i] = BatchResult{
				ToolCallID: call.ToolCallID,
				Result:     r.Dispatch(ctx, call.ToolName, call.Args, ec),
			}
			return nil
		})
	}
	// Sub-calls never return errors; failures live in the individual results.
	_ = g.Wait()

	return results
}

// runExecutor invokes the executor inside the failure boundary.
func runExecutor(ctx context.Context, d *Descriptor, args map[string]any, ec ExecContext) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			res = Result{OK: false, Error: fmt.Sprintf("tool %s panicked: %v", d.Name, rec)}
		}
	}()

	data, err := d.Execute(ctx, args, ec)
	if err != nil {
		return Result{OK: false, Error: err.Error()}
	}
	return Result{OK: true, Data: data}
}
