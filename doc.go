// Package tasker dispatches named steps to registered handlers.
//
// Handlers are ordinary Go functions registered under a callable name.
// A dispatch loop hands each step request to the handler named by the
// request and receives a uniform result: success with the handler's
// output, or failure with a message and a retry classification.
//
// # Quick Start
//
//	t, err := tasker.New(
//	    tasker.WithConcurrency(8),
//	    tasker.WithStepTimeout(30*time.Second),
//	)
//
//	t.Registry().RegisterFunc("add_one", func(ctx context.Context, _ map[string]any, deps step.Deps) (any, error) {
//	    var prev int
//	    if err := deps.Decode("prev", &prev); err != nil {
//	        return nil, step.Permanent(err)
//	    }
//	    return prev + 1, nil
//	})
//
//	err = t.Run(ctx, requests, results)
//
// # Architecture
//
// The step package owns the handler contract and the name-to-handler
// registry. The worker package looks handlers up and runs them through a
// middleware chain. Lifecycle hooks are emitted to extensions registered
// with the ext package; the observability package provides a Prometheus
// extension.
//
// All entity IDs are prefix-qualified UUIDv7 values (see package id).
package tasker
