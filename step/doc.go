// Package step defines the step execution contract shared by the
// dispatch loop and step handlers: the [Request] a worker receives, the
// [Result] a handler produces, the [Handler] capability, the [Func]
// adapter that turns a plain function into a Handler, and the [Registry]
// that maps callable names to Handlers.
//
// # Writing a Handler
//
// Most handlers are plain functions of the task context and the outputs
// of upstream steps:
//
//	reg := step.NewRegistry()
//	reg.RegisterFunc("add_one", func(_ context.Context, _ map[string]any, deps step.Deps) (any, error) {
//	    var prev int
//	    if err := deps.Decode("prev", &prev); err != nil {
//	        return nil, step.Permanent(err.Error())
//	    }
//	    return prev + 1, nil
//	})
//
// When the task context has a known shape, [RegisterTyped] decodes it
// into a struct before the function runs.
//
// # Failure Classification
//
// Returned errors become Failure results. The message is taken verbatim.
// Whether the orchestrator may retry is decided by the error's [Class]:
// return [Transient] for conditions that may clear on their own and
// [Permanent] for everything else. Unclassified errors are not retryable.
//
// Panics inside a handler function are recovered and reported as a
// non-retryable Failure with error code "panic"; they never escape Call.
//
// # Registry
//
// [Registry] lookups read an immutable snapshot and never block. Each
// registration copies the table and publishes the copy atomically, so
// readers see either the old or the new table, never a mix.
package step
