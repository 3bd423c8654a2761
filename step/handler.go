package step

import "context"

// Handler executes one step. A single Handler value is shared by every
// worker, so implementations must be stateless or internally
// synchronized. Call never panics and never returns nil: every outcome,
// including faults, is reported as a Result.
type Handler interface {
	// Name returns the identifier the handler was registered under.
	Name() string

	// Call runs the step described by req. The context is passed through
	// to the step's work; this layer applies no deadline of its own.
	Call(ctx context.Context, req *Request) *Result
}

// Func is a plain step function: it receives the task context and the
// outputs of upstream steps and returns the step output or an error.
// Return a *Error (see Permanent, Transient) to classify failures.
type Func func(ctx context.Context, taskCtx map[string]any, deps Deps) (any, error)
