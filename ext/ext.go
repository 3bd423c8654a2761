package ext

import (
	"context"

	"github.com/xraph/tasker/step"
)

// Extension is the base interface all extensions must implement.
type Extension interface {
	// Name returns a unique human-readable name for the extension.
	Name() string
}

// StepStarted is called right before a registered handler is invoked.
type StepStarted interface {
	OnStepStarted(ctx context.Context, req *step.Request) error
}

// StepCompleted is called after a handler returns a Success result.
type StepCompleted interface {
	OnStepCompleted(ctx context.Context, req *step.Request, res *step.Result) error
}

// StepFailed is called after a handler returns a Failure result,
// including recovered panics and timeouts.
type StepFailed interface {
	OnStepFailed(ctx context.Context, req *step.Request, res *step.Result) error
}

// HandlerMissing is called when no handler is registered for the
// request's callable. The handler is never invoked in that case.
type HandlerMissing interface {
	OnHandlerMissing(ctx context.Context, req *step.Request) error
}

// Shutdown is called during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
