// Package worker provides the step dispatch loop: an Executor that
// resolves a request's callable in the registry and invokes the handler
// through middleware, and a Pool that runs executors concurrently from a
// request channel to a completion channel.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/tasker/ext"
	"github.com/xraph/tasker/middleware"
	"github.com/xraph/tasker/step"
)

// Executor runs a single step request through middleware and the
// registered handler, then emits lifecycle events.
type Executor struct {
	registry   *step.Registry
	extensions *ext.Registry
	mw         middleware.Middleware
	logger     *slog.Logger
}

// NewExecutor creates an Executor with the given dependencies.
func NewExecutor(
	registry *step.Registry,
	extensions *ext.Registry,
	logger *slog.Logger,
	mws ...middleware.Middleware,
) *Executor {
	return &Executor{
		registry:   registry,
		extensions: extensions,
		mw:         middleware.Chain(mws...),
		logger:     logger,
	}
}

// Execute resolves req.Callable and runs the handler. It always returns
// a non-nil Result:
//   - no handler registered: a LookupFailure, and no handler is invoked
//   - handler returned: its Result, after middleware
//   - handler misbehaved (returned nil): a non-retryable Failure
func (e *Executor) Execute(ctx context.Context, req *step.Request) *step.Result {
	handler, err := e.registry.Lookup(req.Callable)
	if err != nil {
		return e.handleMissing(ctx, req, err)
	}

	e.extensions.EmitStepStarted(ctx, req)

	// The terminal handler that calls the registered step handler.
	terminal := func(ctx context.Context) *step.Result {
		res := handler.Call(ctx, req)
		if res == nil {
			return step.Failure(req.StepID, fmt.Sprintf("step handler %q returned no result", handler.Name()), false, 0)
		}
		return res
	}

	res := e.mw(ctx, req, terminal)
	if res == nil {
		res = step.Failure(req.StepID, fmt.Sprintf("middleware for %q returned no result", req.Callable), false, 0)
	}

	if res.IsSuccess() {
		e.extensions.EmitStepCompleted(ctx, req, res)
	} else {
		e.extensions.EmitStepFailed(ctx, req, res)
	}
	return res
}

// handleMissing reports a callable with no registered handler. This is a
// configuration or deployment defect, not a transient condition.
func (e *Executor) handleMissing(ctx context.Context, req *step.Request, err error) *step.Result {
	e.logger.Error("no handler registered for step",
		slog.String("error", err.Error()),
		slog.String("callable", req.Callable),
		slog.String("step_id", req.StepID.String()),
		slog.Int("registered_handlers", e.registry.Len()),
	)
	e.extensions.EmitHandlerMissing(ctx, req)
	return step.LookupFailure(req.StepID, req.Callable)
}
