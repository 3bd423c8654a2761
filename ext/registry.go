package ext

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/tasker/step"
)

// Named entry types pair a hook implementation with the extension name
// captured at registration time.
type stepStartedEntry struct {
	name string
	hook StepStarted
}

type stepCompletedEntry struct {
	name string
	hook StepCompleted
}

type stepFailedEntry struct {
	name string
	hook StepFailed
}

type handlerMissingEntry struct {
	name string
	hook HandlerMissing
}

type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered extensions and dispatches lifecycle events
// to them. It type-caches extensions at registration time so emit calls
// iterate only over extensions that implement the relevant hook.
//
// Register extensions during composition, before workers start; emit
// methods may then be called from any number of goroutines.
type Registry struct {
	extensions []Extension
	logger     *slog.Logger

	stepStarted    []stepStartedEntry
	stepCompleted  []stepCompletedEntry
	stepFailed     []stepFailedEntry
	handlerMissing []handlerMissingEntry
	shutdown       []shutdownEntry
}

// NewRegistry creates an extension registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds an extension and type-asserts it into all applicable
// hook caches. Extensions are notified in registration order.
func (r *Registry) Register(e Extension) {
	r.extensions = append(r.extensions, e)
	name := e.Name()

	if h, ok := e.(StepStarted); ok {
		r.stepStarted = append(r.stepStarted, stepStartedEntry{name, h})
	}
	if h, ok := e.(StepCompleted); ok {
		r.stepCompleted = append(r.stepCompleted, stepCompletedEntry{name, h})
	}
	if h, ok := e.(StepFailed); ok {
		r.stepFailed = append(r.stepFailed, stepFailedEntry{name, h})
	}
	if h, ok := e.(HandlerMissing); ok {
		r.handlerMissing = append(r.handlerMissing, handlerMissingEntry{name, h})
	}
	if h, ok := e.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Extensions returns all registered extensions.
func (r *Registry) Extensions() []Extension { return r.extensions }

// EmitStepStarted notifies all extensions that implement StepStarted.
func (r *Registry) EmitStepStarted(ctx context.Context, req *step.Request) {
	for _, e := range r.stepStarted {
		r.run("OnStepStarted", e.name, func() error { return e.hook.OnStepStarted(ctx, req) })
	}
}

// EmitStepCompleted notifies all extensions that implement StepCompleted.
func (r *Registry) EmitStepCompleted(ctx context.Context, req *step.Request, res *step.Result) {
	for _, e := range r.stepCompleted {
		r.run("OnStepCompleted", e.name, func() error { return e.hook.OnStepCompleted(ctx, req, res) })
	}
}

// EmitStepFailed notifies all extensions that implement StepFailed.
func (r *Registry) EmitStepFailed(ctx context.Context, req *step.Request, res *step.Result) {
	for _, e := range r.stepFailed {
		r.run("OnStepFailed", e.name, func() error { return e.hook.OnStepFailed(ctx, req, res) })
	}
}

// EmitHandlerMissing notifies all extensions that implement HandlerMissing.
func (r *Registry) EmitHandlerMissing(ctx context.Context, req *step.Request) {
	for _, e := range r.handlerMissing {
		r.run("OnHandlerMissing", e.name, func() error { return e.hook.OnHandlerMissing(ctx, req) })
	}
}

// EmitShutdown notifies all extensions that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		r.run("OnShutdown", e.name, func() error { return e.hook.OnShutdown(ctx) })
	}
}

// run invokes a single hook. Errors and panics from hooks are logged and
// never propagated; they must not block the dispatch pipeline.
func (r *Registry) run(hook, extName string, fn func() error) {
	defer func() {
		if p := recover(); p != nil {
			r.logHookError(hook, extName, fmt.Errorf("panic: %v", p))
		}
	}()
	if err := fn(); err != nil {
		r.logHookError(hook, extName, err)
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
func (r *Registry) logHookError(hook, extName string, err error) {
	r.logger.Warn("extension hook error",
		slog.String("hook", hook),
		slog.String("extension", extName),
		slog.String("error", err.Error()),
	)
}
