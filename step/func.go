package step

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

// FuncHandler adapts a Func to the Handler interface. It is immutable
// after construction and safe for concurrent use.
type FuncHandler struct {
	name   string
	fn     Func
	logger *slog.Logger
}

// FuncOption configures a FuncHandler.
type FuncOption func(*FuncHandler)

// WithLogger sets the logger used for panic reports and debug timing.
func WithLogger(l *slog.Logger) FuncOption {
	return func(h *FuncHandler) { h.logger = l }
}

// NewFunc wraps fn as a Handler named name.
func NewFunc(name string, fn Func, opts ...FuncOption) *FuncHandler {
	h := &FuncHandler{
		name:   name,
		fn:     fn,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name returns the handler's registered identifier.
func (h *FuncHandler) Name() string { return h.name }

// Call extracts the task context and dependency outputs from req, times
// the wrapped function, and converts its return into a Result.
func (h *FuncHandler) Call(ctx context.Context, req *Request) *Result {
	taskCtx := req.TaskContext()
	deps := req.DependencyOutputs()

	start := time.Now()
	output, panicked, err := h.invoke(ctx, req, taskCtx, deps)
	elapsed := elapsedSince(start)

	if panicked != nil {
		return panicked.withElapsed(elapsed)
	}
	if err != nil {
		h.logger.Debug("step handler failed",
			slog.String("callable", h.name),
			slog.String("step_id", req.StepID.String()),
			slog.Int64("elapsed_ms", elapsed),
			slog.Bool("retryable", IsRetryable(err)),
			slog.String("error", err.Error()),
		)
		return FailureFromError(req.StepID, err, elapsed)
	}

	h.logger.Debug("step handler succeeded",
		slog.String("callable", h.name),
		slog.String("step_id", req.StepID.String()),
		slog.Int64("elapsed_ms", elapsed),
	)
	return Success(req.StepID, output, elapsed)
}

// invoke calls the wrapped function inside a recover boundary.
func (h *FuncHandler) invoke(ctx context.Context, req *Request, taskCtx map[string]any, deps Deps) (out any, p *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			p = PanicFailure(h.logger, h.name, req, r)
		}
	}()
	out, err = h.fn(ctx, taskCtx, deps)
	return out, nil, err
}

// PanicFailure logs a recovered panic value with its stack and returns
// the generic non-retryable Failure reported in its place. Call it from
// inside the deferred recover so the stack still points at the fault.
func PanicFailure(logger *slog.Logger, callable string, req *Request, recovered any) *Result {
	logger.Error("step handler panicked",
		slog.String("callable", callable),
		slog.String("step_id", req.StepID.String()),
		slog.Any("panic", recovered),
		slog.String("stack", string(debug.Stack())),
	)
	r := Failure(req.StepID, fmt.Sprintf("step handler %q panicked", callable), false, 0)
	r.ErrorCode = CodePanic
	r.ErrorContext = map[string]any{"panic": fmt.Sprint(recovered)}
	return r
}

func (r *Result) withElapsed(ms int64) *Result {
	r.ElapsedMs = clampElapsed(ms)
	return r
}
