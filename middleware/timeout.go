package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/tasker/step"
)

// Timeout returns middleware that enforces a per-call deadline. The rest
// of the chain runs in its own goroutine with a context bounded by d.
// If the deadline passes first, a transient Failure with error code
// step.CodeTimeout is returned and the abandoned call's Result is
// discarded when it eventually finishes. If the caller's context ends
// first, the transient Failure carries step.CodeCanceled instead. A
// non-positive d disables the middleware.
func Timeout(logger *slog.Logger, d time.Duration) Middleware {
	return func(ctx context.Context, req *step.Request, next Next) *step.Result {
		if d <= 0 {
			return next(ctx)
		}

		callCtx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		done := make(chan *step.Result, 1)
		go func() {
			// Panics in this goroutine cannot reach an outer Recover.
			defer func() {
				if r := recover(); r != nil {
					done <- step.PanicFailure(logger, req.Callable, req, r)
				}
			}()
			done <- next(callCtx)
		}()

		select {
		case res := <-done:
			return res
		case <-callCtx.Done():
		}

		// The caller's context ended first: this is cancellation, not a
		// timeout of the step.
		if err := ctx.Err(); err != nil {
			logger.Warn("step cancelled",
				slog.String("callable", req.Callable),
				slog.String("step_id", req.StepID.String()),
				slog.String("error", err.Error()),
			)
			res := step.Failure(req.StepID, "step "+req.Callable+" cancelled: "+err.Error(), true, 0)
			res.ErrorCode = step.CodeCanceled
			return res
		}

		logger.Warn("step timed out",
			slog.String("callable", req.Callable),
			slog.String("step_id", req.StepID.String()),
			slog.Duration("timeout", d),
		)
		res := step.Failure(req.StepID, "step "+req.Callable+" timed out after "+d.String(), true, d.Milliseconds())
		res.ErrorCode = step.CodeTimeout
		return res
	}
}
