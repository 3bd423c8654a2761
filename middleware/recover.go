package middleware

import (
	"context"
	"log/slog"

	"github.com/xraph/tasker/step"
)

// Recover returns middleware that recovers from panics further down the
// chain, including handlers that are not built with step.NewFunc. The
// panic is logged with a stack trace and reported as a non-retryable
// Failure with error code step.CodePanic.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, req *step.Request, next Next) (res *step.Result) {
		defer func() {
			if r := recover(); r != nil {
				res = step.PanicFailure(logger, req.Callable, req, r)
			}
		}()
		return next(ctx)
	}
}
