package middleware

import (
	"context"

	"github.com/xraph/tasker/step"
	"github.com/xraph/tasker/throttle"
)

// Throttle returns middleware that waits for the callable's rate and
// concurrency limits before calling next. If ctx ends while waiting, a
// transient Failure with error code step.CodeThrottled is returned and
// the handler is not called.
func Throttle(m *throttle.Manager) Middleware {
	return func(ctx context.Context, req *step.Request, next Next) *step.Result {
		release, err := m.Acquire(ctx, req.Callable)
		if err != nil {
			res := step.FailureFromError(req.StepID, step.Wrap(step.ClassTransient, err), 0)
			res.ErrorCode = step.CodeThrottled
			return res
		}
		defer release()
		return next(ctx)
	}
}
