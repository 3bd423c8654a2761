// Package middleware provides composable middleware around step handler
// calls. Middleware run synchronously in the dispatching goroutine and
// can observe or replace the handler's Result (recover from panics,
// enforce deadlines, log, trace, etc.).
package middleware

import (
	"context"

	"github.com/xraph/tasker/step"
)

// Next invokes the rest of the chain and finally the step handler.
type Next func(ctx context.Context) *step.Result

// Middleware wraps a handler call with cross-cutting logic. It receives
// the current context, the request being executed, and the next function
// to call. Middleware MUST call next to continue the chain (unless
// short-circuiting) and MUST return a non-nil Result.
type Middleware func(ctx context.Context, req *step.Request, next Next) *step.Result

// Chain composes multiple middleware into a single Middleware.
// The first middleware in the list is the outermost wrapper.
//
// Example: Chain(logging, recover, timeout) executes as:
//
//	logging → recover → timeout → handler
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, req *step.Request, next Next) *step.Result {
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) *step.Result {
				return mw(ctx, req, prev)
			}
		}
		return h(ctx)
	}
}
