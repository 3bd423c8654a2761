package step

import (
	"context"
	"encoding/json"
)

// TypedFunc is a step function whose task context is decoded into T
// before it runs.
type TypedFunc[T any] func(ctx context.Context, input T, deps Deps) (any, error)

// NewTyped wraps fn as a Handler. The task context is JSON-decoded into
// T; when decoding fails the step reports a permanent Failure with code
// CodeInvalidContext and fn is not called.
func NewTyped[T any](name string, fn TypedFunc[T], opts ...FuncOption) *FuncHandler {
	return NewFunc(name, func(ctx context.Context, taskCtx map[string]any, deps Deps) (any, error) {
		var input T
		if err := decodeContext(taskCtx, &input); err != nil {
			return nil, Permanentf("decode task context for %q: %v", name, err).WithCode(CodeInvalidContext)
		}
		return fn(ctx, input, deps)
	}, opts...)
}

// RegisterTyped wraps fn with NewTyped and registers it under name.
func RegisterTyped[T any](r *Registry, name string, fn TypedFunc[T], opts ...FuncOption) *FuncHandler {
	h := NewTyped(name, fn, opts...)
	r.Register(name, h)
	return h
}

func decodeContext(taskCtx map[string]any, v any) error {
	data, err := json.Marshal(taskCtx)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
