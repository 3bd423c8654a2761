package tasker

import (
	"log/slog"
	"time"

	"github.com/xraph/tasker/ext"
	"github.com/xraph/tasker/middleware"
	"github.com/xraph/tasker/step"
	"github.com/xraph/tasker/throttle"
)

// Option configures a Tasker.
type Option func(*Tasker) error

// WithConfig replaces the whole configuration. Options applied after it
// still override individual fields.
func WithConfig(cfg Config) Option {
	return func(t *Tasker) error {
		t.config = cfg
		return nil
	}
}

// WithConcurrency sets the number of steps executed in parallel.
func WithConcurrency(n int) Option {
	return func(t *Tasker) error {
		if n <= 0 {
			return ErrInvalidConcurrency
		}
		t.config.Concurrency = n
		return nil
	}
}

// WithStepTimeout bounds every handler call. Zero disables the deadline.
func WithStepTimeout(d time.Duration) Option {
	return func(t *Tasker) error {
		if d < 0 {
			return ErrInvalidTimeout
		}
		t.config.StepTimeout = d
		return nil
	}
}

// WithLogger sets the structured logger for the tasker and every
// component it builds.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tasker) error {
		if l == nil {
			return ErrNilLogger
		}
		t.logger = l
		return nil
	}
}

// WithRegistry uses an existing handler registry instead of a fresh one.
func WithRegistry(r *step.Registry) Option {
	return func(t *Tasker) error {
		if r == nil {
			return ErrNilRegistry
		}
		t.registry = r
		return nil
	}
}

// WithMiddleware appends middleware around every handler call. The first
// middleware given is the outermost.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(t *Tasker) error {
		t.middleware = append(t.middleware, mws...)
		return nil
	}
}

// WithExtension registers a lifecycle extension.
func WithExtension(e ext.Extension) Option {
	return func(t *Tasker) error {
		if e == nil {
			return ErrNilExtension
		}
		t.pendingExts = append(t.pendingExts, e)
		return nil
	}
}

// WithThrottle applies per-callable concurrency and rate limits.
func WithThrottle(configs ...throttle.Config) Option {
	return func(t *Tasker) error {
		if t.throttle == nil {
			t.throttle = throttle.NewManager()
		}
		for _, cfg := range configs {
			t.throttle.SetConfig(cfg)
		}
		return nil
	}
}
