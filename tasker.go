package tasker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/xraph/tasker/ext"
	"github.com/xraph/tasker/middleware"
	"github.com/xraph/tasker/step"
	"github.com/xraph/tasker/throttle"
	"github.com/xraph/tasker/worker"
)

// Tasker wires a handler registry, the middleware chain, lifecycle
// extensions and a worker pool into one dispatch loop.
//
// Create one with New() and functional options.
type Tasker struct {
	config      Config
	logger      *slog.Logger
	registry    *step.Registry
	extensions  *ext.Registry
	throttle    *throttle.Manager
	middleware  []middleware.Middleware
	pendingExts []ext.Extension

	executor *worker.Executor
	pool     *worker.Pool

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	shutdown bool
}

// New creates a new Tasker with the given options.
func New(opts ...Option) (*Tasker, error) {
	t := &Tasker{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	if err := t.config.validate(); err != nil {
		return nil, err
	}

	if t.registry == nil {
		t.registry = step.NewRegistry()
	}

	t.extensions = ext.NewRegistry(t.logger)
	for _, e := range t.pendingExts {
		t.extensions.Register(e)
	}
	t.pendingExts = nil

	t.executor = worker.NewExecutor(t.registry, t.extensions, t.logger, t.chain()...)
	t.pool = worker.NewPool(t.executor, t.logger, worker.WithPoolConcurrency(t.config.Concurrency))

	return t, nil
}

// chain builds the middleware stack: Recover outermost, then user
// middleware, then throttling and the step deadline closest to the
// handler so that queueing time does not count against the timeout.
func (t *Tasker) chain() []middleware.Middleware {
	mws := make([]middleware.Middleware, 0, len(t.middleware)+3)
	mws = append(mws, middleware.Recover(t.logger))
	mws = append(mws, t.middleware...)
	if t.throttle != nil {
		mws = append(mws, middleware.Throttle(t.throttle))
	}
	if t.config.StepTimeout > 0 {
		mws = append(mws, middleware.Timeout(t.logger, t.config.StepTimeout))
	}
	return mws
}

// Logger returns the tasker's logger.
func (t *Tasker) Logger() *slog.Logger { return t.logger }

// Config returns a copy of the tasker's configuration.
func (t *Tasker) Config() Config { return t.config }

// Registry returns the handler registry.
func (t *Tasker) Registry() *step.Registry { return t.registry }

// Extensions returns the extension registry.
func (t *Tasker) Extensions() *ext.Registry { return t.extensions }

// Executor returns the step executor.
func (t *Tasker) Executor() *worker.Executor { return t.executor }

// Throttle returns the throttle manager, or nil when throttling is off.
func (t *Tasker) Throttle() *throttle.Manager { return t.throttle }

// Execute runs a single step request synchronously.
func (t *Tasker) Execute(ctx context.Context, req *step.Request) *step.Result {
	return t.executor.Execute(ctx, req)
}

// Run executes requests until the channel is closed, ctx is done, or
// Shutdown is called. Exactly one result is sent on results for every
// request received. Only one Run may be active at a time.
func (t *Tasker) Run(ctx context.Context, requests <-chan *step.Request, results chan<- *step.Result) error {
	t.mu.Lock()
	if t.shutdown {
		t.mu.Unlock()
		return ErrShutdown
	}
	if t.done != nil {
		t.mu.Unlock()
		return ErrAlreadyRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done
	t.mu.Unlock()

	defer func() {
		cancel()
		t.mu.Lock()
		t.cancel = nil
		t.done = nil
		t.mu.Unlock()
		close(done)
	}()

	t.logger.Info("tasker started",
		"worker_id", t.pool.WorkerID().String(),
		"concurrency", t.pool.Concurrency(),
		"handlers", t.registry.Len(),
	)

	err := t.pool.Run(runCtx, requests, results)

	t.logger.Info("tasker stopped", "worker_id", t.pool.WorkerID().String())
	return err
}

// Shutdown stops an active Run, waits for it to return and notifies
// extensions. The wait is bounded by ctx and Config.ShutdownTimeout.
func (t *Tasker) Shutdown(ctx context.Context) error {
	t.mu.Lock()
	if t.shutdown {
		t.mu.Unlock()
		return nil
	}
	t.shutdown = true
	cancel, done := t.cancel, t.done
	t.mu.Unlock()

	var err error
	if cancel != nil {
		cancel()

		if t.config.ShutdownTimeout > 0 {
			var stop context.CancelFunc
			ctx, stop = context.WithTimeout(ctx, t.config.ShutdownTimeout)
			defer stop()
		}

		select {
		case <-done:
		case <-ctx.Done():
			err = ctx.Err()
			t.logger.Warn("shutdown timed out waiting for workers", "error", err)
		}
	}

	t.extensions.EmitShutdown(context.WithoutCancel(ctx))
	return err
}
