package worker

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/xraph/tasker/id"
	"github.com/xraph/tasker/step"
)

// Pool runs a fixed number of worker goroutines that take step requests
// off a channel, execute them, and forward each Result to a completion
// channel. Workers share the Executor (and therefore the registry and
// handlers) without any coordination between them.
type Pool struct {
	executor    *Executor
	concurrency int
	workerID    id.WorkerID
	logger      *slog.Logger
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithPoolConcurrency sets the number of concurrent worker goroutines.
// Values below 1 are treated as 1.
func WithPoolConcurrency(n int) PoolOption {
	return func(p *Pool) { p.concurrency = n }
}

// NewPool creates a worker pool.
func NewPool(executor *Executor, logger *slog.Logger, opts ...PoolOption) *Pool {
	p := &Pool{
		executor:    executor,
		concurrency: 10,
		workerID:    id.NewWorkerID(),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.concurrency < 1 {
		p.concurrency = 1
	}
	return p
}

// WorkerID returns the pool's unique worker identifier.
func (p *Pool) WorkerID() id.WorkerID { return p.workerID }

// Concurrency returns the number of worker goroutines Run starts.
func (p *Pool) Concurrency() int { return p.concurrency }

// Run starts the workers and blocks until requests is closed and drained
// or ctx is done. Every request taken off the channel yields exactly one
// Result on results, unless ctx ends while that Result is being sent.
// Run returns ctx.Err() when stopped by the context, nil otherwise.
func (p *Pool) Run(ctx context.Context, requests <-chan *step.Request, results chan<- *step.Result) error {
	p.logger.Info("worker pool starting",
		slog.String("worker_id", p.workerID.String()),
		slog.Int("concurrency", p.concurrency),
	)

	g, ctx := errgroup.WithContext(ctx)
	for range p.concurrency {
		g.Go(func() error {
			return p.loop(ctx, requests, results)
		})
	}

	err := g.Wait()
	if err != nil {
		p.logger.Info("worker pool stopped", slog.String("worker_id", p.workerID.String()), slog.String("reason", err.Error()))
		return err
	}
	p.logger.Info("worker pool drained", slog.String("worker_id", p.workerID.String()))
	return nil
}

// loop is run by each worker goroutine.
func (p *Pool) loop(ctx context.Context, requests <-chan *step.Request, results chan<- *step.Result) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req, ok := <-requests:
			if !ok {
				return nil
			}
			if req == nil {
				continue
			}

			res := p.executor.Execute(ctx, req)

			select {
			case results <- res:
			case <-ctx.Done():
				p.logger.Warn("dropping step result on shutdown",
					slog.String("step_id", req.StepID.String()),
					slog.String("callable", req.Callable),
				)
				return ctx.Err()
			}
		}
	}
}
