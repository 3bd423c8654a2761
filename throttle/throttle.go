package throttle

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Config defines limits for a single callable.
type Config struct {
	// Callable is the handler name the limits apply to.
	Callable string

	// MaxConcurrency limits how many calls of this handler may run
	// simultaneously. Zero means no limit.
	MaxConcurrency int

	// RateLimit is the maximum sustained calls per second. Zero
	// disables rate limiting.
	RateLimit float64

	// RateBurst is the token-bucket burst size. Defaults to 1 if
	// RateLimit is set but RateBurst is zero.
	RateBurst int
}

// callableState tracks runtime state for a single callable. It is never
// mutated after construction; reconfiguration swaps in a new state.
type callableState struct {
	config  Config
	limiter *rate.Limiter
	slots   chan struct{}
}

func newCallableState(cfg Config) *callableState {
	cs := &callableState{config: cfg}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		cs.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	if cfg.MaxConcurrency > 0 {
		cs.slots = make(chan struct{}, cfg.MaxConcurrency)
	}
	return cs
}

// Manager holds per-callable limits. It is safe for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	callables map[string]*callableState
}

// NewManager creates a Manager with the given configurations.
func NewManager(configs ...Config) *Manager {
	m := &Manager{callables: make(map[string]*callableState, len(configs))}
	for _, cfg := range configs {
		m.callables[cfg.Callable] = newCallableState(cfg)
	}
	return m
}

// SetConfig replaces (or creates) the limits for cfg.Callable. Calls
// already holding a slot under the previous limits release it there.
func (m *Manager) SetConfig(cfg Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callables[cfg.Callable] = newCallableState(cfg)
}

func (m *Manager) state(callable string) *callableState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.callables[callable]
}

// Acquire blocks until callable may run under its rate and concurrency
// limits, or ctx is done. On success the caller MUST call release once
// the handler returns.
func (m *Manager) Acquire(ctx context.Context, callable string) (release func(), err error) {
	cs := m.state(callable)
	if cs == nil {
		return func() {}, nil
	}

	if cs.limiter != nil {
		if err := cs.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if cs.slots == nil {
		return func() {}, nil
	}

	select {
	case cs.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-cs.slots })
	}, nil
}

// TryAcquire is the non-blocking form of Acquire. It returns false when
// the callable is over either limit right now.
func (m *Manager) TryAcquire(callable string) (release func(), ok bool) {
	cs := m.state(callable)
	if cs == nil {
		return func() {}, true
	}

	if cs.slots != nil {
		select {
		case cs.slots <- struct{}{}:
		default:
			return nil, false
		}
	}

	if cs.limiter != nil && !cs.limiter.Allow() {
		if cs.slots != nil {
			<-cs.slots
		}
		return nil, false
	}

	if cs.slots == nil {
		return func() {}, true
	}
	var once sync.Once
	return func() {
		once.Do(func() { <-cs.slots })
	}, true
}

// ActiveCount returns how many calls of callable currently hold a slot.
// Always zero for callables without a concurrency limit.
func (m *Manager) ActiveCount(callable string) int {
	if cs := m.state(callable); cs != nil && cs.slots != nil {
		return len(cs.slots)
	}
	return 0
}
