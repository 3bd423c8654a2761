package step

import (
	"fmt"
	"maps"
	"sort"
	"sync"
	"sync/atomic"
)

type table = map[string]Handler

// Registry maps callable names to Handlers. It is safe for concurrent
// use: lookups load an immutable snapshot without locking, and each
// write publishes a complete new snapshot with a single atomic store.
// The zero value is an empty registry ready for use.
type Registry struct {
	mu       sync.Mutex // serializes writers
	snapshot atomic.Pointer[table]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	empty := make(table)
	r.snapshot.Store(&empty)
	return r
}

func (r *Registry) load() table {
	if t := r.snapshot.Load(); t != nil {
		return *t
	}
	return nil
}

// update copies the current table, applies fn to the copy, and publishes
// it. The mutex is released by defer so a panic in fn cannot wedge
// later writers, and the partially built copy is never published.
func (r *Registry) update(fn func(next table)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.load()
	next := make(table, len(cur)+1)
	maps.Copy(next, cur)
	fn(next)
	r.snapshot.Store(&next)
}

// Register associates h with name, replacing any handler previously
// registered under that name. Handlers obtained from Get before the
// replacement remain valid. A nil handler is ignored.
func (r *Registry) Register(name string, h Handler) {
	if h == nil {
		return
	}
	r.update(func(next table) {
		next[name] = h
	})
}

// RegisterBatch registers every entry of handlers in a single snapshot
// swap, so readers observe all of them or none. Nil handlers are skipped.
func (r *Registry) RegisterBatch(handlers map[string]Handler) {
	r.update(func(next table) {
		for name, h := range handlers {
			if h != nil {
				next[name] = h
			}
		}
	})
}

// RegisterFunc wraps fn with NewFunc and registers it under name.
func (r *Registry) RegisterFunc(name string, fn Func, opts ...FuncOption) *FuncHandler {
	h := NewFunc(name, fn, opts...)
	r.Register(name, h)
	return h
}

// Get returns the handler registered under name.
// Returns false if no handler is registered.
func (r *Registry) Get(name string) (Handler, bool) {
	h, ok := r.load()[name]
	return h, ok
}

// Lookup is like Get but reports a missing handler as an error wrapping
// ErrHandlerNotFound.
func (r *Registry) Lookup(name string) (Handler, error) {
	h, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrHandlerNotFound, name)
	}
	return h, nil
}

// Available reports whether a handler is registered under name.
func (r *Registry) Available(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	t := r.load()
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int { return len(r.load()) }
