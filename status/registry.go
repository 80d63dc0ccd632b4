// Package status keeps named counters that running components update lock-free
package status

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Registry maps names to counters
// Components fetch a pointer once and then update it without the registry lock
type Registry struct {
	mu       sync.RWMutex
	counters map[string]*atomic.Int64
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{counters: make(map[string]*atomic.Int64)}
}

// Counter returns the counter for name, creating it at zero on first use
func (r *Registry) Counter(name string) *atomic.Int64 {
	r.mu.RLock()
	c, ok := r.counters[name]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another caller may have created it between the locks
	if c, ok := r.counters[name]; ok {
		return c
	}
	c = new(atomic.Int64)
	r.counters[name] = c
	return c
}

// Range calls fn for every counter in name order
func (r *Registry) Range(fn func(name string, value int64)) {
	r.mu.RLock()
	names := make([]string, 0, len(r.counters))
	for name := range r.counters {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)

	for _, name := range names {
		fn(name, r.Counter(name).Load())
	}
}

// Len returns the number of counters
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.counters)
}
