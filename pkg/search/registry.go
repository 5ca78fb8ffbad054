package search

import "sync"

// Registry remembers every blog identifier seen during a run
type Registry struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]struct{})}
}

// Offer admits id and reports true the first time it is offered, false on
// every later offer. Check and insert happen under one lock.
func (r *Registry) Offer(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[id]; ok {
		return false
	}
	r.seen[id] = struct{}{}
	return true
}

// Seen reports whether id has been offered
func (r *Registry) Seen(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.seen[id]
	return ok
}

// Len returns the number of distinct identifiers seen
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}
