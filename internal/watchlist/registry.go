package watchlist

import (
	"sync"
	"time"
)

// Registry keeps one ViewModel per browser session, standing in for the
// mounted view's lifetime. Entries are evicted after idle TTL or dropped
// explicitly on logout.
type Registry struct {
	mu    sync.Mutex
	views map[string]*registryEntry
	ttl   time.Duration
}

type registryEntry struct {
	vm       *ViewModel
	lastSeen time.Time
}

// NewRegistry creates a registry with the given idle TTL.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Registry{
		views: make(map[string]*registryEntry),
		ttl:   ttl,
	}
}

// Get returns the session's view-model, creating it with build on first use.
func (r *Registry) Get(sid string, build func() *ViewModel) *ViewModel {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictLocked()

	entry, ok := r.views[sid]
	if !ok {
		entry = &registryEntry{vm: build()}
		r.views[sid] = entry
	}
	entry.lastSeen = time.Now()
	return entry.vm
}

// Drop discards the session's view-model, if any.
func (r *Registry) Drop(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.views, sid)
}

// Len reports how many view-models are alive.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (r *Registry) evictLocked() {
	cutoff := time.Now().Add(-r.ttl)
	for sid, entry := range r.views {
		if entry.lastSeen.Before(cutoff) {
			delete(r.views, sid)
		}
	}
}
