package home

import (
	"sync"
	"time"
)

// Registry keeps one Controller per browser session and forgets the ones
// that have not been used for idleTTL.
type Registry struct {
	factory func() *Controller
	idleTTL time.Duration
	now     func() time.Time

	mu        sync.Mutex
	entries   map[string]*entry
	lastSweep time.Time
}

type entry struct {
	ctrl     *Controller
	lastUsed time.Time
}

func NewRegistry(factory func() *Controller, idleTTL time.Duration) *Registry {
	return &Registry{
		factory:   factory,
		idleTTL:   idleTTL,
		now:       time.Now,
		entries:   make(map[string]*entry),
		lastSweep: time.Now(),
	}
}

// Get returns the controller of the session, creating it on first use.
func (r *Registry) Get(key string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if r.idleTTL > 0 && now.Sub(r.lastSweep) >= r.idleTTL {
		r.sweepLocked(now)
	}

	e, ok := r.entries[key]
	if !ok {
		e = &entry{ctrl: r.factory()}
		r.entries[key] = e
	}
	e.lastUsed = now
	return e.ctrl
}

// Len returns the number of live controllers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) sweepLocked(now time.Time) {
	for key, e := range r.entries {
		if now.Sub(e.lastUsed) >= r.idleTTL {
			delete(r.entries, key)
		}
	}
	r.lastSweep = now
}
