package handler

import (
	"sync"
	"time"
)

// liveTTL is how long an untouched quiz, round or board is kept.
const liveTTL = 2 * time.Hour

type closer interface{ Close() }

type liveEntry[T closer] struct {
	owner   int64
	value   T
	touched time.Time
}

// registry keeps in-progress activities in memory, keyed by id and owned by
// the learner who started them.
type registry[T closer] struct {
	mu    sync.Mutex
	items map[string]*liveEntry[T]
	ttl   time.Duration
	now   func() time.Time
}

func newRegistry[T closer](ttl time.Duration, now func() time.Time) *registry[T] {
	return &registry[T]{items: make(map[string]*liveEntry[T]), ttl: ttl, now: now}
}

func (r *registry[T]) put(id string, owner int64, v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	r.items[id] = &liveEntry[T]{owner: owner, value: v, touched: r.now()}
}

// get returns the entry only to its owner.
func (r *registry[T]) get(id string, owner int64) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok || e.owner != owner {
		var zero T
		return zero, false
	}
	e.touched = r.now()
	return e.value, true
}

func (r *registry[T]) remove(id string, owner int64) bool {
	r.mu.Lock()
	e, ok := r.items[id]
	if ok && e.owner == owner {
		delete(r.items, id)
	}
	r.mu.Unlock()
	if !ok || e.owner != owner {
		return false
	}
	e.value.Close()
	return true
}

// dropOwner closes everything a learner has open.
func (r *registry[T]) dropOwner(owner int64) {
	r.mu.Lock()
	var gone []T
	for id, e := range r.items {
		if e.owner == owner {
			gone = append(gone, e.value)
			delete(r.items, id)
		}
	}
	r.mu.Unlock()
	for _, v := range gone {
		v.Close()
	}
}

func (r *registry[T]) closeAll() {
	r.mu.Lock()
	items := r.items
	r.items = make(map[string]*liveEntry[T])
	r.mu.Unlock()
	for _, e := range items {
		e.value.Close()
	}
}

func (r *registry[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *registry[T]) sweepLocked() {
	cutoff := r.now().Add(-r.ttl)
	for id, e := range r.items {
		if e.touched.Before(cutoff) {
			delete(r.items, id)
			go e.value.Close()
		}
	}
}
