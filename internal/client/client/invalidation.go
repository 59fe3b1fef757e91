package client

import (
	"context"
	"sync"
	"time"
)

// Invalidated is published when any service answers 401. The credential
// store has already been purged when subscribers run.
type Invalidated struct {
	Service string
	Method  string
	Path    string
	At      time.Time
}

type subscriber struct {
	id int
	fn func(context.Context, Invalidated)
}

// Invalidations fans session-invalidated events out to subscribers, in the
// order they subscribed.
type Invalidations struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscriber
}

func NewInvalidations() *Invalidations {
	return &Invalidations{}
}

// Subscribe registers fn and returns a function removing it.
func (h *Invalidations) Subscribe(fn func(context.Context, Invalidated)) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for i, s := range h.subs {
				if s.id == id {
					h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish calls every subscriber synchronously.
func (h *Invalidations) Publish(ctx context.Context, ev Invalidated) {
	h.mu.RLock()
	subs := make([]subscriber, len(h.subs))
	copy(subs, h.subs)
	h.mu.RUnlock()

	for _, s := range subs {
		s.fn(ctx, ev)
	}
}
