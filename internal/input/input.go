// Package input delivers use actions to subscribers.
package input

import (
	"errors"
	"sort"
	"sync"

	"github.com/san-kum/spintop/internal/top"
)

// ErrUnsubscribed is returned when a subscription is closed twice.
var ErrUnsubscribed = errors.New("input: subscription already closed")

// Hub fans a use action out to every subscriber, in subscription order.
type Hub struct {
	mu       sync.Mutex
	handlers map[uint64]func()
	nextID   uint64
	fired    int
}

func NewHub() *Hub {
	return &Hub{handlers: make(map[uint64]func())}
}

// OnUse registers fn. It implements top.InputSource.
func (h *Hub) OnUse(fn func()) top.Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.handlers[id] = fn
	return &subscription{hub: h, id: id}
}

// Fire delivers one use action. Handlers run on the caller's goroutine
// outside the hub lock.
func (h *Hub) Fire() {
	h.mu.Lock()
	ids := make([]uint64, 0, len(h.handlers))
	for id := range h.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(), len(ids))
	for i, id := range ids {
		fns[i] = h.handlers[id]
	}
	h.fired++
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handlers)
}

func (h *Hub) Fired() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fired
}

type subscription struct {
	hub  *Hub
	id   uint64
	once sync.Once
}

func (s *subscription) Close() error {
	err := ErrUnsubscribed
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.handlers, s.id)
		s.hub.mu.Unlock()
		err = nil
	})
	return err
}
