package input

import (
	"strings"
	"sync"
)

// Subscription is returned by Source.Subscribe.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe stops delivery. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.cancel == nil {
		return
	}
	s.once.Do(s.cancel)
}

// Queue buffers events pushed from any goroutine and hands them to
// subscribers when Dispatch is called.
type Queue struct {
	mu      sync.Mutex
	pending []Event

	handlers map[uint64]Handler
	order    []uint64
	nextID   uint64
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{handlers: make(map[uint64]Handler)}
}

// Push records an event for the next Dispatch.
func (q *Queue) Push(evt Event) {
	if q == nil {
		return
	}
	evt.Key = strings.ToLower(evt.Key)
	q.mu.Lock()
	q.pending = append(q.pending, evt)
	q.mu.Unlock()
}

// Subscribe registers h. Must be called from the tick thread.
func (q *Queue) Subscribe(h Handler) *Subscription {
	if q == nil || h == nil {
		return &Subscription{}
	}
	if q.handlers == nil {
		q.handlers = make(map[uint64]Handler)
	}
	q.nextID++
	id := q.nextID
	q.handlers[id] = h
	q.order = append(q.order, id)
	return &Subscription{cancel: func() { q.remove(id) }}
}

// Subscribers returns the number of live handlers.
func (q *Queue) Subscribers() int {
	if q == nil {
		return 0
	}
	return len(q.handlers)
}

// Dispatch delivers all buffered events in push order and returns how many
// were delivered. Must be called from the tick thread.
func (q *Queue) Dispatch() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	events := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, evt := range events {
		for _, id := range append([]uint64(nil), q.order...) {
			if h, ok := q.handlers[id]; ok {
				h(evt)
			}
		}
	}
	return len(events)
}

func (q *Queue) remove(id uint64) {
	delete(q.handlers, id)
	for i, v := range q.order {
		if v == id {
			q.order = append(q.order[:i], q.order[i+1:]...)
			return
		}
	}
}
