// Package event provides an in-process event dispatcher backed by a bounded
// worker pool. Listeners run off the request path; when the pool is
// saturated the event is dispatched inline rather than dropped.
package event

import (
	"sync"

	"github.com/shashiranjanraj/sahyog/pkg/workerpool"
)

// Handler receives an event payload. Handlers must not assume they run on
// the goroutine that fired the event.
type Handler func(payload any)

// Bus routes named events to their listeners.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	pool     *workerpool.Pool
}

// NewBus creates a Bus with the given number of dispatch workers.
func NewBus(workers int) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		pool:     workerpool.New(workers),
	}
}

// Listen registers a handler for the given event name.
func (b *Bus) Listen(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], handler)
}

// Fire dispatches the event to every listener through the worker pool,
// falling back to inline execution under backpressure. It never blocks on
// the listeners themselves.
func (b *Bus) Fire(event string, payload any) {
	for _, h := range b.snapshot(event) {
		h := h
		if err := b.pool.Submit(func() { h(payload) }); err != nil {
			h(payload)
		}
	}
}

// FireSync runs every listener on the calling goroutine, in registration
// order. Used where the caller needs listener effects observed before
// continuing, and in tests.
func (b *Bus) FireSync(event string, payload any) {
	for _, h := range b.snapshot(event) {
		h(payload)
	}
}

// Close drains the worker pool. Events fired after Close run inline.
func (b *Bus) Close() {
	b.pool.Shutdown()
}

func (b *Bus) snapshot(event string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Handler, len(b.handlers[event]))
	copy(out, b.handlers[event])
	return out
}
