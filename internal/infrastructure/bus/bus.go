// Package bus carries the process-local "cart changed elsewhere"
// notification between the shopping cart surface and checkout sessions.
package bus

import "sync"

type CartBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(cartID string)
}

func New() *CartBus {
	return &CartBus{subs: make(map[int]func(string))}
}

func (b *CartBus) Subscribe(fn func(cartID string)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

func (b *CartBus) Publish(cartID string) {
	b.mu.Lock()
	fns := make([]func(string), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	// Chamadas fora do lock: um subscriber pode publicar de novo.
	for _, fn := range fns {
		fn(cartID)
	}
}
