// Package store implements the client-side synchronization core: local
// observable state (session, cart, chat transcript) kept consistent with
// the backend under optimistic-update and rollback semantics. Each store
// owns one durable storage key and republishes a full snapshot to its
// subscribers on every state transition.
package store

import (
	"sync"

	"go.uber.org/zap"
)

// Listener receives the store's full snapshot after a state transition
type Listener[T any] func(T)

// Unsubscribe removes a previously registered listener. Calling it more
// than once is a no-op.
type Unsubscribe func()

// broadcaster fans a snapshot out to subscribers. Listeners are invoked
// synchronously, in subscription order, with panic recovery so one
// misbehaving subscriber cannot take down the rest.
type broadcaster[T any] struct {
	mu        sync.Mutex
	nextID    int
	order     []int
	listeners map[int]Listener[T]
	logger    *zap.Logger
}

func newBroadcaster[T any](logger *zap.Logger) *broadcaster[T] {
	return &broadcaster[T]{
		listeners: make(map[int]Listener[T]),
		logger:    logger,
	}
}

func (b *broadcaster[T]) subscribe(fn Listener[T]) Unsubscribe {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.order = append(b.order, id)
	b.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.listeners, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// publish delivers the snapshot to every listener registered at the time
// of the call. The listener list is snapshot under the lock; delivery
// happens outside it so a listener may subscribe or unsubscribe.
func (b *broadcaster[T]) publish(snapshot T) {
	b.mu.Lock()
	current := make([]Listener[T], 0, len(b.order))
	for _, id := range b.order {
		if fn, ok := b.listeners[id]; ok {
			current = append(current, fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range current {
		b.dispatch(fn, snapshot)
	}
}

func (b *broadcaster[T]) dispatch(fn Listener[T], snapshot T) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("listener panicked",
				zap.Any("panic", r),
			)
		}
	}()
	fn(snapshot)
}
