// Package viewmodel exposes the access layers as observable state for a
// UI: a busy flag, the outcome of the last write, and the current
// snapshot, refreshed in full after every successful write.
package viewmodel

import "sync"

// Value is a broadcast state container. Set stores a new snapshot and
// notifies subscribers synchronously; Subscribe delivers the current
// snapshot immediately.
type Value[T any] struct {
	mu      sync.Mutex
	current T
	nextID  uint64
	subs    map[uint64]func(T)
}

// NewValue creates a container holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		current: initial,
		subs:    make(map[uint64]func(T)),
	}
}

// Get returns the current snapshot.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set replaces the snapshot and notifies every subscriber.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	v.current = val
	fns := make([]func(T), 0, len(v.subs))
	for _, fn := range v.subs {
		fns = append(fns, fn)
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(val)
	}
}

// Subscribe registers fn, delivers the current snapshot to it at once,
// and returns a cancel function. Cancel is idempotent.
func (v *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	v.mu.Lock()
	v.nextID++
	id := v.nextID
	v.subs[id] = fn
	current := v.current
	v.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}
