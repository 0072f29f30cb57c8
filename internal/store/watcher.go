package store

import "sync"

// WatchHandle identifies one standing change subscription.
type WatchHandle struct {
	collection string
	id         uint64
}

// watcherRegistry tracks change callbacks per collection prefix.
type watcherRegistry struct {
	mu     sync.RWMutex
	nextID uint64
	byColl map[string]map[uint64]func(ChangeEvent)
}

func newWatcherRegistry() *watcherRegistry {
	return &watcherRegistry{
		byColl: make(map[string]map[uint64]func(ChangeEvent)),
	}
}

func (r *watcherRegistry) add(collection string, fn func(ChangeEvent)) *WatchHandle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	if r.byColl[collection] == nil {
		r.byColl[collection] = make(map[uint64]func(ChangeEvent))
	}
	r.byColl[collection][id] = fn

	return &WatchHandle{collection: collection, id: id}
}

// remove is idempotent; removing an already-removed or nil handle is a no-op.
func (r *watcherRegistry) remove(handle *WatchHandle) {
	if handle == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if callbacks, ok := r.byColl[handle.collection]; ok {
		delete(callbacks, handle.id)
		if len(callbacks) == 0 {
			delete(r.byColl, handle.collection)
		}
	}
}

func (r *watcherRegistry) notify(event ChangeEvent) {
	r.mu.RLock()
	callbacks := make([]func(ChangeEvent), 0, len(r.byColl[event.Collection]))
	for _, fn := range r.byColl[event.Collection] {
		callbacks = append(callbacks, fn)
	}
	r.mu.RUnlock()

	for _, fn := range callbacks {
		fn(event)
	}
}
