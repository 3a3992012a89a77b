package state

import "sync"

// Flow holds a current value and notifies observers of every new value.
// Observers run synchronously on the publishing goroutine, in publication
// order, and only see values published after they subscribed.
type Flow[T any] struct {
	mu        sync.Mutex
	value     T
	nextID    int
	observers map[int]func(T)
	order     []int
}

// NewFlow creates a flow holding initial
func NewFlow[T any](initial T) *Flow[T] {
	return &Flow[T]{
		value:     initial,
		observers: make(map[int]func(T)),
	}
}

// Value returns the current value
func (f *Flow[T]) Value() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Set publishes v
func (f *Flow[T]) Set(v T) {
	f.mu.Lock()
	f.value = v
	observers := make([]func(T), 0, len(f.order))
	for _, id := range f.order {
		observers = append(observers, f.observers[id])
	}
	f.mu.Unlock()

	for _, observe := range observers {
		observe(v)
	}
}

// Observe registers fn and returns a function that unregisters it
func (f *Flow[T]) Observe(fn func(T)) (cancel func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.observers[id] = fn
	f.order = append(f.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.observers, id)
			for i, oid := range f.order {
				if oid == id {
					f.order = append(f.order[:i], f.order[i+1:]...)
					break
				}
			}
		})
	}
}
