package csync

import "sync"

// Atomic is a lock-guarded cell holding a single value of any type.
// Swap and Modify are indivisible with respect to each other.
type Atomic[T any] struct {
	mu    sync.Mutex
	value T
}

// NewAtomic returns a cell holding v.
func NewAtomic[T any](v T) *Atomic[T] {
	return &Atomic[T]{value: v}
}

// Load returns a copy of the current value.
func (a *Atomic[T]) Load() T {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.value
}

// Store replaces the current value.
func (a *Atomic[T]) Store(v T) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.value = v
}

// Swap installs v and returns the previous value.
func (a *Atomic[T]) Swap(v T) T {
	a.mu.Lock()
	defer a.mu.Unlock()
	old := a.value
	a.value = v
	return old
}

// Modify runs fn with a pointer to the value under the lock.
func (a *Atomic[T]) Modify(fn func(*T)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(&a.value)
}

// ModifyErr is Modify for functions that can fail.
func (a *Atomic[T]) ModifyErr(fn func(*T) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn(&a.value)
}
