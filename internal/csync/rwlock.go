package csync

import "sync"

// RWLock guards a value that is read often and written rarely.
// Readers never block each other; a writer blocks readers only while the
// value is being replaced.
type RWLock[T any] struct {
	mu    sync.RWMutex
	value T
	set   bool
}

// NewRWLock returns a lock with no value yet. Reading it before the first
// Store or Write panics.
func NewRWLock[T any]() *RWLock[T] {
	return &RWLock[T]{}
}

// NewRWLockWith returns a lock holding v.
func NewRWLockWith[T any](v T) *RWLock[T] {
	return &RWLock[T]{value: v, set: true}
}

// Read runs fn with the value under the read lock.
func (l *RWLock[T]) Read(fn func(T)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.mustBeSet()
	fn(l.value)
}

// Load returns a copy of the value.
func (l *RWLock[T]) Load() T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.mustBeSet()
	return l.value
}

// Write runs fn with a pointer to the value under the write lock.
// The value counts as set afterwards.
func (l *RWLock[T]) Write(fn func(*T)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(&l.value)
	l.set = true
}

// Store replaces the value.
func (l *RWLock[T]) Store(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.value = v
	l.set = true
}

// IsSet reports whether a value was ever stored.
func (l *RWLock[T]) IsSet() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.set
}

func (l *RWLock[T]) mustBeSet() {
	if !l.set {
		panic("csync: RWLock read before any value was set")
	}
}
