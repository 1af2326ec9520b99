package csync

import "sync"

// Mutex is a mutual-exclusion lock with scoped acquisition.
// The zero value is an unlocked mutex.
type Mutex struct {
	mu sync.Mutex
}

// Do runs fn while holding the lock.
func (m *Mutex) Do(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
}

// DoErr runs fn while holding the lock and returns its error.
func (m *Mutex) DoErr(fn func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn()
}

// TryDo runs fn only if the lock is free right now.
// It reports whether fn ran.
func (m *Mutex) TryDo(fn func()) bool {
	if !m.mu.TryLock() {
		return false
	}
	defer m.mu.Unlock()
	fn()
	return true
}

// WithLock runs fn under m and returns its result.
func WithLock[T any](m *Mutex, fn func() T) T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn()
}
