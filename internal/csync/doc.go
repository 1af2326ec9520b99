// Package csync provides scoped lock primitives.
//
// Every primitive takes the critical section as a function and releases the
// lock on every exit path, including a panic inside the function.
//
// Example usage:
//
//	var mu csync.Mutex
//	mu.Do(func() {
//		pending = append(pending, item)
//	})
//
//	// Opportunistic work that must never wait
//	if !mu.TryDo(compact) {
//		// someone else holds the lock, skip this round
//	}
//
//	snapshot := csync.NewRWLockWith(initial)
//	snapshot.Read(func(v Settings) { render(v) })
//	snapshot.Store(updated)
//
//	buffer := csync.NewAtomic(entity.ChangeSet{})
//	delivered := buffer.Swap(entity.ChangeSet{})
package csync
