// Package weakbag provides a thread-safe collection of non-owning references.
//
// A Bag never keeps its entries alive. Entries whose referent was garbage
// collected are treated as absent and purged on the next Add, Remove,
// Snapshot or Compact.
package weakbag

import (
	"weak"

	"github.com/bnema/huewatch/internal/csync"
)

// minCompactThreshold is the size below which Add never bothers compacting.
const minCompactThreshold = 8

// Ref is a non-owning reference that resolves to a T while its referent is
// alive. Two refs made from the same pointer are identical.
type Ref[T any] struct {
	key     any
	resolve func() (T, bool)
}

// Make builds a reference to item, exposed as T through view.
// view must not capture item, or the reference becomes an owning one.
func Make[E, T any](item *E, view func(*E) T) Ref[T] {
	if item == nil {
		panic("weakbag: nil item")
	}
	wp := weak.Make(item)
	return Ref[T]{
		key: wp,
		resolve: func() (T, bool) {
			p := wp.Value()
			if p == nil {
				var zero T
				return zero, false
			}
			return view(p), true
		},
	}
}

// Of builds a reference that resolves to the pointer itself.
func Of[E any](item *E) Ref[*E] {
	return Make(item, func(p *E) *E { return p })
}

// Alive reports whether the referent still exists.
func (r Ref[T]) Alive() bool {
	_, ok := r.resolve()
	return ok
}

// Bag is an unordered set of weak references. Duplicates are allowed and
// each entry is reported separately by Snapshot.
type Bag[T any] struct {
	mu   csync.Mutex
	refs []Ref[T]
	// compactAt is the length at which Add compacts opportunistically.
	compactAt int
}

// New returns an empty bag.
func New[T any]() *Bag[T] {
	return &Bag[T]{compactAt: minCompactThreshold}
}

// Add inserts r.
func (b *Bag[T]) Add(r Ref[T]) {
	if r.resolve == nil {
		panic("weakbag: zero Ref")
	}
	b.mu.Do(func() {
		b.refs = append(b.refs, r)
	})

	// Never wait on a busy bag just to tidy it.
	b.mu.TryDo(func() {
		if len(b.refs) >= b.compactAt {
			b.compactLocked()
			b.compactAt = max(minCompactThreshold, 2*len(b.refs))
		}
	})
}

// Remove deletes every entry referring to the same object as r, along with
// any dead entries met on the way.
func (b *Bag[T]) Remove(r Ref[T]) {
	b.mu.Do(func() {
		kept := b.refs[:0]
		for _, ref := range b.refs {
			if ref.key == r.key || !ref.Alive() {
				continue
			}
			kept = append(kept, ref)
		}
		clear(b.refs[len(kept):])
		b.refs = kept
	})
}

// Snapshot returns the live referents. Liveness is judged when the lock is
// taken; a referent may die after Snapshot returns, but the returned values
// keep it reachable for as long as the caller holds them.
func (b *Bag[T]) Snapshot() []T {
	return csync.WithLock(&b.mu, func() []T {
		live := make([]T, 0, len(b.refs))
		kept := b.refs[:0]
		for _, ref := range b.refs {
			v, ok := ref.resolve()
			if !ok {
				continue
			}
			live = append(live, v)
			kept = append(kept, ref)
		}
		clear(b.refs[len(kept):])
		b.refs = kept
		return live
	})
}

// Compact purges dead entries and returns how many were removed.
func (b *Bag[T]) Compact() int {
	return csync.WithLock(&b.mu, b.compactLocked)
}

// Len returns the number of live entries.
func (b *Bag[T]) Len() int {
	return csync.WithLock(&b.mu, func() int {
		b.compactLocked()
		return len(b.refs)
	})
}

func (b *Bag[T]) compactLocked() int {
	kept := b.refs[:0]
	for _, ref := range b.refs {
		if ref.Alive() {
			kept = append(kept, ref)
		}
	}
	removed := len(b.refs) - len(kept)
	clear(b.refs[len(kept):])
	b.refs = kept
	return removed
}
