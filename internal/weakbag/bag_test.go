package weakbag

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter interface {
	Greet() string
}

type listener struct {
	name string
	seen []string
}

func (l *listener) Greet() string { return l.name }

func asGreeter(l *listener) greeter { return l }

// addTransient registers a listener that nothing else references.
func addTransient(b *Bag[greeter], name string) {
	l := &listener{name: name, seen: make([]string, 0, 4)}
	b.Add(Make(l, asGreeter))
}

func collect() {
	runtime.GC()
	runtime.GC()
}

func names(items []greeter) []string {
	out := make([]string, len(items))
	for i, g := range items {
		out[i] = g.Greet()
	}
	return out
}

func TestBag_SnapshotReturnsLiveEntries(t *testing.T) {
	b := New[greeter]()
	a := &listener{name: "a"}
	c := &listener{name: "c"}

	b.Add(Make(a, asGreeter))
	b.Add(Make(c, asGreeter))

	assert.ElementsMatch(t, []string{"a", "c"}, names(b.Snapshot()))
	assert.Equal(t, 2, b.Len())

	runtime.KeepAlive(a)
	runtime.KeepAlive(c)
}

func TestBag_DeadEntriesArePurged(t *testing.T) {
	b := New[greeter]()
	keep := &listener{name: "keep"}
	b.Add(Make(keep, asGreeter))
	addTransient(b, "gone")

	collect()

	assert.Equal(t, []string{"keep"}, names(b.Snapshot()))
	assert.Equal(t, 0, b.Compact(), "snapshot already purged the dead entry")
	assert.Equal(t, 1, b.Len())

	runtime.KeepAlive(keep)
}

func TestBag_CompactIsIdempotent(t *testing.T) {
	b := New[greeter]()
	for i := 0; i < 3; i++ {
		addTransient(b, "transient")
	}

	collect()

	assert.Equal(t, 3, b.Compact())
	assert.Equal(t, 0, b.Compact())
	assert.Empty(t, b.Snapshot())
}

func TestBag_RemoveByIdentity(t *testing.T) {
	b := New[greeter]()
	first := &listener{name: "same"}
	second := &listener{name: "same"}

	b.Add(Make(first, asGreeter))
	b.Add(Make(second, asGreeter))
	b.Remove(Make(first, asGreeter))

	snap := b.Snapshot()
	require.Len(t, snap, 1)
	assert.Same(t, second, snap[0].(*listener), "equal values are distinct entries")

	runtime.KeepAlive(first)
}

func TestBag_DuplicatesEachReported(t *testing.T) {
	b := New[*listener]()
	l := &listener{name: "dup"}

	b.Add(Of(l))
	b.Add(Of(l))

	assert.Len(t, b.Snapshot(), 2)

	b.Remove(Of(l))
	assert.Empty(t, b.Snapshot(), "remove drops every matching entry")
}

func TestBag_RemoveAlsoPurgesDead(t *testing.T) {
	b := New[greeter]()
	stay := &listener{name: "stay"}
	drop := &listener{name: "drop"}
	addTransient(b, "dead")
	b.Add(Make(stay, asGreeter))
	b.Add(Make(drop, asGreeter))

	collect()
	b.Remove(Make(drop, asGreeter))

	assert.Equal(t, 0, b.Compact())
	assert.Equal(t, []string{"stay"}, names(b.Snapshot()))

	runtime.KeepAlive(stay)
	runtime.KeepAlive(drop)
}

func TestBag_DoesNotKeepReferentsAlive(t *testing.T) {
	b := New[*listener]()
	addAndForget := func() {
		b.Add(Of(&listener{name: "orphan", seen: []string{"x"}}))
	}
	addAndForget()

	collect()

	assert.Equal(t, 0, b.Len())
}

func TestBag_AddCompactsOpportunistically(t *testing.T) {
	b := New[greeter]()
	for i := 0; i < minCompactThreshold-1; i++ {
		addTransient(b, "churn")
	}
	collect()

	keep := &listener{name: "keep"}
	b.Add(Make(keep, asGreeter))

	// Reaching the threshold compacted everything dead away.
	assert.Equal(t, 0, b.Compact())
	assert.Equal(t, 1, b.Len())

	runtime.KeepAlive(keep)
}

func TestBag_ConcurrentMutationAndSnapshot(t *testing.T) {
	b := New[*listener]()
	held := make([]*listener, 64)
	for i := range held {
		held[i] = &listener{name: "held"}
	}

	var wg sync.WaitGroup
	for i := range held {
		wg.Add(1)
		go func(l *listener) {
			defer wg.Done()
			b.Add(Of(l))
			_ = b.Snapshot()
			b.Remove(Of(l))
			b.Add(Of(l))
		}(held[i])
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				for _, l := range b.Snapshot() {
					assert.Equal(t, "held", l.name)
				}
				b.Compact()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, b.Snapshot(), len(held))
	runtime.KeepAlive(held)
}

func TestMake_NilPanics(t *testing.T) {
	assert.Panics(t, func() { Of[listener](nil) })
	assert.Panics(t, func() { New[int]().Add(Ref[int]{}) })
}
