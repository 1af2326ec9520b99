package csync

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtomic_SwapReturnsPrevious(t *testing.T) {
	a := NewAtomic(1)

	assert.Equal(t, 1, a.Swap(2))
	assert.Equal(t, 2, a.Load())

	a.Store(5)
	assert.Equal(t, 5, a.Load())
}

func TestAtomic_SwapIsIndivisibleWithModify(t *testing.T) {
	a := NewAtomic(0)
	const writers, perWriter = 20, 200

	var collected int
	var collectMu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				a.Modify(func(v *int) { *v++ })
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			n := a.Swap(0)
			collectMu.Lock()
			collected += n
			collectMu.Unlock()
		}
	}()
	wg.Wait()

	// Every increment lands either in a swapped-out value or the final one.
	assert.Equal(t, writers*perWriter, collected+a.Load())
}

func TestAtomic_ModifyErr(t *testing.T) {
	a := NewAtomic("x")
	sentinel := errors.New("nope")

	err := a.ModifyErr(func(v *string) error {
		*v = "y"
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "y", a.Load())

	assert.Panics(t, func() {
		a.Modify(func(*string) { panic("boom") })
	})
	a.Store("z")
	assert.Equal(t, "z", a.Load())
}
