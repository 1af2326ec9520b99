// Package debounce collapses bursts of triggers into one deferred action.
package debounce

import (
	"fmt"
	"time"

	"github.com/juju/clock"

	"github.com/bnema/huewatch/internal/csync"
)

// Executor runs a fired action. It decides the goroutine the action runs on.
type Executor func(action func())

// Inline runs the action on the timer's goroutine.
func Inline(action func()) {
	action()
}

// Debouncer holds at most one pending action. Scheduling again before the
// quiet interval elapses cancels the pending action and restarts the wait.
//
// States are Idle and Armed:
//
//	Idle  --Schedule-->            Armed
//	Armed --Schedule-->            Armed (cancel and replace)
//	Armed --interval elapsed-->    Idle  (action runs once)
//	Armed --Cancel/Flush-->        Idle
type Debouncer struct {
	clock    clock.Clock
	interval time.Duration
	exec     Executor

	mu     csync.Mutex
	timer  clock.Timer
	action func()
	// gen identifies the armed timer; a timer that fires after being
	// replaced or cancelled sees a newer gen and does nothing.
	gen uint64
}

// New returns an idle debouncer. A nil clock means the wall clock and a nil
// executor means Inline. A non-positive interval panics.
func New(clk clock.Clock, interval time.Duration, exec Executor) *Debouncer {
	if interval <= 0 {
		panic(fmt.Sprintf("debounce: interval must be positive, got %s", interval))
	}
	if clk == nil {
		clk = clock.WallClock
	}
	if exec == nil {
		exec = Inline
	}
	return &Debouncer{
		clock:    clk,
		interval: interval,
		exec:     exec,
	}
}

// Interval returns the quiet interval.
func (d *Debouncer) Interval() time.Duration {
	return d.interval
}

// Schedule arms the debouncer with action, replacing any pending one.
func (d *Debouncer) Schedule(action func()) {
	if action == nil {
		panic("debounce: nil action")
	}
	d.mu.Do(func() {
		d.stopLocked()
		d.gen++
		gen := d.gen
		d.action = action
		d.timer = d.clock.AfterFunc(d.interval, func() { d.fire(gen) })
	})
}

// Cancel drops the pending action. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	return csync.WithLock(&d.mu, func() bool {
		armed := d.timer != nil
		d.stopLocked()
		d.gen++
		return armed
	})
}

// Flush runs the pending action now, through the executor, instead of
// waiting for the interval. It reports whether an action was pending.
func (d *Debouncer) Flush() bool {
	action := csync.WithLock(&d.mu, func() func() {
		action := d.action
		d.stopLocked()
		d.gen++
		return action
	})
	if action == nil {
		return false
	}
	d.exec(action)
	return true
}

// Armed reports whether an action is pending.
func (d *Debouncer) Armed() bool {
	return csync.WithLock(&d.mu, func() bool { return d.timer != nil })
}

func (d *Debouncer) fire(gen uint64) {
	action := csync.WithLock(&d.mu, func() func() {
		if gen != d.gen {
			return nil
		}
		action := d.action
		d.timer, d.action = nil, nil
		return action
	})
	if action != nil {
		d.exec(action)
	}
}

// stopLocked must be called with d.mu held.
func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer, d.action = nil, nil
}
