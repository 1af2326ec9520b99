// Package appearance turns raw appearance change signals into debounced
// broadcasts and keeps a cached snapshot of the settings.
package appearance

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/huewatch/internal/application/port"
	"github.com/bnema/huewatch/internal/csync"
	"github.com/bnema/huewatch/internal/debounce"
	"github.com/bnema/huewatch/internal/domain/entity"
	"github.com/bnema/huewatch/internal/weakbag"
)

// laneBuffer bounds the fires queued behind a slow delivery.
const laneBuffer = 16

// Compile-time interface check.
var _ port.ChangeSink = (*Aggregator)(nil)

// Token identifies a subscription.
type Token uint64

type subscription struct {
	token Token
	fn    func(entity.ChangeSet)
}

// Aggregator coalesces Notify calls into one broadcast per quiet window.
//
// A window closes when its quiet interval elapses or on Flush. At that moment
// the pending set is swapped out, so a later Notify starts the next window.
// Closed windows queue on a single lane goroutine and are delivered in the
// order they closed. Listeners are called on that goroutine
// unless a Dispatcher was configured, in which case each broadcast's whole
// delivery is handed to the dispatcher.
//
// An Aggregator owns a goroutine; call Close when done with it.
type Aggregator struct {
	logger     zerolog.Logger
	dispatcher port.Dispatcher

	pending   *csync.Atomic[entity.ChangeSet]
	debouncer *debounce.Debouncer
	listeners *weakbag.Bag[port.Notifiable]

	// closeMu keeps swap and enqueue together so lane order matches close order.
	closeMu csync.Mutex

	subsMu    csync.Mutex
	subs      []subscription
	once      []func(entity.ChangeSet)
	nextToken Token

	lane      chan func()
	done      chan struct{}
	wg        sync.WaitGroup
	closed    atomic.Bool
	closeOnce sync.Once
}

// New builds an aggregator and starts its lane goroutine.
func New(opts ...Option) *Aggregator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	a := &Aggregator{
		logger:     o.logger,
		dispatcher: o.dispatcher,
		pending:    csync.NewAtomic(entity.ChangeSet{}),
		listeners:  weakbag.New[port.Notifiable](),
		lane:       make(chan func(), laneBuffer),
		done:       make(chan struct{}),
	}
	a.debouncer = debounce.New(o.clock, o.interval, debounce.Inline)

	a.wg.Add(1)
	go a.run()
	return a
}

// Interval returns the debounce quiet interval.
func (a *Aggregator) Interval() time.Duration {
	return a.debouncer.Interval()
}

// Notify records kind for the current window and restarts the quiet
// interval. Safe to call from any goroutine. A kind outside the closed set
// panics.
func (a *Aggregator) Notify(kind entity.ChangeKind) {
	if !kind.Valid() {
		panic(fmt.Sprintf("appearance: notify with invalid change kind %d", uint8(kind)))
	}
	if a.closed.Load() {
		a.logger.Debug().Stringer("kind", kind).Msg("appearance: notify after close ignored")
		return
	}
	a.pending.Modify(func(cs *entity.ChangeSet) {
		cs.Add(kind)
		a.debouncer.Schedule(a.closeWindow)
	})
}

// Subscribe registers fn for every broadcast and returns its token.
func (a *Aggregator) Subscribe(fn func(entity.ChangeSet)) Token {
	if fn == nil {
		panic("appearance: nil subscriber")
	}
	return csync.WithLock(&a.subsMu, func() Token {
		a.nextToken++
		a.subs = append(a.subs, subscription{token: a.nextToken, fn: fn})
		return a.nextToken
	})
}

// Unsubscribe removes the subscription. Unknown tokens are ignored.
// A broadcast already being delivered may still reach the subscriber.
func (a *Aggregator) Unsubscribe(token Token) {
	a.subsMu.Do(func() {
		a.subs = slices.DeleteFunc(a.subs, func(s subscription) bool {
			return s.token == token
		})
	})
}

// Once registers fn for the next broadcast only.
func (a *Aggregator) Once(fn func(entity.ChangeSet)) {
	if fn == nil {
		panic("appearance: nil callback")
	}
	a.subsMu.Do(func() {
		a.once = append(a.once, fn)
	})
}

// RegisterWeak adds listener to the aggregator's weak registry. The
// aggregator never keeps the listener alive; once it is garbage collected it
// stops receiving broadcasts.
func RegisterWeak[L any, P interface {
	*L
	port.Notifiable
}](a *Aggregator, listener P) {
	a.listeners.Add(notifiableRef[L, P](listener))
}

// DeregisterWeak removes every registration of listener.
func DeregisterWeak[L any, P interface {
	*L
	port.Notifiable
}](a *Aggregator, listener P) {
	a.listeners.Remove(notifiableRef[L, P](listener))
}

func notifiableRef[L any, P interface {
	*L
	port.Notifiable
}](listener P) weakbag.Ref[port.Notifiable] {
	return weakbag.Make((*L)(listener), func(l *L) port.Notifiable { return P(l) })
}

// ListenerCount returns the number of live weak listeners.
func (a *Aggregator) ListenerCount() int {
	return a.listeners.Len()
}

// Flush closes the current window now instead of waiting for the quiet
// interval. It reports whether a window was pending. Kinds notified after
// Flush returns belong to the next window. Delivery still happens
// asynchronously on the lane.
func (a *Aggregator) Flush() bool {
	return a.debouncer.Flush()
}

// Close delivers any pending window, then stops the lane goroutine and waits
// for it. Safe to call more than once, but not from a listener.
func (a *Aggregator) Close() {
	a.closeOnce.Do(func() {
		a.closed.Store(true)
		a.debouncer.Flush()
		close(a.done)
		a.wg.Wait()
	})
}

// post queues action on the lane.
func (a *Aggregator) post(action func()) {
	select {
	case a.lane <- action:
	case <-a.done:
		a.logger.Debug().Msg("appearance: broadcast after close dropped")
	}
}

func (a *Aggregator) run() {
	defer a.wg.Done()
	for {
		select {
		case action := <-a.lane:
			action()
		case <-a.done:
			// Drain whatever was queued before Close.
			for {
				select {
				case action := <-a.lane:
					action()
				default:
					return
				}
			}
		}
	}
}

// closeWindow runs when the debouncer fires or is flushed. It takes the
// pending set and queues its broadcast on the lane.
func (a *Aggregator) closeWindow() {
	a.closeMu.Do(func() {
		changes := a.pending.Swap(entity.ChangeSet{})
		if changes.IsEmpty() {
			// A signal re-armed the timer just as the previous window was
			// swapped out; its kind went with that window.
			a.logger.Trace().Msg("appearance: empty window skipped")
			return
		}
		a.post(func() { a.broadcast(changes) })
	})
}

func (a *Aggregator) broadcast(changes entity.ChangeSet) {
	if changes.IsEmpty() {
		panic("appearance: broadcast of an empty change set")
	}

	var once []func(entity.ChangeSet)
	var subs []subscription
	a.subsMu.Do(func() {
		once, a.once = a.once, nil
		subs = slices.Clone(a.subs)
	})
	listeners := a.listeners.Snapshot()

	a.logger.Debug().
		Stringer("changes", changes).
		Int("subscribers", len(subs)+len(once)).
		Int("listeners", len(listeners)).
		Msg("appearance: broadcasting")

	deliver := func() {
		for _, fn := range once {
			a.deliver("once", fn, changes)
		}
		for _, s := range subs {
			a.deliver(fmt.Sprintf("subscription-%d", s.token), s.fn, changes)
		}
		for _, l := range listeners {
			a.deliver(fmt.Sprintf("%T", l), l.AppearanceChanged, changes)
		}
	}

	if a.dispatcher != nil {
		a.dispatcher(deliver)
		return
	}
	deliver()
}

// deliver calls fn, containing any panic so other listeners still run.
func (a *Aggregator) deliver(name string, fn func(entity.ChangeSet), changes entity.ChangeSet) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().
				Str("listener", name).
				Interface("panic", r).
				Stringer("changes", changes).
				Msg("appearance: listener panicked")
		}
	}()
	fn(changes)
}
