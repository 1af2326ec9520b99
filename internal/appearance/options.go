package appearance

import (
	"time"

	"github.com/juju/clock"
	"github.com/rs/zerolog"

	"github.com/bnema/huewatch/internal/application/port"
)

// DefaultInterval is the quiet period after the last signal before a
// broadcast goes out.
const DefaultInterval = 100 * time.Millisecond

type options struct {
	interval   time.Duration
	clock      clock.Clock
	dispatcher port.Dispatcher
	logger     zerolog.Logger
}

func defaultOptions() options {
	return options{
		interval: DefaultInterval,
		clock:    clock.WallClock,
		logger:   zerolog.Nop(),
	}
}

// Option configures an Aggregator.
type Option func(*options)

// WithInterval sets the debounce quiet interval.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		o.interval = d
	}
}

// WithClock sets the clock driving the debounce timer.
func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		if clk != nil {
			o.clock = clk
		}
	}
}

// WithDispatcher routes each broadcast delivery through d instead of running
// it on the aggregator's own goroutine.
func WithDispatcher(d port.Dispatcher) Option {
	return func(o *options) {
		o.dispatcher = d
	}
}

// WithLogger sets the logger used for delivery failures and diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
