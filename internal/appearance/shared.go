package appearance

import (
	"sync"

	"github.com/bnema/huewatch/internal/logging"
)

var (
	shared     *Aggregator
	sharedOnce sync.Once
)

// Shared returns the process-wide aggregator, built with default options on
// first use. Components that can take an *Aggregator should be given one
// explicitly instead.
func Shared() *Aggregator {
	sharedOnce.Do(func() {
		logger := logging.NewFromEnv().With().Str("component", "appearance").Logger()
		shared = New(WithLogger(logger))
	})
	return shared
}
