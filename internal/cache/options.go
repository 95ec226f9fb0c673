package cache

import (
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
)

// Unbounded is the max size of a cache that never evicts.
const Unbounded = -1

type options struct {
	maxSize int
	clock   func() time.Time
	seed    *uint64
	logger  zerolog.Logger
}

func defaultOptions() options {
	return options{
		maxSize: Unbounded,
		clock:   time.Now,
		logger:  zerolog.Nop(),
	}
}

// Option configures a Cache created by New.
type Option func(*options)

// WithMaxSize bounds the cache to n entries. Values below 1 leave the cache unbounded.
func WithMaxSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSize = n
		}
	}
}

// WithClock replaces time.Now as the source of recency timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithSeed makes random eviction deterministic.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = &seed
	}
}

// WithLogger sets the logger used to report evictions.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// intn returns the random picker used by Random eviction. Seeded caches own their
// generator; it is only used under the cache lock.
func (o options) intn() func(int) int {
	if o.seed == nil {
		return rand.IntN
	}
	r := rand.New(rand.NewPCG(*o.seed, *o.seed^0x9e3779b97f4a7c15))
	return r.IntN
}
