package lang

import (
	"math/rand/v2"

	"github.com/ardnew/veascript/log"
)

// DefaultMaxDepth is the default maximum nesting depth of blocks and
// parenthesized or negated math expressions.
// Users may modify this before parsing to change the default.
var DefaultMaxDepth = 100

// options holds parse and evaluation settings.
type options struct {
	maxDepth int
	rand     *rand.Rand
	logger   log.Logger // zero value discards
}

// Option configures parsing or evaluation behavior.
type Option func(*options)

// WithMaxDepth sets the maximum nesting depth accepted by the parser.
// Values below 1 are treated as 1.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = max(depth, 1)
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRand sets the source used to choose #random options.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}

// WithSeed makes #random selection deterministic for the given seed.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^pcgStream)))
}

// pcgStream decorrelates the two PCG state words derived from one seed.
const pcgStream = 0x9e3779b97f4a7c15

func makeOptions(opts ...Option) options {
	o := options{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// random returns the configured source, seeding one from the runtime
// generator on first use.
func (o *options) random() *rand.Rand {
	if o.rand == nil {
		o.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return o.rand
}
