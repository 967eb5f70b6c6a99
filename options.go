package subsample

import (
	"go.uber.org/zap"

	"github.com/luyoutao/sam-subsample/sample"
)

// Default values applied by Run when the corresponding option is absent.
const (
	// DefaultCapacity is the number of templates kept.
	DefaultCapacity = 5000
	// DefaultProgressEvery is the template interval between progress logs.
	DefaultProgressEvery = 1_000_000
)

// options defines all configuration options for a sampling run.
type options struct {
	capacity      int
	rng           sample.RNG
	policy        sample.Policy
	logger        *zap.Logger
	progressEvery uint64
	sorted        bool
	orderCheck    bool
}

// Option is a function that configures the run options.
type Option func(*options)

// WithCapacity sets the number of reservoir slots.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithSeed seeds the default PCG randomness source. The same seed over the
// same input keeps the same templates.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.rng = sample.NewPCG(seed)
	}
}

// WithRNG replaces the randomness source entirely. It overrides WithSeed.
func WithRNG(rng sample.RNG) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithPolicy selects the reservoir slot formula.
func WithPolicy(p sample.Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithLogger sets the logger for progress and diagnostics. The default
// discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgressEvery logs progress after every n templates. Zero disables
// progress logging.
func WithProgressEvery(n uint64) Option {
	return func(o *options) {
		o.progressEvery = n
	}
}

// WithSortedOutput emits retained templates ordered by name instead of by
// reservoir slot.
func WithSortedOutput() Option {
	return func(o *options) {
		o.sorted = true
	}
}

// WithOrderCheck fails the run when a grouping name reappears after its
// run has ended, instead of silently sampling the runs independently.
func WithOrderCheck() Option {
	return func(o *options) {
		o.orderCheck = true
	}
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		capacity:      DefaultCapacity,
		policy:        sample.PolicyCompat,
		logger:        zap.NewNop(),
		progressEvery: DefaultProgressEvery,
	}
}
