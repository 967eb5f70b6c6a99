package sample

import (
	"errors"
	"iter"

	"github.com/luyoutao/sam-subsample/group"
)

// Policy selects the slot formula used once the reservoir is full.
type Policy int

const (
	// PolicyCompat draws the candidate slot over the templates seen before
	// the current one: slot = floor(f * seen). The replacement probability
	// it induces is capacity/seen rather than capacity/(seen+1), so the
	// template arriving when seen equals capacity always enters the
	// reservoir. This reproduces the behavior of existing pipelines and is
	// the default.
	PolicyCompat Policy = iota
	// PolicyAlgorithmR draws over the seen+1 templates including the
	// current one: slot = floor(f * (seen+1)). Every template ends the run
	// with identical inclusion probability capacity/total.
	PolicyAlgorithmR
)

// ErrNegativeCapacity is returned by New when capacity is below zero.
var ErrNegativeCapacity = errors.New("sample: capacity must not be negative")

// Reservoir holds a uniform random sample of at most Cap templates drawn
// from a stream of unknown length in a single pass. Until full it admits
// every template; afterwards each arrival draws one slot candidate and
// either replaces that slot or is discarded.
type Reservoir struct {
	slots  []group.Template
	seen   uint64
	rng    RNG
	policy Policy
}

// Option configures a Reservoir.
type Option func(*Reservoir)

// WithRNG substitutes the randomness source.
func WithRNG(rng RNG) Option {
	return func(r *Reservoir) { r.rng = rng }
}

// WithSeed seeds the default PCG source. Equivalent to WithRNG(NewPCG(seed)).
func WithSeed(seed uint64) Option {
	return func(r *Reservoir) { r.rng = NewPCG(seed) }
}

// WithPolicy selects the slot formula. The default is PolicyCompat.
func WithPolicy(p Policy) Option {
	return func(r *Reservoir) { r.policy = p }
}

// New returns an empty reservoir with capacity slots. Without WithRNG or
// WithSeed the reservoir draws from a time-seeded PCG source.
func New(capacity int, opts ...Option) (*Reservoir, error) {
	if capacity < 0 {
		return nil, ErrNegativeCapacity
	}
	r := &Reservoir{slots: make([]group.Template, 0, capacity)}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = NewTimeSeeded()
	}
	return r, nil
}

// Observe applies the sampling decision to the next template of the stream.
// A full reservoir consumes exactly one draw per call; a filling one
// consumes none, so the draw sequence depends only on capacity and the
// number of templates, never on their contents.
func (r *Reservoir) Observe(t group.Template) {
	if len(r.slots) < cap(r.slots) {
		r.slots = append(r.slots, t)
		r.seen++
		return
	}

	k := r.seen
	if r.policy == PolicyAlgorithmR {
		k++
	}
	// float64 carries template counts exactly up to 2^53.
	if i := uint64(r.rng.Uniform() * float64(k)); i < uint64(cap(r.slots)) {
		r.slots[i] = t
	}
	r.seen++
}

// All walks the retained templates in slot order, which reflects the order
// replacements landed rather than stream order.
func (r *Reservoir) All() iter.Seq[group.Template] {
	return func(yield func(group.Template) bool) {
		for _, t := range r.slots {
			if !yield(t) {
				return
			}
		}
	}
}

// Len returns the number of retained templates.
func (r *Reservoir) Len() int { return len(r.slots) }

// Cap returns the slot capacity.
func (r *Reservoir) Cap() int { return cap(r.slots) }

// Seen returns how many templates have been observed.
func (r *Reservoir) Seen() uint64 { return r.seen }
