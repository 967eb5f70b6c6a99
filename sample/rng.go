package sample

import (
	"math/rand/v2"
	"time"
)

// RNG yields uniform draws in [0, 1). The reservoir consumes exactly one
// draw per template once it is full, so two runs over the same input with
// the same RNG state keep the same templates. Implementations are not
// required to be safe for concurrent use; the pipeline is single threaded.
type RNG interface {
	Uniform() float64
}

type pcgSource struct {
	r *rand.Rand
}

// NewPCG returns the default RNG, a PCG generator seeded from a single
// value. The same seed always produces the same stream.
func NewPCG(seed uint64) RNG {
	return &pcgSource{r: rand.New(rand.NewPCG(seed, seed))}
}

// NewTimeSeeded returns a PCG generator seeded from the current wall clock
// in milliseconds. Two runs started in the same millisecond share a stream.
func NewTimeSeeded() RNG {
	return NewPCG(uint64(time.Now().UnixMilli()))
}

func (s *pcgSource) Uniform() float64 {
	return s.r.Float64()
}
