package random

import (
	"math/rand"
)

// Source is a stream of uniform draws in [0,1)
type Source interface {
	Next() float64

	// Compatible returns an independent source of the same kind
	Compatible() Source
}

// randSource adapts math/rand to Source
type randSource struct {
	rng *rand.Rand
}

// NewSource creates a deterministic source from a seed
func NewSource(seed int64) Source {
	return &randSource{rng: rand.New(rand.NewSource(seed))}
}

// Next returns the next uniform draw
func (s *randSource) Next() float64 {
	return s.rng.Float64()
}

// Compatible seeds a new source from this one, so a seeded job stays reproducible
func (s *randSource) Compatible() Source {
	return NewSource(s.rng.Int63())
}

// Canonical2 returns two independent uniform draws
func Canonical2(src Source) (float64, float64) {
	u := src.Next()
	v := src.Next()
	return u, v
}

// Bernoulli returns true with probability p, consuming exactly one draw
func Bernoulli(p float64, src Source) bool {
	return src.Next() < p
}
