// Package sampler provides the random deviates used by the chromatin model.
package sampler

import (
	"errors"
	"math"
	"math/rand/v2"
)

// MaxPolarAttempts bounds the rejection loop in Normal. A healthy generator
// accepts a pair with probability pi/4, so the bound is only reached when the
// underlying stream is degenerate.
const MaxPolarAttempts = 1000

// ErrDegenerateSource is returned when the polar method cannot find an
// acceptable pair within MaxPolarAttempts draws.
var ErrDegenerateSource = errors.New("random source is degenerate")

// Sampler draws uniform and standard-normal deviates.
type Sampler interface {
	// Uniform01 returns a value in [0, 1).
	Uniform01() float64
	// Normal returns a standard-normal deviate.
	Normal() (float64, error)
}

// RandomSampler is a Sampler backed by a seeded PCG stream.
// It is not safe for concurrent use.
type RandomSampler struct {
	r    *rand.Rand
	seed uint64
}

// New creates a deterministic sampler from seed.
func New(seed uint64) *RandomSampler {
	return &RandomSampler{
		r:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// Seed returns the seed the sampler was created with.
func (s *RandomSampler) Seed() uint64 {
	return s.seed
}

// Uniform01 returns a uniform deviate in [0, 1).
func (s *RandomSampler) Uniform01() float64 {
	return s.r.Float64()
}

// Normal returns a standard-normal deviate using the polar method.
func (s *RandomSampler) Normal() (float64, error) {
	return Polar(s.Uniform01)
}

// Polar applies the Marsaglia polar method to a uniform [0,1) source.
// Pairs with S >= 1 or S == 0 are rejected and redrawn.
func Polar(uniform func() float64) (float64, error) {
	for range MaxPolarAttempts {
		v1 := 2*uniform() - 1
		v2 := 2*uniform() - 1
		s := v1*v1 + v2*v2
		if s >= 1 || s == 0 {
			continue
		}
		return v1 * math.Sqrt(-2*math.Log(s)/s), nil
	}
	return 0, ErrDegenerateSource
}
