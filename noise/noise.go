// Package noise supplies the random perturbations the waveform sampler adds
// on top of each deterministic sample.
package noise

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Generator produces normally distributed values with the Box-Muller
// transform over a seeded uniform source. It is not safe for concurrent use.
type Generator struct {
	uniform  distuv.Uniform
	spare    float64
	hasSpare bool
}

// New returns a Generator seeded with seed. A zero seed picks a random one.
func New(seed uint64) *Generator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Generator{
		uniform: distuv.Uniform{
			Min: 0,
			Max: 1,
			Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
		},
	}
}

// unit draws from (0,1). Zero is rejected so log(u) stays finite.
func (g *Generator) unit() float64 {
	for {
		if u := g.uniform.Rand(); u > 0 {
			return u
		}
	}
}

// Normal returns a standard normal variate. Box-Muller yields two per pair
// of draws; the second is kept for the next call.
func (g *Generator) Normal() float64 {
	if g.hasSpare {
		g.hasSpare = false
		return g.spare
	}
	u1 := g.unit()
	u2 := g.unit()
	r := math.Sqrt(-2 * math.Log(u1))
	theta := 2 * math.Pi * u2
	g.spare = r * math.Sin(theta)
	g.hasSpare = true
	return r * math.Cos(theta)
}

// Gaussian returns zero-mean noise with the given standard deviation.
// A zero stddev consumes no randomness.
func (g *Generator) Gaussian(stddev float64) float64 {
	if stddev == 0 {
		return 0
	}
	return stddev * g.Normal()
}

// Uniform returns a value in [lo, hi).
func (g *Generator) Uniform(lo, hi float64) float64 {
	return lo + g.uniform.Rand()*(hi-lo)
}
