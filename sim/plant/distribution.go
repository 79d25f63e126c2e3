package plant

import (
	"math"
	"math/rand"
)

// Sample draws max(0, N(mean, stddev)).
func (n Normal) Sample(rng *rand.Rand) float64 {
	return math.Max(0, rng.NormFloat64()*n.StdDev+n.Mean)
}

// exponential draws from an exponential distribution with the given mean.
func exponential(rng *rand.Rand, mean float64) float64 {
	return rng.ExpFloat64() * mean
}

// bernoulli draws one trial that succeeds with probability p.
func bernoulli(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}
