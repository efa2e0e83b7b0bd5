package ambulance

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// ArrivalDistribution samples the location of the next call on [0, 1]
type ArrivalDistribution interface {
	Sample(step int, r *rand.Rand) float64
}

// BetaArrivals draws arrivals from a Beta(Alpha, Beta) distribution
type BetaArrivals struct {
	Alpha float64
	Beta  float64
}

func (b BetaArrivals) Sample(_ int, r *rand.Rand) float64 {
	return distuv.Beta{Alpha: b.Alpha, Beta: b.Beta, Src: r}.Rand()
}

// UniformArrivals draws arrivals uniformly on [0, 1)
type UniformArrivals struct{}

func (UniformArrivals) Sample(_ int, r *rand.Rand) float64 {
	return r.Float64()
}

// FixedArrivals always returns the same location
type FixedArrivals float64

func (f FixedArrivals) Sample(_ int, _ *rand.Rand) float64 {
	return float64(f)
}

// GraphArrivalDistribution gives the probability of a call at each node
type GraphArrivalDistribution interface {
	Probabilities(step, numNodes int) []float64
}

// UniformNodeArrivals gives every node the same probability
type UniformNodeArrivals struct{}

func (UniformNodeArrivals) Probabilities(_ int, numNodes int) []float64 {
	probs := make([]float64, numNodes)
	for i := range probs {
		probs[i] = 1 / float64(numNodes)
	}
	return probs
}

// WeightedNodeArrivals uses fixed (unnormalized) weights for every node
type WeightedNodeArrivals []float64

func (w WeightedNodeArrivals) Probabilities(_ int, numNodes int) []float64 {
	probs := make([]float64, numNodes)
	copy(probs, w)
	return probs
}

// Validate rejects negative or non finite weights and weights that are all zero
func (w WeightedNodeArrivals) Validate() error {
	total := 0.0
	for i, v := range w {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return invalidConfig("arrival weight of node %d must be finite and non negative, got %f", i, v)
		}
		total += v
	}
	if total == 0 {
		return invalidConfig("arrival weights sum to zero")
	}
	return nil
}
