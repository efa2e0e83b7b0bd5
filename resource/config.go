package resource

import (
	"fmt"

	"github.com/zeu5/or-suite/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// TypeDistribution samples the size of every type arriving at a round
type TypeDistribution interface {
	Sample(step int, r *rand.Rand) []float64
}

// UtilityFunction scores an allocation for a type with the given weights
type UtilityFunction interface {
	Utility(allocation, weights []float64) float64
}

// ConstantTypes arrive with the same sizes every round
type ConstantTypes []float64

func (c ConstantTypes) Sample(_ int, _ *rand.Rand) []float64 {
	out := make([]float64, len(c))
	copy(out, c)
	return out
}

// UniformIntTypes draws every type size uniformly from the integers in [Low, High]
type UniformIntTypes struct {
	NumTypes int
	Low      int
	High     int
}

func (u UniformIntTypes) Sample(_ int, r *rand.Rand) []float64 {
	out := make([]float64, u.NumTypes)
	for i := range out {
		out[i] = float64(u.Low + r.Intn(u.High-u.Low+1))
	}
	return out
}

// LinearUtility is the dot product of the allocation and the weights
type LinearUtility struct{}

func (LinearUtility) Utility(allocation, weights []float64) float64 {
	return floats.Dot(allocation, weights)
}

// Config of the sequential resource allocation problem
type Config struct {
	// number of commodities
	K int
	// number of rounds, also the length of an episode
	NumRounds int
	// every row is the commodity weights of a type
	WeightMatrix [][]float64
	InitBudget   []float64
	Types        TypeDistribution
	Utility      UtilityFunction
}

var _ types.EnvConfig = &Config{}

func (c *Config) EpisodeLength() int {
	return c.NumRounds
}

// NumTypes is the number of rows of the weight matrix
func (c *Config) NumTypes() int {
	return len(c.WeightMatrix)
}

// SimpleConfig is a single commodity with a budget of 3 and one unit sized type per round
func SimpleConfig() *Config {
	return &Config{
		K:            1,
		NumRounds:    3,
		WeightMatrix: [][]float64{{1}},
		InitBudget:   []float64{3},
		Types:        ConstantTypes{1},
		Utility:      LinearUtility{},
	}
}

// DefaultConfig has two commodities and three types with random sizes
func DefaultConfig() *Config {
	return &Config{
		K:            2,
		NumRounds:    3,
		WeightMatrix: [][]float64{{1, 0}, {0, 1}, {1, 1}},
		InitBudget:   []float64{150, 150},
		Types:        UniformIntTypes{NumTypes: 3, Low: 1, High: 50},
		Utility:      LinearUtility{},
	}
}

func (c *Config) Validate() error {
	if c.K <= 0 {
		return invalidConfig("number of commodities must be positive, got %d", c.K)
	}
	if c.NumRounds <= 0 {
		return invalidConfig("number of rounds must be positive, got %d", c.NumRounds)
	}
	if len(c.WeightMatrix) == 0 {
		return invalidConfig("empty weight matrix")
	}
	for i, row := range c.WeightMatrix {
		if len(row) != c.K {
			return invalidConfig("weight matrix row %d has %d entries for %d commodities", i, len(row), c.K)
		}
	}
	if len(c.InitBudget) != c.K {
		return invalidConfig("initial budget has %d entries for %d commodities", len(c.InitBudget), c.K)
	}
	for _, b := range c.InitBudget {
		if b < 0 {
			return invalidConfig("negative initial budget %f", b)
		}
	}
	if c.Types == nil {
		return invalidConfig("missing type distribution")
	}
	if c.Utility == nil {
		return invalidConfig("missing utility function")
	}
	if u, ok := c.Types.(UniformIntTypes); ok && (u.High < u.Low || u.NumTypes != c.NumTypes()) {
		return invalidConfig("uniform types %+v do not match %d types", u, c.NumTypes())
	}
	if ct, ok := c.Types.(ConstantTypes); ok && len(ct) != c.NumTypes() {
		return invalidConfig("constant types have %d sizes for %d types", len(ct), c.NumTypes())
	}
	return nil
}

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", types.ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

func invalidAction(format string, args ...any) error {
	return fmt.Errorf("%w: %s", types.ErrInvalidAction, fmt.Sprintf(format, args...))
}
