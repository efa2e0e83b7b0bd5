package resource

import (
	"github.com/zeu5/or-suite/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// number of draws used to estimate the expected type sizes
const defaultEndowmentSamples = 1000

// EqualAllocationAgent splits the initial budget over the rounds in
// proportion to the expected size of each type, so that every individual
// receives the same share and the budget is spent by the last round
type EqualAllocationAgent struct {
	samples int
	rand    *rand.Rand

	config *Config
	// expected size of each type (rows) at every round (columns)
	expected [][]float64
	total    float64
}

var _ types.Agent = &EqualAllocationAgent{}
var _ types.Seedable = &EqualAllocationAgent{}

func NewEqualAllocationAgent(seed uint64) *EqualAllocationAgent {
	return &EqualAllocationAgent{
		samples: defaultEndowmentSamples,
		rand:    types.NewRand(seed),
	}
}

func (a *EqualAllocationAgent) Seed(seed uint64) {
	a.rand = types.NewRand(seed)
}

func (a *EqualAllocationAgent) Reset() {}

func (a *EqualAllocationAgent) UpdateConfig(_ types.Environment, config types.EnvConfig) error {
	cfg, ok := config.(*Config)
	if !ok {
		return invalidConfig("equal allocation agent needs a resource allocation environment, got %T", config)
	}
	a.config = cfg
	a.expected = a.expectedEndowments()
	a.total = 0
	for _, row := range a.expected {
		a.total += floats.Sum(row)
	}
	if a.total <= 0 {
		return invalidConfig("expected type sizes sum to %f", a.total)
	}
	return nil
}

func (a *EqualAllocationAgent) expectedEndowments() [][]float64 {
	numTypes := a.config.NumTypes()
	expected := make([][]float64, numTypes)
	for theta := range expected {
		expected[theta] = make([]float64, a.config.NumRounds)
	}
	for step := 0; step < a.config.NumRounds; step++ {
		for i := 0; i < a.samples; i++ {
			sizes := a.config.Types.Sample(step, a.rand)
			for theta := 0; theta < numTypes && theta < len(sizes); theta++ {
				expected[theta][step] += sizes[theta]
			}
		}
		for theta := range expected {
			expected[theta][step] /= float64(a.samples)
		}
	}
	return expected
}

func (a *EqualAllocationAgent) UpdateObs(_ types.State, _ types.Action, _ float64, _ types.State, _ int, _ types.Info) {
}

func (a *EqualAllocationAgent) UpdatePolicy(_ int) {}

func (a *EqualAllocationAgent) PickAction(s types.State, step int) (types.Action, error) {
	if a.config == nil {
		return nil, invalidConfig("equal allocation agent used before UpdateConfig")
	}
	state, ok := s.(State)
	if !ok {
		return nil, invalidAction("equal allocation agent expects a resource allocation state, got %T", s)
	}
	if step >= a.config.NumRounds {
		step = a.config.NumRounds - 1
	}

	allocation := make(Allocation, a.config.NumTypes())
	consumption := make([]float64, a.config.K)
	for theta := range allocation {
		allocation[theta] = make([]float64, a.config.K)
		if state.Types[theta] == 0 {
			continue
		}
		share := a.expected[theta][step] / (state.Types[theta] * a.total)
		floats.AddScaled(allocation[theta], share, a.config.InitBudget)
		floats.AddScaled(consumption, state.Types[theta], allocation[theta])
	}

	// the realized sizes can be larger than expected, never spend more than what is left
	for k, c := range consumption {
		if c > state.Budget[k] && c > 0 {
			scale := state.Budget[k] / c
			for theta := range allocation {
				allocation[theta][k] *= scale
			}
		}
	}
	return allocation, nil
}
