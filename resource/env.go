package resource

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zeu5/or-suite/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// budget consumption above the remaining budget up to this tolerance is accepted
const budgetTolerance = 1e-9

// State is the remaining budget and the sizes of the types arriving this round
type State struct {
	Budget []float64 `cbor:"budget"`
	Types  []float64 `cbor:"types"`
}

var _ types.State = State{}

func (s State) Hash() string {
	return fmt.Sprintf("budget:%s,types:%s", formatVector(s.Budget), formatVector(s.Types))
}

func (s State) Copy() types.State {
	return State{
		Budget: append([]float64{}, s.Budget...),
		Types:  append([]float64{}, s.Types...),
	}
}

// Allocation of every commodity (columns) to every type (rows).
// Each individual of a type receives the row
type Allocation [][]float64

var _ types.Action = Allocation{}

func (a Allocation) Hash() string {
	rows := make([]string, len(a))
	for i, row := range a {
		rows[i] = formatVector(row)
	}
	return "[" + strings.Join(rows, ", ") + "]"
}

func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(f, 'f', 2, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Environment is the sequential resource allocation problem: at every round
// types of individuals arrive and the principal allocates its commodities
// to them. The reward is the Nash social welfare of the round
type Environment struct {
	config        *Config
	startingTypes []float64

	state    State
	timestep int
	rand     *rand.Rand
}

var _ types.Environment = &Environment{}
var _ types.ActionSampler = &Environment{}
var _ types.Seedable = &Environment{}

func NewEnvironment(config *Config, seed uint64) (*Environment, error) {
	if config == nil {
		return nil, invalidConfig("missing resource allocation config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	e := &Environment{
		config: config,
	}
	e.Seed(seed)
	return e, nil
}

// Seed replaces the random source and draws the types of the first round
func (e *Environment) Seed(seed uint64) {
	e.rand = types.NewRand(seed)
	e.startingTypes = e.config.Types.Sample(0, e.rand)
	e.Reset()
}

func (e *Environment) Config() types.EnvConfig {
	return e.config
}

// Reset restores the initial budget and the types of the first round
func (e *Environment) Reset() types.State {
	e.timestep = 0
	e.state = State{
		Budget: append([]float64{}, e.config.InitBudget...),
		Types:  append([]float64{}, e.startingTypes...),
	}
	return e.state.Copy()
}

func (e *Environment) Step(a types.Action) (types.State, float64, bool, types.Info, error) {
	allocation, ok := a.(Allocation)
	if !ok {
		return nil, 0, false, nil, invalidAction("expected an allocation, got %T", a)
	}
	numTypes := e.config.NumTypes()
	if len(allocation) != numTypes {
		return nil, 0, false, nil, invalidAction("expected %d allocation rows, got %d", numTypes, len(allocation))
	}
	for i, row := range allocation {
		if len(row) != e.config.K {
			return nil, 0, false, nil, invalidAction("allocation row %d has %d entries for %d commodities", i, len(row), e.config.K)
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return nil, 0, false, nil, invalidAction("allocation row %d has invalid entry %f", i, v)
			}
		}
	}

	oldTypes := e.state.Types
	consumption := make([]float64, e.config.K)
	for theta, row := range allocation {
		floats.AddScaled(consumption, oldTypes[theta], row)
	}
	for k, c := range consumption {
		if c > e.state.Budget[k]+budgetTolerance {
			return nil, 0, false, nil, invalidAction("allocation uses %f of commodity %d with %f remaining", c, k, e.state.Budget[k])
		}
	}

	reward := 0.0
	totalTypes := floats.Sum(oldTypes)
	if totalTypes > 0 {
		for theta, row := range allocation {
			if oldTypes[theta] == 0 {
				continue
			}
			reward += oldTypes[theta] * math.Log(e.config.Utility.Utility(row, e.config.WeightMatrix[theta]))
		}
		reward = reward / totalTypes
	}

	newBudget := make([]float64, e.config.K)
	floats.SubTo(newBudget, e.state.Budget, consumption)
	for k := range newBudget {
		if newBudget[k] < 0 {
			newBudget[k] = 0
		}
	}
	newTypes := e.config.Types.Sample(e.timestep+1, e.rand)

	e.state = State{Budget: newBudget, Types: newTypes}
	e.timestep += 1
	done := e.timestep >= e.config.NumRounds

	return e.state.Copy(), reward, done, types.Info{"type": append([]float64{}, newTypes...)}, nil
}

// SampleAction spends a random fraction of the remaining budget, split at
// random between the types arriving this round
func (e *Environment) SampleAction(r *rand.Rand) types.Action {
	numTypes := e.config.NumTypes()
	allocation := make(Allocation, numTypes)
	for theta := range allocation {
		allocation[theta] = make([]float64, e.config.K)
	}
	for k := 0; k < e.config.K; k++ {
		fraction := r.Float64()
		weights := make([]float64, numTypes)
		for theta := range weights {
			if e.state.Types[theta] > 0 {
				weights[theta] = r.Float64()
			}
		}
		total := floats.Sum(weights)
		if total == 0 {
			continue
		}
		for theta := range weights {
			if weights[theta] == 0 {
				continue
			}
			allocation[theta][k] = e.state.Budget[k] * fraction * (weights[theta] / total) / e.state.Types[theta]
		}
	}
	return allocation
}
