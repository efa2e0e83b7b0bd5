package ambulance

import (
	"math"

	"github.com/zeu5/or-suite/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// MetricConfig configures the ambulance environment on the unit interval
type MetricConfig struct {
	// number of steps in an episode
	EpLen int
	// trade off between the cost of moving ambulances (Alpha) and the
	// cost of serving the call (1 - Alpha)
	Alpha         float64
	StartingState []float64
	NumAmbulance  int
	Arrivals      ArrivalDistribution
}

var _ types.EnvConfig = &MetricConfig{}

func (c *MetricConfig) EpisodeLength() int {
	return c.EpLen
}

// DefaultMetricConfig is a single ambulance starting at 0 with Beta(5, 2) arrivals
func DefaultMetricConfig() *MetricConfig {
	return &MetricConfig{
		EpLen:         5,
		Alpha:         0.25,
		StartingState: []float64{0.0},
		NumAmbulance:  1,
		Arrivals:      BetaArrivals{Alpha: 5, Beta: 2},
	}
}

func (c *MetricConfig) Validate() error {
	if c.EpLen <= 0 {
		return invalidConfig("episode length must be positive, got %d", c.EpLen)
	}
	if c.Alpha < 0 || c.Alpha > 1 {
		return invalidConfig("alpha must be in [0, 1], got %f", c.Alpha)
	}
	if c.NumAmbulance <= 0 {
		return invalidConfig("number of ambulances must be positive, got %d", c.NumAmbulance)
	}
	if len(c.StartingState) != c.NumAmbulance {
		return invalidConfig("starting state has %d locations for %d ambulances", len(c.StartingState), c.NumAmbulance)
	}
	for _, l := range c.StartingState {
		if !inUnit(l) {
			return invalidConfig("starting location %f outside [0, 1]", l)
		}
	}
	if c.Arrivals == nil {
		return invalidConfig("missing arrival distribution")
	}
	return nil
}

func inUnit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// MetricEnvironment places ambulances on [0, 1]. At every step the agent
// repositions the ambulances, a call arrives and the closest ambulance
// travels to it
type MetricEnvironment struct {
	config   *MetricConfig
	state    Locations
	timestep int
	rand     *rand.Rand
}

var _ types.Environment = &MetricEnvironment{}
var _ types.ActionSampler = &MetricEnvironment{}
var _ types.Seedable = &MetricEnvironment{}

func NewMetricEnvironment(config *MetricConfig, seed uint64) (*MetricEnvironment, error) {
	if config == nil {
		return nil, invalidConfig("missing metric ambulance config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	e := &MetricEnvironment{
		config: config,
		rand:   types.NewRand(seed),
	}
	e.Reset()
	return e, nil
}

func (e *MetricEnvironment) Seed(seed uint64) {
	e.rand = types.NewRand(seed)
}

func (e *MetricEnvironment) Config() types.EnvConfig {
	return e.config
}

func (e *MetricEnvironment) Reset() types.State {
	e.timestep = 0
	e.state = Locations(e.config.StartingState).Copy().(Locations)
	return e.state.Copy()
}

func (e *MetricEnvironment) Step(a types.Action) (types.State, float64, bool, types.Info, error) {
	action, ok := a.(Locations)
	if !ok {
		return nil, 0, false, nil, invalidAction("expected ambulance locations, got %T", a)
	}
	if len(action) != e.config.NumAmbulance {
		return nil, 0, false, nil, invalidAction("expected %d locations, got %d", e.config.NumAmbulance, len(action))
	}
	for _, l := range action {
		if !inUnit(l) {
			return nil, 0, false, nil, invalidAction("location %f outside [0, 1]", l)
		}
	}

	arrival := e.config.Arrivals.Sample(e.timestep, e.rand)
	closest := 0
	for i, l := range action {
		if math.Abs(l-arrival) < math.Abs(action[closest]-arrival) {
			closest = i
		}
	}

	moved := floats.Distance(e.state, action, 1)
	served := math.Abs(action[closest] - arrival)
	reward := -1 * (e.config.Alpha*moved + (1-e.config.Alpha)*served)

	newState := action.Copy().(Locations)
	newState[closest] = arrival

	e.state = newState
	e.timestep += 1
	done := e.timestep >= e.config.EpLen

	return newState.Copy(), reward, done, types.Info{"arrival": arrival}, nil
}

func (e *MetricEnvironment) SampleAction(r *rand.Rand) types.Action {
	action := make(Locations, e.config.NumAmbulance)
	for i := range action {
		action[i] = r.Float64()
	}
	return action
}
