package bandit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zeu5/or-suite/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Config of a finite armed Bernoulli bandit
type Config struct {
	EpLen    int
	ArmMeans []float64
}

var _ types.EnvConfig = &Config{}

func (c *Config) EpisodeLength() int {
	return c.EpLen
}

func DefaultConfig() *Config {
	return &Config{
		EpLen:    5,
		ArmMeans: []float64{0.1, 0.7, 0.2, 1},
	}
}

func (c *Config) Validate() error {
	if c.EpLen <= 0 {
		return fmt.Errorf("%w: episode length must be positive, got %d", types.ErrInvalidConfiguration, c.EpLen)
	}
	if len(c.ArmMeans) == 0 {
		return fmt.Errorf("%w: bandit needs at least one arm", types.ErrInvalidConfiguration)
	}
	for i, m := range c.ArmMeans {
		if m < 0 || m > 1 {
			return fmt.Errorf("%w: mean %f of arm %d outside [0, 1]", types.ErrInvalidConfiguration, m, i)
		}
	}
	return nil
}

// Arm to pull
type Arm int

var _ types.Action = Arm(0)

func (a Arm) Hash() string {
	return strconv.Itoa(int(a))
}

// Pulls counts the number of times each arm was pulled in the episode
type Pulls []int

var _ types.State = Pulls{}

func (p Pulls) Hash() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = strconv.Itoa(c)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (p Pulls) Copy() types.State {
	c := make(Pulls, len(p))
	copy(c, p)
	return c
}

// Environment is a finite armed bandit with Bernoulli rewards
type Environment struct {
	config   *Config
	state    Pulls
	timestep int
	rand     *rand.Rand
}

var _ types.Environment = &Environment{}
var _ types.ActionSampler = &Environment{}
var _ types.Seedable = &Environment{}
var _ types.ActionEnumerator = &Environment{}

func NewEnvironment(config *Config, seed uint64) (*Environment, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: missing bandit config", types.ErrInvalidConfiguration)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	e := &Environment{
		config: config,
		rand:   types.NewRand(seed),
	}
	e.Reset()
	return e, nil
}

func (e *Environment) Seed(seed uint64) {
	e.rand = types.NewRand(seed)
}

func (e *Environment) Config() types.EnvConfig {
	return e.config
}

func (e *Environment) Reset() types.State {
	e.timestep = 0
	e.state = make(Pulls, len(e.config.ArmMeans))
	return e.state.Copy()
}

func (e *Environment) Step(a types.Action) (types.State, float64, bool, types.Info, error) {
	arm, ok := a.(Arm)
	if !ok {
		return nil, 0, false, nil, fmt.Errorf("%w: expected an arm, got %T", types.ErrInvalidAction, a)
	}
	if int(arm) < 0 || int(arm) >= len(e.config.ArmMeans) {
		return nil, 0, false, nil, fmt.Errorf("%w: arm %d out of range [0, %d)", types.ErrInvalidAction, arm, len(e.config.ArmMeans))
	}

	mean := e.config.ArmMeans[arm]
	reward := distuv.Bernoulli{P: mean, Src: e.rand}.Rand()

	newState := e.state.Copy().(Pulls)
	newState[arm] += 1
	e.state = newState
	e.timestep += 1
	done := e.timestep >= e.config.EpLen

	return newState.Copy(), reward, done, types.Info{"mean": mean}, nil
}

func (e *Environment) SampleAction(r *rand.Rand) types.Action {
	return Arm(r.Intn(len(e.config.ArmMeans)))
}

// Actions lists every arm
func (e *Environment) Actions(_ types.State) []types.Action {
	out := make([]types.Action, len(e.config.ArmMeans))
	for i := range out {
		out[i] = Arm(i)
	}
	return out
}
