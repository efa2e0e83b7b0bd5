package types

import (
	"errors"
	"strconv"

	"golang.org/x/exp/rand"
)

// counter environment used by the tests, the state counts the steps
// and the reward is drawn from the seeded random source

type counterState int

func (c counterState) Hash() string { return strconv.Itoa(int(c)) }
func (c counterState) Copy() State { return c }

type counterAction int

func (c counterAction) Hash() string { return strconv.Itoa(int(c)) }

type counterConfig struct {
	epLen int
}

func (c *counterConfig) EpisodeLength() int { return c.epLen }

type counterEnv struct {
	config   *counterConfig
	state    counterState
	rand     *rand.Rand
	failAt   int
	resets   int
	timestep int
}

var _ Environment = &counterEnv{}
var _ Seedable = &counterEnv{}
var _ ActionSampler = &counterEnv{}

var errBroken = errors.New("broken environment")

func newCounterEnv(epLen int) *counterEnv {
	return &counterEnv{
		config: &counterConfig{epLen: epLen},
		rand:   NewRand(0),
		failAt: -1,
	}
}

func (c *counterEnv) Seed(seed uint64) {
	c.rand = NewRand(seed)
}

func (c *counterEnv) Reset() State {
	c.resets += 1
	c.state = 0
	c.timestep = 0
	return c.state
}

func (c *counterEnv) Step(a Action) (State, float64, bool, Info, error) {
	action, ok := a.(counterAction)
	if !ok {
		return nil, 0, false, nil, ErrInvalidAction
	}
	if c.failAt >= 0 && c.timestep == c.failAt {
		return nil, 0, false, nil, errBroken
	}
	c.state += counterState(action)
	c.timestep += 1
	return c.state, c.rand.Float64(), c.timestep >= c.config.epLen, Info{"step": c.timestep}, nil
}

func (c *counterEnv) Config() EnvConfig {
	return c.config
}

func (c *counterEnv) SampleAction(r *rand.Rand) Action {
	return counterAction(r.Intn(3))
}

// recordingAgent always plays 1 and records the calls it receives
type recordingAgent struct {
	resets   int
	configs  int
	policies []int
	obs      int
}

var _ Agent = &recordingAgent{}

func (r *recordingAgent) Reset() { r.resets += 1 }
func (r *recordingAgent) UpdateConfig(_ Environment, _ EnvConfig) error { r.configs += 1; return nil }
func (r *recordingAgent) UpdateObs(_ State, _ Action, _ float64, _ State, _ int, _ Info) {
	r.obs += 1
}
func (r *recordingAgent) UpdatePolicy(episode int) { r.policies = append(r.policies, episode) }
func (r *recordingAgent) PickAction(_ State, _ int) (Action, error) {
	return counterAction(1), nil
}
