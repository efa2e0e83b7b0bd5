package types

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// RandomAgent picks a uniformly random valid action at every step.
// The environment must implement ActionSampler
type RandomAgent struct {
	rand    *rand.Rand
	sampler ActionSampler
}

var _ Agent = &RandomAgent{}
var _ Seedable = &RandomAgent{}

func NewRandomAgent(seed uint64) *RandomAgent {
	return &RandomAgent{
		rand: NewRand(seed),
	}
}

func (r *RandomAgent) Seed(seed uint64) {
	r.rand = NewRand(seed)
}

func (r *RandomAgent) Reset() {}

func (r *RandomAgent) UpdateConfig(env Environment, _ EnvConfig) error {
	sampler, ok := env.(ActionSampler)
	if !ok {
		return fmt.Errorf("%w: environment %T cannot sample random actions", ErrInvalidConfiguration, env)
	}
	r.sampler = sampler
	return nil
}

func (r *RandomAgent) UpdateObs(_ State, _ Action, _ float64, _ State, _ int, _ Info) {}

func (r *RandomAgent) UpdatePolicy(_ int) {}

func (r *RandomAgent) PickAction(_ State, _ int) (Action, error) {
	if r.sampler == nil {
		return nil, fmt.Errorf("%w: random agent used before UpdateConfig", ErrInvalidConfiguration)
	}
	return r.sampler.SampleAction(r.rand), nil
}
