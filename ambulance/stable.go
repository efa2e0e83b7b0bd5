package ambulance

import (
	"fmt"

	"github.com/zeu5/or-suite/types"
)

// StableAgent never moves the ambulances: the first action is the
// starting state and afterwards the most recently observed state.
// Works with both ambulance environments
type StableAgent struct {
	// states observed during the iteration
	data []types.State
}

var _ types.Agent = &StableAgent{}

func NewStableAgent() *StableAgent {
	return &StableAgent{
		data: make([]types.State, 0),
	}
}

func (s *StableAgent) Reset() {
	s.data = make([]types.State, 0)
}

func (s *StableAgent) UpdateConfig(_ types.Environment, _ types.EnvConfig) error {
	return nil
}

func (s *StableAgent) UpdateObs(_ types.State, _ types.Action, _ float64, newState types.State, _ int, _ types.Info) {
	s.data = append(s.data, newState)
}

// the policy does not depend on the observations
func (s *StableAgent) UpdatePolicy(_ int) {}

func (s *StableAgent) PickAction(state types.State, _ int) (types.Action, error) {
	next := state
	if len(s.data) > 0 {
		next = s.data[len(s.data)-1]
	}
	action, ok := next.Copy().(types.Action)
	if !ok {
		return nil, fmt.Errorf("%w: state %T cannot be used as an action", types.ErrInvalidAction, next)
	}
	return action, nil
}
