package types

// Agent encapsulates a decision policy
type Agent interface {
	// Reset clears the memory accumulated during an iteration
	Reset()
	// UpdateConfig is called once per iteration after Reset with the
	// configuration of the environment the agent is about to act in
	UpdateConfig(Environment, EnvConfig) error
	// UpdateObs records an observed transition
	UpdateObs(oldState State, action Action, reward float64, newState State, step int, info Info)
	// UpdatePolicy is called at the start of every episode
	UpdatePolicy(episode int)
	// PickAction returns the action for the state at the given step
	PickAction(state State, step int) (Action, error)
}
