package types

import "golang.org/x/exp/rand"

// Environment encapsulates one episodic MDP
type Environment interface {
	// Reset the environment to its configured starting state and return it
	Reset() State
	// Step applies the action and returns the next state, the reward,
	// whether the episode is done and side information.
	// Returns ErrInvalidAction when the action does not fit the environment
	Step(Action) (State, float64, bool, Info, error)
	// Config handed to agents at the start of every iteration
	Config() EnvConfig
}

// EnvConfig is the immutable configuration of an environment
type EnvConfig interface {
	// Number of steps in an episode
	EpisodeLength() int
}

// State of the environment as observed by the agent
type State interface {
	// Should be deterministic
	Hash() string
	// Copy returns a value that shares no storage with the receiver
	Copy() State
}

// Action picked by an agent
type Action interface {
	// Should be deterministic
	Hash() string
}

// Info is the side information returned by a step
type Info map[string]any

// Seedable components own a random source that the experiment seeds
// once at construction
type Seedable interface {
	Seed(uint64)
}

// ActionSampler draws a uniformly random valid action.
// Used by the RandomAgent
type ActionSampler interface {
	SampleAction(*rand.Rand) Action
}

// NewRand creates an explicitly owned random source
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// ActionEnumerator lists the valid actions in a state.
// Used by tabular agents
type ActionEnumerator interface {
	Actions(State) []Action
}
