// Package policies holds learned agents that work across environments
package policies

import (
	"fmt"
	"math"
	"strconv"

	"github.com/zeu5/or-suite/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// QLearningConfig parameterizes the QLearningAgent
type QLearningConfig struct {
	// learning rate
	Alpha    float64
	Discount float64
	// probability of a uniformly random action
	Epsilon float64
	// softmax temperature, 0 picks greedily
	Temperature float64
	// value of unseen pairs
	Initial float64
}

func DefaultQLearningConfig() QLearningConfig {
	return QLearningConfig{
		Alpha:    0.1,
		Discount: 1,
		Epsilon:  0.1,
		Initial:  0,
	}
}

// QLearningAgent is a tabular finite horizon Q-learning agent. The table is
// indexed by the step and the state hash and the environment must list its
// actions (types.ActionEnumerator)
type QLearningAgent struct {
	config QLearningConfig
	qTable *QTable
	visits *QTable
	rand   *rand.Rand

	env   types.ActionEnumerator
	epLen int
}

var _ types.Agent = &QLearningAgent{}
var _ types.Seedable = &QLearningAgent{}

func NewQLearningAgent(config QLearningConfig, seed uint64) *QLearningAgent {
	return &QLearningAgent{
		config: config,
		qTable: NewQTable(),
		visits: NewQTable(),
		rand:   types.NewRand(seed),
	}
}

func (q *QLearningAgent) Seed(seed uint64) {
	q.rand = types.NewRand(seed)
}

func (q *QLearningAgent) Reset() {
	q.qTable = NewQTable()
	q.visits = NewQTable()
}

func (q *QLearningAgent) UpdateConfig(env types.Environment, config types.EnvConfig) error {
	enumerator, ok := env.(types.ActionEnumerator)
	if !ok {
		return fmt.Errorf("%w: q-learning needs an environment listing its actions, got %T", types.ErrInvalidConfiguration, env)
	}
	if q.config.Alpha <= 0 || q.config.Alpha > 1 {
		return fmt.Errorf("%w: q-learning rate must be in (0, 1], got %f", types.ErrInvalidConfiguration, q.config.Alpha)
	}
	if q.config.Temperature < 0 {
		return fmt.Errorf("%w: negative softmax temperature %f", types.ErrInvalidConfiguration, q.config.Temperature)
	}
	q.env = enumerator
	q.epLen = config.EpisodeLength()
	return nil
}

func key(step int, state types.State) string {
	return strconv.Itoa(step) + "|" + state.Hash()
}

func hashes(actions []types.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.Hash()
	}
	return out
}

// UpdateObs applies the Q-learning update to the observed transition.
// The value past the last step of the episode is zero
func (q *QLearningAgent) UpdateObs(oldState types.State, action types.Action, reward float64, newState types.State, step int, _ types.Info) {
	if q.env == nil {
		return
	}
	stateKey := key(step, oldState)
	actionHash := action.Hash()
	q.visits.Set(stateKey, actionHash, q.visits.Get(stateKey, actionHash, 0)+1)

	next := 0.0
	if step+1 < q.epLen {
		_, next = q.qTable.MaxAmong(key(step+1, newState), hashes(q.env.Actions(newState)), q.config.Initial)
	}
	cur := q.qTable.Get(stateKey, actionHash, q.config.Initial)
	q.qTable.Set(stateKey, actionHash, (1-q.config.Alpha)*cur+q.config.Alpha*(reward+q.config.Discount*next))
}

func (q *QLearningAgent) UpdatePolicy(_ int) {}

func (q *QLearningAgent) PickAction(state types.State, step int) (types.Action, error) {
	if q.env == nil {
		return nil, fmt.Errorf("%w: q-learning agent used before UpdateConfig", types.ErrInvalidConfiguration)
	}
	actions := q.env.Actions(state)
	if len(actions) == 0 {
		return nil, fmt.Errorf("%w: no actions in state %s", types.ErrInvalidConfiguration, state.Hash())
	}
	if q.rand.Float64() < q.config.Epsilon {
		return actions[q.rand.Intn(len(actions))], nil
	}

	stateKey := key(step, state)
	if q.config.Temperature > 0 {
		return q.softmax(stateKey, actions), nil
	}
	hs := hashes(actions)
	best, _ := q.qTable.MaxAmong(stateKey, hs, q.config.Initial)
	for i, h := range hs {
		if h == best {
			return actions[i], nil
		}
	}
	return actions[0], nil
}

func (q *QLearningAgent) softmax(stateKey string, actions []types.Action) types.Action {
	weights := make([]float64, len(actions))
	for i, a := range actions {
		weights[i] = q.qTable.Get(stateKey, a.Hash(), q.config.Initial) / q.config.Temperature
	}
	// shift by the max so that exp does not overflow
	top := floats.Max(weights)
	for i, w := range weights {
		weights[i] = math.Exp(w - top)
	}
	i, ok := sampleuv.NewWeighted(weights, q.rand).Take()
	if !ok {
		return actions[0]
	}
	return actions[i]
}

// Visits is the number of times the action was taken in the state at the step
func (q *QLearningAgent) Visits(step int, state types.State, action types.Action) int {
	return int(q.visits.Get(key(step, state), action.Hash(), 0))
}

// Value is the learned value of the action in the state at the step
func (q *QLearningAgent) Value(step int, state types.State, action types.Action) float64 {
	return q.qTable.Get(key(step, state), action.Hash(), q.config.Initial)
}
