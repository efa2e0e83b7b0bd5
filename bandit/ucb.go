package bandit

import (
	"fmt"
	"math"

	"github.com/zeu5/or-suite/types"
	"gonum.org/v1/gonum/floats"
)

// UCBAgent plays the UCB1 index policy. Counts and reward sums are
// accumulated across the episodes of an iteration and the indices are
// recomputed at the start of every episode
type UCBAgent struct {
	numArms int
	counts  []float64
	sums    []float64
	indices []float64
}

var _ types.Agent = &UCBAgent{}

func NewUCBAgent() *UCBAgent {
	return &UCBAgent{}
}

func (u *UCBAgent) Reset() {
	u.counts = make([]float64, u.numArms)
	u.sums = make([]float64, u.numArms)
	u.indices = make([]float64, u.numArms)
}

func (u *UCBAgent) UpdateConfig(_ types.Environment, config types.EnvConfig) error {
	cfg, ok := config.(*Config)
	if !ok {
		return fmt.Errorf("%w: ucb agent needs a bandit environment, got %T", types.ErrInvalidConfiguration, config)
	}
	if u.numArms != len(cfg.ArmMeans) {
		u.numArms = len(cfg.ArmMeans)
		u.Reset()
	}
	return nil
}

func (u *UCBAgent) UpdateObs(_ types.State, action types.Action, reward float64, _ types.State, _ int, _ types.Info) {
	arm, ok := action.(Arm)
	if !ok || int(arm) >= u.numArms {
		return
	}
	u.counts[arm] += 1
	u.sums[arm] += reward
	// first pull of the arm, its index would stay infinite until the next episode
	if u.counts[arm] == 1 {
		u.indices[arm] = u.index(int(arm), floats.Sum(u.counts))
	}
}

func (u *UCBAgent) index(arm int, total float64) float64 {
	if u.counts[arm] == 0 {
		return math.Inf(1)
	}
	return u.sums[arm]/u.counts[arm] + math.Sqrt(2*math.Log(total)/u.counts[arm])
}

func (u *UCBAgent) UpdatePolicy(_ int) {
	total := floats.Sum(u.counts)
	for i := range u.indices {
		u.indices[i] = u.index(i, total)
	}
}

// PickAction plays the arm with the largest index, preferring arms never
// pulled during the iteration. Ties go to the lowest arm
func (u *UCBAgent) PickAction(_ types.State, _ int) (types.Action, error) {
	if u.numArms == 0 {
		return nil, fmt.Errorf("%w: ucb agent used before UpdateConfig", types.ErrInvalidConfiguration)
	}
	best := -1
	for i := 0; i < u.numArms; i++ {
		if u.counts[i] == 0 {
			return Arm(i), nil
		}
		if best == -1 || u.indices[i] > u.indices[best] {
			best = i
		}
	}
	return Arm(best), nil
}
