package bandit

import (
	"context"
	"errors"
	"testing"

	"github.com/zeu5/or-suite/types"
)

func TestDeterministicArms(t *testing.T) {
	env, err := NewEnvironment(&Config{EpLen: 10, ArmMeans: []float64{0, 1}}, 1)
	if err != nil {
		t.Fatal(err)
	}
	env.Reset()
	for i := 0; i < 5; i++ {
		if _, r, _, _, _ := env.Step(Arm(0)); r != 0 {
			t.Errorf("arm with mean 0 paid %f", r)
		}
		if _, r, _, _, _ := env.Step(Arm(1)); r != 1 {
			t.Errorf("arm with mean 1 paid %f", r)
		}
	}
	state := env.state
	if state[0] != 5 || state[1] != 5 {
		t.Errorf("unexpected pulls %v", state)
	}
}

func TestBanditDone(t *testing.T) {
	env, err := NewEnvironment(&Config{EpLen: 3, ArmMeans: []float64{0.5}}, 1)
	if err != nil {
		t.Fatal(err)
	}
	env.Reset()
	for i := 0; i < 3; i++ {
		_, _, done, _, err := env.Step(Arm(0))
		if err != nil {
			t.Fatal(err)
		}
		if done != (i == 2) {
			t.Errorf("step %d: done = %v", i, done)
		}
	}
	if s := env.Reset(); s.Hash() != (Pulls{0}).Hash() {
		t.Errorf("reset did not clear the pulls: %s", s.Hash())
	}
}

func TestBanditInvalid(t *testing.T) {
	if _, err := NewEnvironment(&Config{EpLen: 3, ArmMeans: []float64{1.5}}, 1); !errors.Is(err, types.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
	env, _ := NewEnvironment(DefaultConfig(), 1)
	env.Reset()
	if _, _, _, _, err := env.Step(Arm(7)); !errors.Is(err, types.ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
	if _, _, _, _, err := env.Step(Arm(-1)); !errors.Is(err, types.ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
}

func TestUCBPullsEveryArmFirst(t *testing.T) {
	env, _ := NewEnvironment(DefaultConfig(), 1)
	agent := NewUCBAgent()
	if err := agent.UpdateConfig(env, env.Config()); err != nil {
		t.Fatal(err)
	}
	agent.UpdatePolicy(0)
	state := env.Reset()
	for i := 0; i < 4; i++ {
		a, err := agent.PickAction(state, i)
		if err != nil {
			t.Fatal(err)
		}
		if a.(Arm) != Arm(i) {
			t.Errorf("step %d: expected arm %d, got %v", i, i, a)
		}
		next, r, _, info, err := env.Step(a)
		if err != nil {
			t.Fatal(err)
		}
		agent.UpdateObs(state, a, r, next, i, info)
		state = next
	}
}

func TestUCBFindsBestArm(t *testing.T) {
	env, _ := NewEnvironment(&Config{EpLen: 10, ArmMeans: []float64{0.1, 0.9, 0.2}}, 1)
	agent := NewUCBAgent()
	s := types.DefaultSettings()
	s.OutputDir = t.TempDir()
	s.Episodes = 100
	s.Horizon = 10
	s.RecordFrequency = 0
	e, err := types.NewExperiment("ucb", env, agent, s)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if agent.counts[1] < agent.counts[0] || agent.counts[1] < agent.counts[2] {
		t.Errorf("expected the best arm to be pulled most, got %v", agent.counts)
	}
}

func TestUCBNeedsBandit(t *testing.T) {
	agent := NewUCBAgent()
	if _, err := agent.PickAction(nil, 0); !errors.Is(err, types.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
	env, _ := NewEnvironment(DefaultConfig(), 1)
	if err := agent.UpdateConfig(env, &fakeConfig{}); !errors.Is(err, types.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

type fakeConfig struct{}

func (fakeConfig) EpisodeLength() int { return 1 }
