package ambulance

import (
	"context"
	"math"
	"testing"

	"github.com/zeu5/or-suite/types"
)

func TestStableAgentFirstAction(t *testing.T) {
	agent := NewStableAgent()
	state := Locations{0.3}
	action, err := agent.PickAction(state, 0)
	if err != nil {
		t.Fatal(err)
	}
	if action.Hash() != state.Hash() {
		t.Errorf("expected the state itself, got %s", action.Hash())
	}
	// the returned action does not alias the state
	action.(Locations)[0] = 0.9
	if state[0] != 0.3 {
		t.Errorf("action aliases the state")
	}
}

func TestStableAgentLastObserved(t *testing.T) {
	agent := NewStableAgent()
	agent.UpdateObs(Locations{0}, Locations{0}, -1, Locations{0.4}, 0, nil)
	agent.UpdateObs(Locations{0.4}, Locations{0.4}, -1, Locations{0.7}, 1, nil)
	action, err := agent.PickAction(Locations{0.1}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if action.Hash() != (Locations{0.7}).Hash() {
		t.Errorf("expected the last observed state, got %s", action.Hash())
	}
	agent.Reset()
	action, _ = agent.PickAction(Locations{0.1}, 0)
	if action.Hash() != (Locations{0.1}).Hash() {
		t.Errorf("expected the state after reset, got %s", action.Hash())
	}
}

func TestStableAgentGraph(t *testing.T) {
	env, err := NewGraphEnvironment(DefaultGraphConfig(), 1)
	if err != nil {
		t.Fatal(err)
	}
	agent := NewStableAgent()
	if err := agent.UpdateConfig(env, env.Config()); err != nil {
		t.Fatal(err)
	}
	state := env.Reset()
	for step := 0; step < 5; step++ {
		action, err := agent.PickAction(state, step)
		if err != nil {
			t.Fatal(err)
		}
		if action.Hash() != state.Hash() {
			t.Errorf("step %d: stable agent moved from %s to %s", step, state.Hash(), action.Hash())
		}
		next, reward, _, info, err := env.Step(action)
		if err != nil {
			t.Fatal(err)
		}
		agent.UpdateObs(state, action, reward, next, step, info)
		state = next
	}
}

func TestMedianAgent(t *testing.T) {
	cfg := DefaultMetricConfig()
	agent := NewMedianAgent()
	env, err := NewMetricEnvironment(cfg, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := agent.UpdateConfig(env, env.Config()); err != nil {
		t.Fatal(err)
	}
	agent.UpdatePolicy(0)
	action, err := agent.PickAction(Locations{0.2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if action.Hash() != (Locations{0.2}).Hash() {
		t.Errorf("expected to stay without arrivals, got %s", action.Hash())
	}

	for _, a := range []float64{0.1, 0.9, 0.5} {
		agent.UpdateObs(nil, nil, 0, nil, 0, types.Info{"arrival": a})
	}
	agent.UpdatePolicy(1)
	action, _ = agent.PickAction(Locations{0.2}, 0)
	if action.(Locations)[0] != 0.5 {
		t.Errorf("expected the median 0.5, got %v", action)
	}
}

func TestMedianAgentNeedsMetricConfig(t *testing.T) {
	env, _ := NewGraphEnvironment(DefaultGraphConfig(), 1)
	if err := NewMedianAgent().UpdateConfig(env, env.Config()); err == nil {
		t.Errorf("expected an error for the graph environment")
	}
}

func TestMedianBeatsRandom(t *testing.T) {
	run := func(agent types.Agent) float64 {
		env, err := NewMetricEnvironment(DefaultMetricConfig(), 1)
		if err != nil {
			t.Fatal(err)
		}
		s := types.DefaultSettings()
		s.OutputDir = t.TempDir()
		s.Episodes = 200
		s.RecordFrequency = 0
		e, err := types.NewExperiment("median", env, agent, s)
		if err != nil {
			t.Fatal(err)
		}
		if err := e.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		return types.Summarize(e.Metrics()).MeanReward
	}
	median := run(NewMedianAgent())
	random := run(types.NewRandomAgent(1))
	if math.IsNaN(median) || median <= random {
		t.Errorf("expected the median agent (%f) to beat the random agent (%f)", median, random)
	}
}
