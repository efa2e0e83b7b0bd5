package types

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestRewardCurveAnalyzer(t *testing.T) {
	m := NewMetricsTable(4)
	m.Append(MetricsRow{Iteration: 0, Episode: 0, EpReward: 1})
	m.Append(MetricsRow{Iteration: 0, Episode: 1, EpReward: 2})
	m.Append(MetricsRow{Iteration: 1, Episode: 0, EpReward: 3})
	m.Append(MetricsRow{Iteration: 1, Episode: 1, EpReward: 6})
	curve := RewardCurveAnalyzer()("test", m).(RewardCurve)
	if len(curve) != 2 || curve[0] != 2 || curve[1] != 4 {
		t.Errorf("unexpected curve %v", curve)
	}
}

func TestSummarize(t *testing.T) {
	m := NewMetricsTable(2)
	m.Append(MetricsRow{EpReward: 1, Time: 10, Memory: 4})
	if s := Summarize(m); s.StdDevReward != 0 || s.MeanReward != 1 {
		t.Errorf("unexpected single row summary %+v", s)
	}
	m.Append(MetricsRow{Episode: 1, EpReward: 3, Time: 30, Memory: 8})
	s := Summarize(m)
	if s.Rows != 2 || s.MeanReward != 2 || s.MeanTime != 20 || s.MeanMemory != 6 {
		t.Errorf("unexpected summary %+v", s)
	}
	if math.Abs(s.StdDevReward-math.Sqrt2) > 1e-9 {
		t.Errorf("expected std %f, got %f", math.Sqrt2, s.StdDevReward)
	}
	if empty := Summarize(NewMetricsTable(0)); empty.Rows != 0 || empty.MeanReward != 0 {
		t.Errorf("unexpected empty summary %+v", empty)
	}
}

func TestComparisonRun(t *testing.T) {
	root := t.TempDir()
	plotPath := filepath.Join(root, "reward.png")

	c := NewComparison()
	c.AddAnalysis("reward", RewardCurveAnalyzer(), RewardPlotter(plotPath))
	var summaries []string
	c.AddAnalysis("summary", SummaryAnalyzer(), func(names []string, ds []DataSet) error {
		summaries = names
		for _, d := range ds {
			if _, ok := d.(Summary); !ok {
				t.Errorf("unexpected dataset %T", d)
			}
		}
		return nil
	})

	for _, name := range []string{"first", "second"} {
		e, err := NewExperiment(name, newCounterEnv(3), NewRandomAgent(0), testSettings(filepath.Join(root, name)))
		if err != nil {
			t.Fatal(err)
		}
		c.AddExperiment(e)
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("run: %s", err)
	}
	if len(summaries) != 2 || summaries[0] != "first" || summaries[1] != "second" {
		t.Errorf("unexpected compared names %v", summaries)
	}
	if _, err := os.Stat(plotPath); err != nil {
		t.Errorf("plot not saved: %s", err)
	}
	for _, name := range []string{"first", "second"} {
		if _, err := os.Stat(filepath.Join(root, name, MetricsFile)); err != nil {
			t.Errorf("metrics of %s not saved: %s", name, err)
		}
	}
}

func TestComparisonRunParallel(t *testing.T) {
	root := t.TempDir()
	var compared []string
	var rewards [][]float64
	c := NewComparison()
	c.AddAnalysis("reward", RewardCurveAnalyzer(), func(names []string, ds []DataSet) error {
		compared = names
		for _, d := range ds {
			rewards = append(rewards, d.(RewardCurve))
		}
		return nil
	})
	names := []string{"a", "b", "c", "d"}
	for _, name := range names {
		e, err := NewExperiment(name, newCounterEnv(3), NewRandomAgent(0), testSettings(filepath.Join(root, name)))
		if err != nil {
			t.Fatal(err)
		}
		c.AddExperiment(e)
	}
	if err := c.RunParallel(context.Background(), 3); err != nil {
		t.Fatalf("run: %s", err)
	}
	if len(compared) != len(names) {
		t.Fatalf("expected %d datasets, got %d", len(names), len(compared))
	}
	for i, name := range names {
		if compared[i] != name {
			t.Errorf("expected %s at position %d, got %s", name, i, compared[i])
		}
		if len(rewards[i]) != 4 {
			t.Errorf("expected 4 episodes for %s, got %d", name, len(rewards[i]))
		}
		// identical seeds give identical runs regardless of scheduling
		for j := range rewards[i] {
			if rewards[i][j] != rewards[0][j] {
				t.Errorf("%s episode %d differs from %s", name, j, names[0])
			}
		}
	}
}

func TestComparisonRunParallelFailure(t *testing.T) {
	root := t.TempDir()
	c := NewComparison()
	for i := 0; i < 3; i++ {
		env := newCounterEnv(3)
		if i == 1 {
			env.failAt = 1
		}
		e, err := NewExperiment(fmt.Sprintf("exp%d", i), env, &recordingAgent{}, testSettings(filepath.Join(root, fmt.Sprint(i))))
		if err != nil {
			t.Fatal(err)
		}
		c.AddExperiment(e)
	}
	if err := c.RunParallel(context.Background(), 2); !errors.Is(err, errBroken) {
		t.Errorf("expected the environment error, got %v", err)
	}
}

func TestProgressOutput(t *testing.T) {
	o := NewProgressOutput()
	if !o.TrySet("running") || o.Get() != "running" {
		t.Errorf("unexpected status %q", o.Get())
	}
	o.Set("done")
	if o.Get() != "done" || o.Running() {
		t.Errorf("unexpected output state")
	}
}
