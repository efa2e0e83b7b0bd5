package benchmarks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/zeu5/or-suite/types"
)

func TestRunFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "allocation.yaml")
	data := `
name: simple
environment:
  type: resource_allocation
agents: [equal, random]
settings:
  episodes: 2
  horizon: 0
  rec_freq: 0
  save_trajectory: true
  dir_path: ` + filepath.Join(root, "results") + `
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if err := RunFile(context.Background(), path); err != nil {
		t.Fatalf("run: %s", err)
	}
	for _, agent := range []string{"equal", "random"} {
		dir := filepath.Join(root, "results", "simple_"+agent)
		m, err := types.LoadMetrics(filepath.Join(dir, types.MetricsFile))
		if err != nil {
			t.Fatalf("%s: %s", agent, err)
		}
		if m.Len() != 2 {
			t.Errorf("%s: expected 2 rows, got %d", agent, m.Len())
		}
		steps, err := types.LoadTrajectory(filepath.Join(dir, types.TrajectoryFile))
		if err != nil {
			t.Fatalf("%s: %s", agent, err)
		}
		if len(steps) != 6 {
			t.Errorf("%s: expected 6 steps, got %d", agent, len(steps))
		}
	}
	if _, err := os.Stat(filepath.Join(root, "results", "simple_reward.png")); err != nil {
		t.Errorf("reward plot missing: %s", err)
	}
}

func TestAmbulanceCommand(t *testing.T) {
	root := t.TempDir()
	cmd := GetRootCommand()
	cmd.SetArgs([]string{"ambulance", "-e", "3", "-s", root, "--agents", "stable,median", "--rec-freq", "0"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %s", err)
	}
	for _, agent := range []string{"stable", "median"} {
		if _, err := os.Stat(filepath.Join(root, "ambulance_"+agent, types.ConfigFile)); err != nil {
			t.Errorf("%s: %s", agent, err)
		}
	}
}

func TestRunFileDefaultsToEpisodeLengthAndSaveFolder(t *testing.T) {
	root := t.TempDir()
	prev := saveFile
	saveFile = filepath.Join(root, "saved")
	defer func() { saveFile = prev }()

	path := filepath.Join(root, "bandit.yaml")
	data := `
environment:
  type: bandit
  ep_len: 8
agents: [ucb]
settings:
  episodes: 2
  rec_freq: 0
  save_trajectory: true
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if err := RunFile(context.Background(), path); err != nil {
		t.Fatalf("run: %s", err)
	}
	dir := filepath.Join(root, "saved", "bandit_ucb")
	steps, err := types.LoadTrajectory(filepath.Join(dir, types.TrajectoryFile))
	if err != nil {
		t.Fatalf("expected the results in the save folder: %s", err)
	}
	if len(steps) != 16 {
		t.Errorf("expected 2 episodes of 8 steps, got %d steps", len(steps))
	}
}
