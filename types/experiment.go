package types

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/zeu5/or-suite/util"
	"gopkg.in/yaml.v3"
)

const (
	MetricsFile    = "data.csv"
	TrajectoryFile = "trajectory.obj"
	ConfigFile     = "config.yaml"
)

// Experiment drives the interaction between one environment and one agent
// for the configured iterations and episodes
type Experiment struct {
	Name  string
	RunID string

	settings    *Settings
	environment Environment
	agent       Agent
	logger      *slog.Logger
	progress    bool
	output      *ProgressOutput

	metrics    *MetricsTable
	trajectory *Trajectory
}

// NewExperiment validates the settings and seeds the environment and the agent
// (when they own a random source) from Settings.Seed
func NewExperiment(name string, environment Environment, agent Agent, settings *Settings) (*Experiment, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if environment == nil || agent == nil {
		return nil, fmt.Errorf("%w: experiment %s needs an environment and an agent", ErrInvalidConfiguration, name)
	}
	if environment.Config() == nil || environment.Config().EpisodeLength() <= 0 {
		return nil, fmt.Errorf("%w: environment of experiment %s has no episode length", ErrInvalidConfiguration, name)
	}

	seeds := NewRand(uint64(settings.Seed))
	if s, ok := environment.(Seedable); ok {
		s.Seed(seeds.Uint64())
	}
	if s, ok := agent.(Seedable); ok {
		s.Seed(seeds.Uint64())
	}

	return &Experiment{
		Name:        name,
		RunID:       uuid.NewString(),
		settings:    settings.Copy(),
		environment: environment,
		agent:       agent,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:     NewMetricsTable(settings.Iterations * settings.Episodes),
	}, nil
}

// SetLogger replaces the default (discarding) logger
func (e *Experiment) SetLogger(logger *slog.Logger) {
	e.logger = logger.With("experiment", e.Name)
}

// ShowProgress prints a progress line on the terminal while running
func (e *Experiment) ShowProgress(show bool) {
	e.progress = show
}

// setOutput redirects the progress line to a parallel slot
func (e *Experiment) setOutput(o *ProgressOutput) {
	e.output = o
}

func (e *Experiment) Settings() *Settings {
	return e.settings.Copy()
}

// Metrics collected by the last Run
func (e *Experiment) Metrics() *MetricsTable {
	return e.metrics
}

// Trajectory recorded by the last Run, nil unless SaveTrajectory is set
func (e *Experiment) Trajectory() *Trajectory {
	return e.trajectory
}

// Run executes all iterations and episodes. The first error returned by the
// agent or the environment aborts the run. The context is checked between episodes
func (e *Experiment) Run(ctx context.Context) error {
	cfg := e.settings
	e.metrics = NewMetricsTable(cfg.Iterations * cfg.Episodes)
	e.trajectory = nil
	if cfg.SaveTrajectory {
		e.trajectory = NewTrajectory()
	}

	e.logger.Info("running experiment", "run_id", e.RunID, "iterations", cfg.Iterations, "episodes", cfg.Episodes, "horizon", cfg.Horizon)

	for i := 0; i < cfg.Iterations; i++ {
		e.agent.Reset()
		if err := e.agent.UpdateConfig(e.environment, e.environment.Config()); err != nil {
			return fmt.Errorf("experiment %s, iteration %d: %w", e.Name, i, err)
		}

		for ep := 0; ep < cfg.Episodes; ep++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			eCtx := NewEpisodeContext(i, ep)
			if err := e.runEpisode(eCtx); err != nil {
				return fmt.Errorf("experiment %s, iteration %d, episode %d: %w", e.Name, i, ep, err)
			}
			e.metrics.Append(eCtx.Row())

			if cfg.RecordFrequency > 0 && (ep+1)%cfg.RecordFrequency == 0 {
				e.logger.Info("episode complete", "iteration", i, "episode", ep, "reward", eCtx.Reward, "timesteps", eCtx.Timesteps)
			}
			if e.output != nil {
				e.output.TrySet(fmt.Sprintf("Exp: %s, Iter: %d/%d, Eps: %d/%d", e.Name, i+1, cfg.Iterations, ep+1, cfg.Episodes))
			} else if e.progress {
				fmt.Printf("\rExp: %s, Iter: %d/%d, Eps: %d/%d", e.Name, i+1, cfg.Iterations, ep+1, cfg.Episodes)
			}
		}
	}
	if e.output != nil {
		e.output.Set(fmt.Sprintf("Exp: %s, done", e.Name))
	} else if e.progress {
		fmt.Println("")
	}
	e.logger.Info("experiment complete", "rows", e.metrics.Len())
	return nil
}

// run a single episode, the probe is stopped on every return path
func (e *Experiment) runEpisode(eCtx *EpisodeContext) error {
	state := e.environment.Reset()
	eCtx.Reward = 0
	e.agent.UpdatePolicy(eCtx.Episode)

	eCtx.probe = StartProbe()
	defer eCtx.probe.Stop()

	for h := 0; !eCtx.Done && h < e.settings.Horizon; h++ {
		if e.settings.Debug {
			e.logger.Debug("state", "step", h, "state", state.Hash())
		}
		action, err := e.agent.PickAction(state, h)
		if err != nil {
			return fmt.Errorf("step %d: picking action: %w", h, err)
		}
		if e.settings.Debug {
			e.logger.Debug("action", "step", h, "action", action.Hash())
		}

		newState, reward, done, info, err := e.environment.Step(action)
		if err != nil {
			return fmt.Errorf("step %d: %w", h, err)
		}
		eCtx.Reward += reward
		eCtx.Done = done
		eCtx.Timesteps += 1
		eCtx.probe.Sample()

		e.agent.UpdateObs(state, action, reward, newState, h, info)

		if e.trajectory != nil {
			e.trajectory.Append(&EpisodeRecord{
				Iteration: eCtx.Iteration,
				Episode:   eCtx.Episode,
				Step:      h,
				OldState:  state.Copy(),
				Action:    action,
				Reward:    reward,
				NewState:  newState.Copy(),
				Info:      info,
			})
		}
		state = newState
	}
	if e.settings.Debug {
		e.logger.Debug("final state", "state", state.Hash())
	}
	return nil
}

// Save writes the metrics (without all-zero rows), the trajectory when
// recorded and a snapshot of the configuration to the output directory
func (e *Experiment) Save() (*MetricsTable, error) {
	dir := e.settings.OutputDir
	if err := util.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %s", ErrIO, dir, err)
	}

	table := e.metrics.NonZero()
	metricsPath := filepath.Join(dir, MetricsFile)
	if err := table.WriteCSV(metricsPath); err != nil {
		return nil, err
	}
	e.logger.Info("saved metrics", "path", metricsPath, "rows", table.Len())

	if e.settings.SaveTrajectory && e.trajectory != nil {
		trajectoryPath := filepath.Join(dir, TrajectoryFile)
		if err := SaveTrajectory(trajectoryPath, e.trajectory); err != nil {
			return nil, err
		}
		e.logger.Info("saved trajectory", "path", trajectoryPath, "records", e.trajectory.Len())
	}

	if err := e.recordConfig(); err != nil {
		return nil, err
	}
	return table, nil
}

type recordedConfig struct {
	Name        string    `yaml:"name"`
	RunID       string    `yaml:"run_id"`
	Environment string    `yaml:"environment"`
	Agent       string    `yaml:"agent"`
	Settings    *Settings `yaml:"settings"`
}

// record the configuration of the experiment next to the results
func (e *Experiment) recordConfig() error {
	bs, err := yaml.Marshal(recordedConfig{
		Name:        e.Name,
		RunID:       e.RunID,
		Environment: fmt.Sprintf("%T", e.environment),
		Agent:       fmt.Sprintf("%T", e.agent),
		Settings:    e.settings,
	})
	if err != nil {
		return fmt.Errorf("%w: encoding config: %s", ErrIO, err)
	}
	if err := util.WriteToFile(filepath.Join(e.settings.OutputDir, ConfigFile), bs); err != nil {
		return fmt.Errorf("%w: writing config: %s", ErrIO, err)
	}
	return nil
}
