package benchmarks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/zeu5/or-suite/mirror"
	"github.com/zeu5/or-suite/types"
)

var (
	episodes   int
	iterations int
	horizon    int
	seed       int64
	saveFile   string
	recFreq    int
	debug      bool
	trajectory bool
	redisAddr  string
	logLevel   string
	parallel   int

	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "or-suite",
		Short:         "Run agents against operations research environments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
	}
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 100, "Number of episodes in each iteration")
	rootCommand.PersistentFlags().IntVarP(&iterations, "iterations", "i", 1, "Number of iterations, the agent is reset before each")
	rootCommand.PersistentFlags().IntVar(&horizon, "horizon", 0, "Horizon of each episode (0 uses the episode length of the environment)")
	rootCommand.PersistentFlags().Int64Var(&seed, "seed", 1, "Seed of the random sources")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", envDefault("ORSUITE_RESULTS", "results"), "Save the result data in the specified folder")
	rootCommand.PersistentFlags().IntVar(&recFreq, "rec-freq", 1, "Log progress every rec-freq episodes (0 disables)")
	rootCommand.PersistentFlags().BoolVar(&debug, "debug", false, "Log every state and action")
	rootCommand.PersistentFlags().BoolVar(&trajectory, "trajectory", false, "Save the trajectory of every experiment")
	rootCommand.PersistentFlags().StringVar(&redisAddr, "redis-addr", envDefault("ORSUITE_REDIS_ADDR", ""), "Mirror the metrics to the redis instance at this address")
	rootCommand.PersistentFlags().IntVar(&parallel, "parallel", 1, "Number of agents run at the same time")
	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	// adding the subcommands here
	rootCommand.AddCommand(AmbulanceCommand())
	rootCommand.AddCommand(AmbulanceGraphCommand())
	rootCommand.AddCommand(AllocationCommand())
	rootCommand.AddCommand(BanditCommand())
	rootCommand.AddCommand(RunCommand())
	rootCommand.AddCommand(ServeCommand())
	return rootCommand
}

func envDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func setupLogger() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("%w: log level %q", types.ErrInvalidConfiguration, logLevel)
	}
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

// settings for one experiment from the command line flags
func flagSettings(dir string) *types.Settings {
	return &types.Settings{
		Seed:            seed,
		RecordFrequency: recFreq,
		OutputDir:       dir,
		Debug:           debug,
		Episodes:        episodes,
		Horizon:         horizon,
		Iterations:      iterations,
		SaveTrajectory:  trajectory,
	}
}

// runProblem runs every agent against a fresh environment built from spec,
// saves each under <root>/<problem>_<agent> and plots the rewards of all agents
func runProblem(ctx context.Context, problem string, spec EnvironmentSpec, agents []string, base *types.Settings, root string) error {
	c := types.NewComparison()
	c.AddAnalysis("reward", types.RewardCurveAnalyzer(), types.RewardPlotter(filepath.Join(root, problem+"_reward.png")))
	c.AddAnalysis("summary", types.SummaryAnalyzer(), types.SummaryLogger(logger))

	for _, name := range agents {
		env, err := spec.NewEnvironment(uint64(base.Seed))
		if err != nil {
			return err
		}
		agent, err := NewAgent(name, uint64(base.Seed))
		if err != nil {
			return err
		}
		settings := base.Copy()
		settings.OutputDir = filepath.Join(root, problem+"_"+name)
		if settings.Horizon == 0 {
			settings.Horizon = env.Config().EpisodeLength()
		}

		e, err := types.NewExperiment(problem+"_"+name, env, agent, settings)
		if err != nil {
			return err
		}
		e.SetLogger(logger)
		e.ShowProgress(!settings.Debug)
		c.AddExperiment(e)
	}

	if err := c.RunParallel(ctx, parallel); err != nil {
		return err
	}

	if redisAddr == "" {
		return nil
	}
	m := mirror.NewRedisMirror(redisAddr)
	defer m.Close()
	for _, e := range c.Experiments {
		if err := m.Push(ctx, e.Name, e.Metrics().NonZero()); err != nil {
			return err
		}
		logger.Info("mirrored metrics", "experiment", e.Name, "key", m.Key(e.Name))
	}
	return nil
}
