package benchmarks

import (
	"context"

	"github.com/spf13/cobra"
)

// Bandit compares the agents on a finite armed Bernoulli bandit
func Bandit(ctx context.Context, means []float64, agents []string) error {
	spec := EnvironmentSpec{
		Type:     FiniteBandit,
		ArmMeans: means,
	}
	return runProblem(ctx, "bandit", spec, agents, flagSettings(""), saveFile)
}

func BanditCommand() *cobra.Command {
	var means []float64
	var agents []string

	cmd := &cobra.Command{
		Use:   "bandit",
		Short: "Finite armed Bernoulli bandit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Bandit(cmd.Context(), means, agents)
		},
	}
	cmd.PersistentFlags().Float64SliceVar(&means, "means", nil, "Mean reward of each arm")
	cmd.PersistentFlags().StringSliceVar(&agents, "agents", []string{"ucb", "qlearning", "random"}, "Agents to compare")
	return cmd
}
