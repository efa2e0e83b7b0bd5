package benchmarks

import (
	"context"

	"github.com/spf13/cobra"
)

// Allocation compares the agents on the sequential resource allocation problem
func Allocation(ctx context.Context, problem string, agents []string) error {
	spec := EnvironmentSpec{
		Type:    ResourceAllocation,
		Problem: problem,
	}
	return runProblem(ctx, "allocation_"+problem, spec, agents, flagSettings(""), saveFile)
}

func AllocationCommand() *cobra.Command {
	var problem string
	var agents []string

	cmd := &cobra.Command{
		Use:   "allocation",
		Short: "Sequential resource allocation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Allocation(cmd.Context(), problem, agents)
		},
	}
	cmd.PersistentFlags().StringVar(&problem, "problem", "simple", "Problem instance (simple or default)")
	cmd.PersistentFlags().StringSliceVar(&agents, "agents", []string{"equal", "random"}, "Agents to compare")
	return cmd
}
