package benchmarks

import (
	"context"

	"github.com/spf13/cobra"
)

// AmbulanceGraphProblem compares the agents on the ambulance routing problem on a graph.
// The edges are read from dataPath when it is set
func AmbulanceGraphProblem(ctx context.Context, alpha float64, dataPath string, agents []string) error {
	spec := EnvironmentSpec{
		Type:     AmbulanceGraph,
		Alpha:    &alpha,
		DataPath: dataPath,
	}
	return runProblem(ctx, "ambulance_graph", spec, agents, flagSettings(""), saveFile)
}

func AmbulanceGraphCommand() *cobra.Command {
	var alpha float64
	var dataPath string
	var agents []string

	cmd := &cobra.Command{
		Use:   "ambulance-graph",
		Short: "Ambulance routing on a weighted graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			return AmbulanceGraphProblem(cmd.Context(), alpha, dataPath, agents)
		},
	}
	cmd.PersistentFlags().Float64Var(&alpha, "alpha", 0.25, "Weight of the relocation cost against the response cost")
	cmd.PersistentFlags().StringVar(&dataPath, "data", "", "Yaml file with the edges of the graph")
	cmd.PersistentFlags().StringSliceVar(&agents, "agents", []string{"stable", "qlearning", "random"}, "Agents to compare")
	return cmd
}
