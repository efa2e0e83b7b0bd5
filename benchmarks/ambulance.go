package benchmarks

import (
	"context"

	"github.com/spf13/cobra"
)

// Ambulance compares the agents on the ambulance routing problem on [0,1]
func Ambulance(ctx context.Context, alpha float64, ambulances int, arrivals string, agents []string) error {
	spec := EnvironmentSpec{
		Type:         AmbulanceMetric,
		Alpha:        &alpha,
		NumAmbulance: ambulances,
		Arrivals:     arrivals,
	}
	return runProblem(ctx, "ambulance", spec, agents, flagSettings(""), saveFile)
}

func AmbulanceCommand() *cobra.Command {
	var alpha float64
	var ambulances int
	var arrivals string
	var agents []string

	cmd := &cobra.Command{
		Use:   "ambulance",
		Short: "Ambulance routing on the unit interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Ambulance(cmd.Context(), alpha, ambulances, arrivals, agents)
		},
	}
	cmd.PersistentFlags().Float64Var(&alpha, "alpha", 0.25, "Weight of the relocation cost against the response cost")
	cmd.PersistentFlags().IntVar(&ambulances, "ambulances", 1, "Number of ambulances")
	cmd.PersistentFlags().StringVar(&arrivals, "arrivals", "beta", "Arrival distribution (beta or uniform)")
	cmd.PersistentFlags().StringSliceVar(&agents, "agents", []string{"stable", "median", "random"}, "Agents to compare")
	return cmd
}
