package benchmarks

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/or-suite/server"
)

func ServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the metrics of the saved experiments over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.NewResultsServer(addr, saveFile, logger).Start(cmd.Context())
		},
	}
	cmd.PersistentFlags().StringVar(&addr, "addr", "localhost:8080", "Address to listen on")
	return cmd
}
