package benchmarks

import (
	"context"

	"github.com/spf13/cobra"
)

// RunFile runs the experiment described by the yaml file. The settings of the
// file take precedence over the command line, the results go to dir_path when
// the file sets it and to the save folder otherwise
func RunFile(ctx context.Context, path string) error {
	f, err := LoadExperimentFile(path)
	if err != nil {
		return err
	}
	settings := f.Settings.Copy()
	root := saveFile
	if settings.OutputDir != "" {
		root = settings.OutputDir
	}
	logger.Info("running experiment file", "path", path, "name", f.Name, "agents", f.Agents, "root", root)
	return runProblem(ctx, f.Name, f.Environment, f.Agents, settings, root)
}

func RunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run [experiment.yaml]",
		Short: "Run the experiment described by a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunFile(cmd.Context(), args[0])
		},
	}
}
