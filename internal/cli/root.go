package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:          "quick-sums",
		Short:        "Timed addition quiz for five players with a ranked leaderboard",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides config")
	cmd.AddCommand(NewPlayCmd(&configPath, &logLevel))
	cmd.AddCommand(NewTopCmd(&configPath, &logLevel))
	cmd.AddCommand(NewServeCmd(&configPath, &logLevel))
	cmd.AddCommand(NewMigrateCmd(&configPath, &logLevel))
	return cmd
}
