package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kaizenhq/kaizen/internal/config"
)

var version = "dev"

var configPath string

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kaizen",
		Short: "Kaizen - benchmark and improve code-generating agents",
		Long: `Kaizen evaluates AI-generated code solutions against benchmark problem
sets, converts the results into feedback and learning examples, and plans
and applies prioritized improvements to the agent's implementation.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to kaizen.yaml (default: ./kaizen.yaml)")

	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newImproveCommand())
	cmd.AddCommand(newFeedbackCommand())
	cmd.AddCommand(newReportCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

// loadEnvironment loads the tool configuration and builds the process
// logger. Every subcommand that touches the pipeline starts here.
func loadEnvironment() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := config.BuildLogger(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, logger, nil
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
