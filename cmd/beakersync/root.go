package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/wizzomafizzo/beakersync/internal/config"
	"github.com/wizzomafizzo/beakersync/internal/constants"
	"github.com/wizzomafizzo/beakersync/internal/logging"
	"github.com/wizzomafizzo/beakersync/internal/prompt"
)

// dependencies are the process-level resources commands use. Tests swap them out.
type dependencies struct {
	fs          afero.Fs
	logWriter   io.Writer
	newPrompter func() prompt.Prompter
}

func defaultDependencies() dependencies {
	return dependencies{
		fs:          afero.NewOsFs(),
		newPrompter: prompt.NewLinerPrompter,
	}
}

// createNewRootCommand creates the main root command that shows help by default.
func createNewRootCommand() *cobra.Command {
	return newRootCommand(defaultDependencies())
}

func newRootCommand(deps dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           constants.AppName,
		Short:         "Sync BeakerX JVM and UI settings with a notebook server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", constants.ConfigFilename, "Path to config file")

	rootCmd.AddCommand(
		createShowCommand(deps),
		createPreviewCommand(deps),
		createSetCommand(deps),
		createEditCommand(deps),
		createServeCommand(deps),
		createHistoryCommand(deps),
	)

	return rootCmd
}

// environment is the loaded config plus a context carrying the logger.
type environment struct {
	ctx context.Context
	cfg *config.Config
}

func (d dependencies) environment(cmd *cobra.Command, component string) (*environment, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg, err := config.Load(d.fs, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	ctx, err := logging.New(cmd.Context(), d.fs, logging.Config{
		Writer:    d.logWriter,
		Path:      cfg.Logging.Path,
		Component: component,
		Level:     level,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logging.Get(ctx).Debug().Str("config", configPath).Str("url", cfg.Server.URL).Msg("loaded config")

	return &environment{ctx: ctx, cfg: cfg}, nil
}
