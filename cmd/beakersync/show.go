package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// createShowCommand creates the show command.
func createShowCommand(deps dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Load and display the current settings",
		Long:  "Load the settings from the notebook server and print both sections and the JVM flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := deps.environment(cmd, "show")
			if err != nil {
				return err
			}

			s, err := newSession(env.cfg, cmd.OutOrStdout(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return s.load(env.ctx)
		},
	}
}

// createPreviewCommand creates the preview command.
func createPreviewCommand(deps dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Print the JVM flags built from the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := deps.environment(cmd, "preview")
			if err != nil {
				return err
			}

			s, err := newSession(env.cfg, io.Discard, io.Discard)
			if err != nil {
				return err
			}
			if err := s.load(env.ctx); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), s.status.Result())
			if err != nil {
				return fmt.Errorf("failed to print preview: %w", err)
			}
			return nil
		},
	}
}
