package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/wizzomafizzo/beakersync/internal/prompt"
	"github.com/wizzomafizzo/beakersync/internal/settings"
)

// createEditCommand creates the interactive edit command.
func createEditCommand(deps dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit settings interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := deps.environment(cmd, "edit")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			s, err := newSession(env.cfg, out, out)
			if err != nil {
				return err
			}
			if err := s.load(env.ctx); err != nil {
				return err
			}

			p := deps.newPrompter()
			defer func() { _ = p.Close() }()

			jvm, _ := s.jvm.Current()
			jvm, err = prompt.EditJVMOptions(p, jvm)
			if err != nil {
				return handleCancel(out, err)
			}
			ui, _ := s.ui.Current()
			ui, err = prompt.EditUIOptions(p, ui)
			if err != nil {
				return handleCancel(out, err)
			}

			if err := s.sync.SetJVMOptions(jvm); err != nil {
				return fmt.Errorf("failed to update jvm options: %w", err)
			}
			if err := s.sync.SetUIOptions(ui); err != nil {
				return fmt.Errorf("failed to update ui options: %w", err)
			}
			_, _ = fmt.Fprintf(out, "New JVM flags: %s\n", settings.BuildFlagsPreview(jvm))

			return s.save(env.ctx)
		},
	}
}

func handleCancel(out io.Writer, err error) error {
	if errors.Is(err, prompt.ErrCancelled) {
		_, _ = color.New(color.FgYellow).Fprintln(out, "Edit cancelled, nothing saved")
		return nil
	}
	return fmt.Errorf("failed to read input: %w", err)
}
