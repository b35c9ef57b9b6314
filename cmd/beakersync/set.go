package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/wizzomafizzo/beakersync/internal/logging"
	"github.com/wizzomafizzo/beakersync/internal/settings"
)

// createSetCommand creates the set command.
func createSetCommand(deps dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings and save them",
		Long: "Load the settings, apply the given flags and save the result. " +
			"List flags replace the whole list.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := deps.environment(cmd, "set")
			if err != nil {
				return err
			}

			s, err := newSession(env.cfg, cmd.OutOrStdout(), io.Discard)
			if err != nil {
				return err
			}
			if err := s.load(env.ctx); err != nil {
				return err
			}

			current, err := s.sync.Settings()
			if err != nil {
				return fmt.Errorf("failed to read loaded settings: %w", err)
			}

			changed, err := applySetFlags(cmd.Flags(), current)
			if err != nil {
				return err
			}
			if !changed {
				return errors.New("nothing to change: pass at least one setting flag")
			}

			if current.JVMOptions != nil {
				if err := s.sync.SetJVMOptions(*current.JVMOptions); err != nil {
					return fmt.Errorf("failed to update jvm options: %w", err)
				}
			}
			if err := s.sync.SetUIOptions(*current.UIOptions); err != nil {
				return fmt.Errorf("failed to update ui options: %w", err)
			}

			logging.Get(env.ctx).Info().Msg("saving edited settings")
			return s.save(env.ctx)
		},
	}

	cmd.Flags().String("heap", "", "Maximum heap size, e.g. 4g, 512m or 2.5")
	cmd.Flags().Bool("clear-heap", false, "Remove the heap limit")
	cmd.Flags().StringArray("other", nil, "Other JVM flag (repeatable)")
	cmd.Flags().StringArray("property", nil, "System property as name=value (repeatable)")
	cmd.Flags().Bool("auto-close", false, "Auto close brackets")
	cmd.Flags().Bool("improve-fonts", false, "Use improved fonts")
	cmd.Flags().Bool("wide-cells", false, "Use wide cells")
	cmd.Flags().Bool("show-publication", false, "Show the publication button")
	cmd.MarkFlagsMutuallyExclusive("heap", "clear-heap")

	return cmd
}

// applySetFlags edits record in place from the explicitly passed flags.
func applySetFlags(flags *pflag.FlagSet, record *settings.Record) (bool, error) {
	changed := false
	jvmTouched := flags.Changed("heap") || flags.Changed("clear-heap") ||
		flags.Changed("other") || flags.Changed("property")

	if jvmTouched {
		if record.JVMOptions == nil {
			record.JVMOptions = &settings.JVMOptions{Other: []string{}, Properties: []settings.Property{}}
		}
		jvm := record.JVMOptions

		if flags.Changed("heap") {
			value, _ := flags.GetString("heap")
			gb, err := settings.ParseHeapSize(value)
			if err != nil {
				return false, err //nolint:wrapcheck // already describes the input
			}
			jvm.HeapGB = settings.Heap(gb)
		}
		if clearHeap, _ := flags.GetBool("clear-heap"); clearHeap {
			jvm.HeapGB = nil
		}
		if flags.Changed("other") {
			jvm.Other, _ = flags.GetStringArray("other")
		}
		if flags.Changed("property") {
			definitions, _ := flags.GetStringArray("property")
			jvm.Properties = make([]settings.Property, 0, len(definitions))
			for _, definition := range definitions {
				property, ok := settings.ParseProperty(definition)
				if !ok {
					return false, fmt.Errorf("invalid property %q: expected name=value", definition)
				}
				jvm.Properties = append(jvm.Properties, property)
			}
		}
		changed = true
	}

	ui := record.UIOptions
	for name, target := range map[string]*bool{
		"auto-close":       &ui.AutoClose,
		"improve-fonts":    &ui.ImproveFonts,
		"wide-cells":       &ui.WideCells,
		"show-publication": &ui.ShowPublication,
	} {
		if flags.Changed(name) {
			*target, _ = flags.GetBool(name)
			changed = true
		}
	}

	return changed, nil
}
