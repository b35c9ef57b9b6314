package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/wizzomafizzo/beakersync/internal/settings"
	"github.com/wizzomafizzo/beakersync/internal/store"
)

// createHistoryCommand creates the history command.
func createHistoryCommand(deps dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List settings saved to the local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := deps.environment(cmd, "history")
			if err != nil {
				return err
			}

			limit, _ := cmd.Flags().GetInt("limit")
			if limit <= 0 {
				return fmt.Errorf("invalid limit %d: must be positive", limit)
			}

			st, err := openStore(env.ctx, deps.fs, env.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			revisions, err := st.History(env.ctx, store.DefaultName, limit)
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}
			if len(revisions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No saved settings")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tSAVED\tVERSION\tJVM FLAGS")
			for _, rev := range revisions {
				flags := ""
				if rev.Record.JVMOptions != nil {
					flags = settings.BuildFlagsPreview(*rev.Record.JVMOptions)
				}
				_, _ = fmt.Fprintf(w, "%d\t%s\t%d\t%s\n",
					rev.ID, rev.SavedAt.UTC().Format(time.RFC3339), rev.Record.Version, flags)
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("failed to print history: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "Maximum number of revisions to list")

	return cmd
}
