package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/wizzomafizzo/beakersync/internal/config"
	"github.com/wizzomafizzo/beakersync/internal/logging"
	"github.com/wizzomafizzo/beakersync/internal/server"
	"github.com/wizzomafizzo/beakersync/internal/storage"
	"github.com/wizzomafizzo/beakersync/internal/store"
)

const shutdownTimeout = 5 * time.Second

// createServeCommand creates the serve command.
func createServeCommand(deps dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the settings endpoint from a local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := deps.environment(cmd, "server")
			if err != nil {
				return err
			}

			listen := env.cfg.Store.Listen
			if cmd.Flags().Changed("listen") {
				listen, _ = cmd.Flags().GetString("listen")
			}

			ctx, stop := signal.NotifyContext(env.ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := openStore(ctx, deps.fs, env.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			logger := logging.Get(ctx)
			e := server.New(st, server.Options{
				Logger:   *logger,
				Registry: registry,
				Token:    env.cfg.Store.Token,
			})

			errCh := make(chan error, 1)
			go func() { errCh <- e.Start(listen) }()

			logger.Info().Str("listen", listen).Msg("settings server started")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving settings on http://%s\n", listen)

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down server: %w", err)
			}
			logger.Info().Msg("settings server stopped")
			return nil
		},
	}

	cmd.Flags().String("listen", "", "Listen address (overrides store.listen)")

	return cmd
}

// openStore opens the configured store, defaulting to the XDG data dir.
func openStore(ctx context.Context, fs afero.Fs, cfg *config.Config) (*store.Store, error) {
	path := cfg.Store.Path
	if path == "" {
		var err error
		path, err = storage.New(fs).GetDatabasePath()
		if err != nil {
			return nil, fmt.Errorf("failed to get database path: %w", err)
		}
	}

	st, err := store.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}
	return st, nil
}
