package main

import (
	"context"
	"fmt"
	"io"

	"github.com/wizzomafizzo/beakersync/internal/config"
	"github.com/wizzomafizzo/beakersync/internal/console"
	"github.com/wizzomafizzo/beakersync/internal/settings"
	"github.com/wizzomafizzo/beakersync/internal/synchronizer"
	"github.com/wizzomafizzo/beakersync/internal/transport"
)

// syncStatus reports on the terminal and lets a command wait for the end of a cycle.
type syncStatus struct {
	*console.Indicator
	ended chan struct{}
}

func (s *syncStatus) OnSyncEnd() {
	s.Indicator.OnSyncEnd()
	select {
	case s.ended <- struct{}{}:
	default:
	}
}

// session runs synchronizer cycles to completion for one command.
type session struct {
	sync   *synchronizer.Synchronizer
	status *syncStatus
	jvm    *console.SectionView[settings.JVMOptions]
	ui     *console.SectionView[settings.UIOptions]
}

func newSession(cfg *config.Config, statusOut, sectionsOut io.Writer) (*session, error) {
	client, err := transport.NewHTTP(cfg.Server.URL,
		transport.WithToken(cfg.Server.Token),
		transport.WithTimeout(cfg.Server.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	s := &session{
		status: &syncStatus{Indicator: console.NewIndicator(statusOut), ended: make(chan struct{}, 1)},
		jvm:    console.NewSectionView[settings.JVMOptions](sectionsOut, "jvm_options"),
		ui:     console.NewSectionView[settings.UIOptions](sectionsOut, "ui_options"),
	}
	s.sync = synchronizer.New(client, s.jvm, s.status,
		synchronizer.WithUIEditor(s.ui),
		synchronizer.WithSyncEndDelay(cfg.Sync.Delay),
	)
	return s, nil
}

func (s *session) load(ctx context.Context) error {
	if err := <-s.sync.Load(ctx); err != nil {
		return err //nolint:wrapcheck // already wrapped by the synchronizer
	}
	return s.waitSyncEnd(ctx)
}

func (s *session) save(ctx context.Context) error {
	done, err := s.sync.Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if err := <-done; err != nil {
		return err //nolint:wrapcheck // already wrapped by the synchronizer
	}
	return s.waitSyncEnd(ctx)
}

func (s *session) waitSyncEnd(ctx context.Context) error {
	select {
	case <-s.status.ended:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for sync to finish: %w", ctx.Err())
	}
}
