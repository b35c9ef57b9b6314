// Package synchronizer keeps a local copy of the BeakerX settings in step with the
// settings endpoint and feeds it to the JVM and UI editors.
package synchronizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wizzomafizzo/beakersync/internal/logging"
	"github.com/wizzomafizzo/beakersync/internal/settings"
	"github.com/wizzomafizzo/beakersync/internal/transport"
)

// DefaultSyncEndDelay is the pause between a completed request and the end-of-sync signal.
const DefaultSyncEndDelay = time.Second

var (
	// ErrNoSettings is returned when settings are used before a load has succeeded.
	ErrNoSettings = errors.New("settings have not been loaded")

	// ErrNoJVMOptions is returned by Save when the loaded record had no jvm_options section.
	ErrNoJVMOptions = errors.New("loaded settings have no jvm_options section")
)

// StatusSurface displays sync progress, errors and the flags preview.
// Methods may be called from any goroutine.
type StatusSurface interface {
	OnSyncStart()
	OnSyncEnd()
	OnError(err error)
	ClearErrors()
	ShowResult(text string)
}

// JVMEditor displays and edits the JVM section.
type JVMEditor interface {
	Update(options settings.JVMOptions)
}

// UIEditor displays and edits the UI section.
type UIEditor interface {
	Update(options settings.UIOptions)
}

// Scheduler runs f once after d. Scheduled calls are never canceled.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Synchronizer owns the in-memory settings record for one editor screen.
//
// Load and Save return immediately; the request runs on its own goroutine and the
// end-of-sync signal fires on a timer after the request succeeds. Overlapping cycles
// are not prevented and each emits its own start/end pair.
type Synchronizer struct {
	transport transport.Transport
	jvmEditor JVMEditor
	uiEditor  UIEditor
	status    StatusSurface
	scheduler Scheduler
	current   *settings.Record
	delay     time.Duration
	mu        sync.Mutex
	syncing   bool
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithUIEditor attaches the optional UI editor.
func WithUIEditor(editor UIEditor) Option {
	return func(s *Synchronizer) { s.uiEditor = editor }
}

// WithSyncEndDelay overrides DefaultSyncEndDelay.
func WithSyncEndDelay(delay time.Duration) Option {
	return func(s *Synchronizer) { s.delay = delay }
}

// WithScheduler replaces the timer used for the delayed end-of-sync signal.
func WithScheduler(scheduler Scheduler) Option {
	return func(s *Synchronizer) { s.scheduler = scheduler }
}

// New creates a synchronizer. The UI editor is optional and attached with WithUIEditor.
func New(t transport.Transport, jvmEditor JVMEditor, status StatusSurface, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		transport: t,
		jvmEditor: jvmEditor,
		status:    status,
		scheduler: timerScheduler{},
		delay:     DefaultSyncEndDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the remote record and distributes it to the editors.
//
// The returned channel receives the outcome once the response has been handled and is
// then closed. On failure the end-of-sync signal is never sent.
func (s *Synchronizer) Load(ctx context.Context) <-chan error {
	s.syncStart(ctx, "load")

	done := make(chan error, 1)
	go func() {
		defer close(done)

		record, err := s.transport.LoadSettings(ctx)
		if err == nil && record == nil {
			err = errors.New("empty settings response")
		}
		if err != nil {
			logging.Get(ctx).Error().Err(err).Msg("failed to load settings")
			done <- fmt.Errorf("failed to load settings: %w", err)
			return
		}

		if record.UIOptions == nil {
			ui := settings.DefaultUIOptions()
			record.UIOptions = &ui
		}

		s.mu.Lock()
		s.current = record.Clone()
		s.mu.Unlock()

		// jvm_options is not defaulted; a missing section reaches the editor as zero options.
		var jvm settings.JVMOptions
		if record.JVMOptions != nil {
			jvm = record.JVMOptions.Clone()
		} else {
			logging.Get(ctx).Warn().Msg("settings response has no jvm_options section")
		}

		s.jvmEditor.Update(jvm)
		if s.uiEditor != nil {
			s.uiEditor.Update(*record.UIOptions)
		}

		s.showResult(jvm)
		s.scheduleSyncEnd(ctx, "load")
		done <- nil
	}()

	return done
}

// Save sends the current record to the settings endpoint.
//
// The payload starts from a fresh default record and receives exactly the JVM heap,
// other flags and properties plus the four UI flags, so the default version is always
// sent. Errors that prevent a request from being issued are returned directly; the
// request outcome arrives on the channel.
func (s *Synchronizer) Save(ctx context.Context) (<-chan error, error) {
	s.mu.Lock()
	current := s.current.Clone()
	s.mu.Unlock()

	if current == nil {
		return nil, ErrNoSettings
	}

	payload, err := buildPayload(current)
	if err != nil {
		return nil, err
	}

	s.syncStart(ctx, "save")
	s.showResult(*payload.JVMOptions)

	done := make(chan error, 1)
	go func() {
		defer close(done)

		if err := s.transport.SaveSettings(ctx, settings.Envelope{BeakerX: payload}); err != nil {
			logging.Get(ctx).Error().Err(err).Msg("failed to save settings")
			done <- fmt.Errorf("failed to save settings: %w", err)
			return
		}

		s.scheduleSyncEnd(ctx, "save")
		done <- nil
	}()

	return done, nil
}

func buildPayload(current *settings.Record) (*settings.Record, error) {
	if current.JVMOptions == nil {
		return nil, ErrNoJVMOptions
	}

	payload := settings.DefaultConfig()

	// nil slices keep the default empty lists so the wire shows [] rather than null.
	jvm := current.JVMOptions.Clone()
	payload.JVMOptions.HeapGB = jvm.HeapGB
	if jvm.Other != nil {
		payload.JVMOptions.Other = jvm.Other
	}
	if jvm.Properties != nil {
		payload.JVMOptions.Properties = jvm.Properties
	}

	if current.UIOptions != nil {
		payload.UIOptions.AutoClose = current.UIOptions.AutoClose
		payload.UIOptions.ImproveFonts = current.UIOptions.ImproveFonts
		payload.UIOptions.WideCells = current.UIOptions.WideCells
		payload.UIOptions.ShowPublication = current.UIOptions.ShowPublication
	}

	return payload, nil
}

// ClearErrors clears any error shown on the status surface.
func (s *Synchronizer) ClearErrors() {
	s.status.ClearErrors()
}

// ShowError displays err on the status surface.
func (s *Synchronizer) ShowError(err error) {
	s.status.OnError(err)
}

// SetUIOptions replaces the UI section of the current record.
func (s *Synchronizer) SetUIOptions(options settings.UIOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNoSettings
	}
	s.current.UIOptions = &options
	return nil
}

// SetJVMOptions replaces the JVM section of the current record.
func (s *Synchronizer) SetJVMOptions(options settings.JVMOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNoSettings
	}
	jvm := options.Clone()
	s.current.JVMOptions = &jvm
	return nil
}

// Settings returns a copy of the current record.
func (s *Synchronizer) Settings() (*settings.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, ErrNoSettings
	}
	return s.current.Clone(), nil
}

// Syncing reports whether the status surface was last told a sync started.
func (s *Synchronizer) Syncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncing
}

func (s *Synchronizer) syncStart(ctx context.Context, op string) {
	s.mu.Lock()
	s.syncing = true
	s.mu.Unlock()

	logging.Get(ctx).Debug().Str("op", op).Msg("sync started")
	s.status.OnSyncStart()
}

func (s *Synchronizer) scheduleSyncEnd(ctx context.Context, op string) {
	logger := logging.Get(ctx)
	s.scheduler.AfterFunc(s.delay, func() {
		s.mu.Lock()
		s.syncing = false
		s.mu.Unlock()

		logger.Debug().Str("op", op).Msg("sync finished")
		s.status.OnSyncEnd()
	})
}

func (s *Synchronizer) showResult(options settings.JVMOptions) {
	s.status.ShowResult(settings.BuildFlagsPreview(options))
}
