package synchronizer

import (
	"context"
	"sync"
	"time"

	"github.com/wizzomafizzo/beakersync/internal/settings"
)

type fakeTransport struct {
	loadErr  error
	saveErr  error
	record   *settings.Record
	saved    []settings.Envelope
	mu       sync.Mutex
	loadHits int
}

func (f *fakeTransport) LoadSettings(_ context.Context) (*settings.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadHits++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.record.Clone(), nil
}

func (f *fakeTransport) SaveSettings(_ context.Context, payload settings.Envelope) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, payload)
	return nil
}

func (f *fakeTransport) lastSaved() settings.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved[len(f.saved)-1]
}

type fakeStatus struct {
	ended   chan struct{}
	events  []string
	results []string
	errors  []error
	mu      sync.Mutex
}

func newFakeStatus() *fakeStatus {
	return &fakeStatus{ended: make(chan struct{}, 16)}
}

func (f *fakeStatus) record(event string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeStatus) OnSyncStart() { f.record("start") }

func (f *fakeStatus) OnSyncEnd() {
	f.record("end")
	f.ended <- struct{}{}
}

func (f *fakeStatus) OnError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, "error")
	f.errors = append(f.errors, err)
}

func (f *fakeStatus) ClearErrors() { f.record("clear") }

func (f *fakeStatus) ShowResult(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, "result")
	f.results = append(f.results, text)
}

func (f *fakeStatus) snapshot() (events, results []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.events...), append([]string{}, f.results...)
}

type fakeJVMEditor struct {
	updates []settings.JVMOptions
	mu      sync.Mutex
}

func (f *fakeJVMEditor) Update(options settings.JVMOptions) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, options)
}

type fakeUIEditor struct {
	updates []settings.UIOptions
	mu      sync.Mutex
}

func (f *fakeUIEditor) Update(options settings.UIOptions) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, options)
}

// manualScheduler holds scheduled calls until fire is called.
type manualScheduler struct {
	pending []func()
	delays  []time.Duration
	mu      sync.Mutex
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays = append(m.delays, d)
	m.pending = append(m.pending, f)
}

func (m *manualScheduler) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (m *manualScheduler) fire() {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, f := range pending {
		f()
	}
}
