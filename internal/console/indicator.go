// Package console renders synchronizer output on a terminal.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Indicator is a line-oriented status surface. It is safe for concurrent use.
type Indicator struct {
	out     io.Writer
	lastErr error
	result  string
	mu      sync.Mutex
	syncing bool
}

// NewIndicator creates an indicator writing to out.
func NewIndicator(out io.Writer) *Indicator {
	return &Indicator{out: out}
}

func (i *Indicator) OnSyncStart() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.syncing = true
	_, _ = color.New(color.FgYellow).Fprintln(i.out, "Syncing settings...")
}

func (i *Indicator) OnSyncEnd() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.syncing = false
	_, _ = color.New(color.FgGreen).Fprintln(i.out, "Settings synced")
}

func (i *Indicator) OnError(err error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.lastErr = err
	_, _ = color.New(color.FgRed).Fprintf(i.out, "Error: %v\n", err)
}

// ClearErrors forgets the last error. Lines already written stay on the terminal.
func (i *Indicator) ClearErrors() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.lastErr = nil
}

func (i *Indicator) ShowResult(text string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.result = text
	_, _ = fmt.Fprintf(i.out, "%s %s\n", color.CyanString("JVM flags:"), text)
}

// Syncing reports whether a sync start has not yet been matched by an end.
func (i *Indicator) Syncing() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.syncing
}

// LastError returns the error currently displayed, if any.
func (i *Indicator) LastError() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.lastErr
}

// Result returns the last flags preview shown.
func (i *Indicator) Result() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.result
}
