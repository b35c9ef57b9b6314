package testutil

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog" //nolint:depguard // Test utilities need direct zerolog access
	"github.com/wizzomafizzo/beakersync/internal/logging"
)

// lockedBuffer serializes writes from logging goroutines with reads from the test.
type lockedBuffer struct {
	buf strings.Builder
	mu  sync.Mutex
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p) //nolint:wrapcheck // strings.Builder never fails
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// NewTestContext creates a context with logger for race-safe testing
// Returns a context with logger attached and a function to retrieve log output
func NewTestContext(t *testing.T) (ctx context.Context, getLogOutput func() string) {
	t.Helper()

	logOutput := &lockedBuffer{}

	ctx, err := logging.New(context.Background(), nil, logging.Config{
		Component: "test",
		Writer:    logOutput,
		Level:     zerolog.DebugLevel,
	})
	if err != nil {
		t.Fatalf("Failed to create test logger: %v", err)
	}

	return ctx, logOutput.String
}
