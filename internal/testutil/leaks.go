package testutil

import (
	"testing"

	"go.uber.org/goleak"
)

// VerifyNoLeaks verifies that no goroutines are leaked during test execution.
// Tests that use it must not call t.Parallel, since goroutines of sibling tests
// would be reported.
//
// Example usage:
//
//	func TestSyncCycle(t *testing.T) {
//	    defer VerifyNoLeaks(t)
//	    // Test code that starts goroutines
//	}
func VerifyNoLeaks(t *testing.T) {
	t.Helper()
	goleak.VerifyNone(t, defaultOptions()...)
}

// VerifyNoLeaksWithOptions provides more control over leak detection.
func VerifyNoLeaksWithOptions(t *testing.T, options ...goleak.Option) {
	t.Helper()
	allOptions := append(defaultOptions(), options...)
	goleak.VerifyNone(t, allOptions...)
}

// defaultOptions returns common ignore patterns for testing framework goroutines
func defaultOptions() []goleak.Option {
	return []goleak.Option{
		goleak.IgnoreTopFunction("testing.tRunner.func1"),
		goleak.IgnoreTopFunction("testing.runTests"),
		goleak.IgnoreTopFunction("testing.(*M).Run"),
		goleak.IgnoreTopFunction("go.uber.org/goleak.(*opts).retry"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
	}
}
