package harness

import (
	"disttest/framework"
)

// T represents one distributed test as seen by the body running in a single
// worker process.
//
// It implements the same basic functionality as Go's testing.T, but in an
// environment that is outside of the Go test runner: failures are recorded in
// the framework Context for this worker, and the live distributed Runtime is
// available through it for the duration of the body.
//
// To make test assertions, you can use the assert and require packages,
// passing the *T as if it were a *testing.T.
type T struct {
	context *framework.Context
	tc      *TestContext
}

func NewT(context *framework.Context, tc *TestContext) *T {
	return &T{context: context, tc: tc}
}

// Errorf is called by assertions to log a test failure. It does not cause an
// immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately
// exit. The methods in the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Debug logs some debug output for the test. The output will be passed to the
// test logger at the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

func (t *T) Rank() int {
	return t.tc.Rank
}

func (t *T) WorldSize() int {
	return t.tc.WorldSize
}

func (t *T) RendezvousPath() string {
	return t.tc.RendezvousPath
}

// Runtime returns the distributed runtime handle for the current invocation.
func (t *T) Runtime() *Runtime {
	return t.tc.Runtime
}
