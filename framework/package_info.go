// Package framework contains the low-level implementation of test harness infrastructure
// that can be reused for different kinds of tests.
//
// The general model is:
//
// 1. Tests run inside worker processes that are outside the Go test runner, so there is
// a general notion of a test context which is similar to Go's *testing.T, allowing pieces
// of test logic to be associated with a test identifier and to accumulate success/failure
// results.
//
// 2. Each worker process produces its own Results, tagged with that worker's rank, which
// the parent process aggregates across the whole distributed run.
//
// 3. Test selection is done with regex filters supplied on the command line, and debug
// output is captured per test so that it can be shown only for tests that failed.
//
// The domain-specific code that knows what is being tested is responsible for providing
// the distributed lifecycle around each test body and a domain-specific test API on top
// of the test context; see the harness and smoketests packages.
package framework
