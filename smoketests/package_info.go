// Package smoketests contains the built-in distributed contract tests and
// their supporting API.
//
// These tests run inside every worker process of a distributed run and
// exercise the harness end to end across real processes: rendezvous, worker
// identity, descriptor format, and lifecycle teardown. Infrastructure that is
// not specific to these tests, such as per-test failure tracking and filters,
// is in the lower-level framework package.
package smoketests
