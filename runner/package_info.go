// Package runner is the multi-process side of the harness: the parent spawns
// one copy of the test binary per rank with the test identity in its
// environment, and the worker side reads that identity back. Rank assignment
// is always injected this way, never computed by the harness itself.
package runner
