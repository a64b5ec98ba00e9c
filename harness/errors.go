package harness

import (
	"fmt"
	"strings"
)

// ConfigurationError indicates invalid rank/world-size/path inputs. It is
// detected locally, before any transport activity, and is never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid harness configuration: " + e.Reason
}

// RendezvousError indicates that peers failed to arrive within the rendezvous
// timeout, or that the rendezvous descriptor was unreachable or malformed. It
// is fatal to the current test invocation.
type RendezvousError struct {
	Phase      string
	Descriptor string
	Missing    []int
	Err        error
}

func (e *RendezvousError) Error() string {
	msg := fmt.Sprintf("rendezvous failed in %s phase (%s)", e.Phase, e.Descriptor)
	if len(e.Missing) > 0 {
		var ranks []string
		for _, r := range e.Missing {
			ranks = append(ranks, fmt.Sprintf("%d", r))
		}
		msg += ": still waiting for rank(s) " + strings.Join(ranks, ", ")
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RendezvousError) Unwrap() error { return e.Err }

// BackendMismatchError indicates that participants disagree on the RPC backend
// selection.
type BackendMismatchError struct {
	Self     Backend
	Peer     Backend
	PeerRank int
}

func (e *BackendMismatchError) Error() string {
	return fmt.Sprintf("rpc backend mismatch: this worker selected %q but rank %d selected %q",
		e.Self, e.PeerRank, e.Peer)
}

// TeardownError indicates that releasing the distributed context failed after
// the test body had already completed. It is surfaced as a secondary failure
// and never replaces a primary test-body failure.
type TeardownError struct {
	Stage string
	Err   error
}

func (e *TeardownError) Error() string {
	return fmt.Sprintf("teardown failed during %s: %s", e.Stage, e.Err)
}

func (e *TeardownError) Unwrap() error { return e.Err }
