package harness

import (
	"errors"
	"fmt"

	"disttest/framework"
)

// TestContext carries the identity a test body runs under. Rank, WorldSize,
// and RendezvousPath are supplied by the enclosing runner before the wrapped
// body executes; Runtime is set by the harness for the duration of the body.
type TestContext struct {
	Rank           int
	WorldSize      int
	RendezvousPath string

	// Runtime is nil outside the wrapped body's execution.
	Runtime *Runtime

	Logger framework.Logger
}

// Harness wraps test bodies so that each invocation transparently establishes
// the distributed coordination context shared across all participating worker
// processes, runs the body, and releases the context regardless of outcome.
type Harness struct {
	transport     Transport
	rpc           RPCLayer
	backend       Backend
	transportKind string
	logger        framework.Logger
}

type Option func(*Harness)

// WithBackend overrides the process-wide backend selection for this harness.
func WithBackend(b Backend) Option {
	return func(h *Harness) { h.backend = b }
}

func WithTransportKind(kind string) Option {
	return func(h *Harness) { h.transportKind = kind }
}

func WithLogger(logger framework.Logger) Option {
	return func(h *Harness) { h.logger = logger }
}

// New creates a Harness around the given transport and RPC layer. The backend
// defaults to the process-wide selection from ResolveBackend.
func New(transport Transport, rpc RPCLayer, opts ...Option) (*Harness, error) {
	if transport == nil {
		return nil, &ConfigurationError{Reason: "transport is nil"}
	}
	if rpc == nil {
		return nil, &ConfigurationError{Reason: "rpc layer is nil"}
	}
	h := &Harness{
		transport:     transport,
		rpc:           rpc,
		backend:       ResolveBackend(),
		transportKind: DefaultTransportKind,
		logger:        framework.NullLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Wrap returns a callable with the same shape as the test body that performs
// the full distributed lifecycle around it: descriptor construction, group
// initialization, RPC initialization, the body itself, and teardown.
//
// Teardown runs whenever initialization fully succeeded, even if the body
// fails or panics. A body failure stays the primary outcome; a teardown
// failure after it is logged but never masks it.
func (h *Harness) Wrap(body func(*TestContext) error) func(*TestContext) error {
	return func(tc *TestContext) error {
		return h.runOne(tc, body)
	}
}

func (h *Harness) runOne(tc *TestContext, body func(*TestContext) error) (err error) {
	desc, err := NewDescriptor(tc.RendezvousPath, tc.Rank, tc.WorldSize)
	if err != nil {
		return err
	}

	group, err := h.transport.InitGroup(desc.URL(), h.transportKind)
	if err != nil {
		return err
	}

	// The RPC layer assumes a live group session, so this must come second.
	name := fmt.Sprintf("worker%d", tc.Rank)
	rpc, err := h.rpc.InitRPC(name, h.backend, tc.Rank, desc.URL())
	if err != nil {
		if cerr := group.Close(); cerr != nil {
			h.logger.Printf("rank %d: closing group session after failed rpc init: %s", tc.Rank, cerr)
		}
		return err
	}

	rt := &Runtime{
		Descriptor: desc,
		WorkerName: name,
		Backend:    h.backend,
		group:      group,
		rpc:        rpc,
	}
	tc.Runtime = rt

	defer func() {
		tc.Runtime = nil
		terr := teardown(rt)
		if terr == nil {
			return
		}
		if err != nil {
			// Body failure stays the primary outcome.
			h.logger.Printf("rank %d: teardown failed after test failure: %s", tc.Rank, terr)
			return
		}
		err = terr
	}()

	return body(tc)
}

// teardown releases the RPC context first and then the group session. The
// group session is closed here as well even though the lifecycle this harness
// descends from only joined the RPC side; leaving the group open would leak
// rendezvous state between tests in the same process.
func teardown(rt *Runtime) error {
	joinErr, closeErr := rt.close()
	if joinErr != nil {
		return asTeardownError("rpc join", joinErr)
	}
	if closeErr != nil {
		return asTeardownError("group close", closeErr)
	}
	return nil
}

func asTeardownError(stage string, err error) error {
	var te *TeardownError
	if errors.As(err, &te) {
		return err
	}
	return &TeardownError{Stage: stage, Err: err}
}
