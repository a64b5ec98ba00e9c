package harness

// Transport is the communication layer the harness initializes first. Its
// InitGroup call is a collective operation: it blocks until every rank named
// in the descriptor has made the same call, or until the transport's
// rendezvous timeout elapses, in which case it fails with a RendezvousError.
type Transport interface {
	InitGroup(descriptorURL string, transportKind string) (GroupSession, error)
}

// GroupSession is the opaque communication context returned by the transport.
// The harness owns it for the scope of one test and closes it during teardown.
type GroupSession interface {
	Close() error
}

// RPCLayer is the messaging layer initialized on top of a live group session.
// InitRPC is also collective; it can additionally fail with a
// BackendMismatchError when participants disagree on the backend.
type RPCLayer interface {
	InitRPC(selfName string, backend Backend, selfRank int, descriptorURL string) (RPCSession, error)
}

// RPCSession is the opaque RPC context. Join releases it; a second Join on the
// same session fails with a TeardownError without corrupting process state.
type RPCSession interface {
	Join() error
}

// Runtime is the distributed runtime handle for one test invocation. The
// harness creates it after both initialization steps succeed and passes it to
// the test body through the TestContext, which makes the one-active-context-
// per-process rule explicit instead of relying on ambient global state.
type Runtime struct {
	Descriptor Descriptor
	WorkerName string
	Backend    Backend

	group GroupSession
	rpc   RPCSession
}

func (rt *Runtime) close() (joinErr, closeErr error) {
	joinErr = rt.rpc.Join()
	closeErr = rt.group.Close()
	return
}
