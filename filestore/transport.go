package filestore

import (
	"errors"
	"strings"
	"sync"
	"time"

	"disttest/framework"
	"disttest/harness"
)

const (
	groupPhase = "group"
	rpcPhase   = "rpc"
	leavePhase = "leave"
)

// Transport implements harness.Transport over a shared directory. Group
// initialization is an arrival barrier in a "group" subdirectory of the
// rendezvous path.
type Transport struct {
	Timeout time.Duration
	Logger  framework.Logger
}

func (t *Transport) InitGroup(descriptorURL string, transportKind string) (harness.GroupSession, error) {
	desc, err := parseDescriptor(descriptorURL, groupPhase)
	if err != nil {
		return nil, err
	}
	b := newBarrier(desc, groupPhase, t.Timeout, t.Logger)
	if _, err := b.run(transportKind); err != nil {
		return nil, err
	}
	return &groupSession{desc: desc}, nil
}

type groupSession struct {
	desc   harness.Descriptor
	closed bool
	lock   sync.Mutex
}

// Close marks the session released. The arrival markers are write-once by
// design, so there is nothing to undo on the filesystem; a second Close is
// reported as a TeardownError.
func (s *groupSession) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return &harness.TeardownError{
			Stage: "group close", Err: errors.New("group session is already closed")}
	}
	s.closed = true
	return nil
}

// RPCLayer implements harness.RPCLayer over the same shared directory. RPC
// initialization is a second barrier whose payload carries each participant's
// backend and worker name; after the barrier, any peer that selected a
// different backend fails the initialization.
type RPCLayer struct {
	Timeout time.Duration
	Logger  framework.Logger
}

func (l *RPCLayer) InitRPC(
	selfName string,
	backend harness.Backend,
	selfRank int,
	descriptorURL string,
) (harness.RPCSession, error) {
	desc, err := parseDescriptor(descriptorURL, rpcPhase)
	if err != nil {
		return nil, err
	}
	b := newBarrier(desc, rpcPhase, l.Timeout, l.Logger)
	peers, err := b.run(string(backend) + " " + selfName)
	if err != nil {
		return nil, err
	}
	for rank, payload := range peers {
		if rank == selfRank {
			continue
		}
		peerBackend, _, _ := strings.Cut(payload, " ")
		if harness.Backend(peerBackend) != backend {
			return nil, &harness.BackendMismatchError{
				Self: backend, Peer: harness.Backend(peerBackend), PeerRank: rank}
		}
	}
	return &rpcSession{
		leave: newBarrier(desc, leavePhase, l.Timeout, l.Logger),
		name:  selfName,
	}, nil
}

type rpcSession struct {
	leave  *barrier
	name   string
	joined bool
	lock   sync.Mutex
}

// Join is the graceful departure barrier: no participant leaves until every
// participant is done with the RPC session. A second Join on the same session
// fails with a TeardownError and leaves process state intact.
func (s *rpcSession) Join() error {
	s.lock.Lock()
	if s.joined {
		s.lock.Unlock()
		return &harness.TeardownError{
			Stage: "rpc join", Err: errors.New("rpc session is already joined")}
	}
	s.joined = true
	s.lock.Unlock()

	if _, err := s.leave.run(s.name); err != nil {
		return &harness.TeardownError{Stage: "rpc join", Err: err}
	}
	return nil
}

func parseDescriptor(descriptorURL, phase string) (harness.Descriptor, error) {
	desc, err := harness.ParseDescriptor(descriptorURL)
	if err != nil {
		return harness.Descriptor{}, &harness.RendezvousError{
			Phase: phase, Descriptor: descriptorURL, Err: err}
	}
	return desc, nil
}
