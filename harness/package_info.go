// Package harness implements the per-test distributed rendezvous and
// lifecycle wrapper.
//
// For every invocation of a wrapped test body, the harness builds a rendezvous
// descriptor from the worker's identity (rank, world size, shared file path),
// initializes a communication group session, initializes an RPC session on top
// of it, runs the body with an explicit runtime handle, and then releases both
// sessions in reverse order. The communication transport and RPC layer are
// narrow consumed interfaces, so the harness can be exercised in a single
// process with fakes; the filestore package provides the real shared-directory
// implementation.
package harness
