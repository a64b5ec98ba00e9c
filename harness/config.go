package harness

import (
	"os"
	"sync"
)

// Backend identifies the implementation strategy the RPC layer should use.
type Backend string

const (
	BackendProcessGroup Backend = "process-group"
	BackendTensorPipe   Backend = "tensor-pipe"
)

// DefaultTransportKind is the fixed transport identifier passed to the
// communication layer when no override is configured.
const DefaultTransportKind = "file"

const backendEnvVar = "RPC_BACKEND"

var (
	backendOnce     sync.Once
	resolvedBackend Backend
)

// ResolveBackend returns the process-wide RPC backend selection. The
// RPC_BACKEND environment variable is consulted exactly once per process;
// later changes to the environment have no effect.
func ResolveBackend() Backend {
	backendOnce.Do(func() {
		resolvedBackend = backendFromEnv(os.Getenv)
	})
	return resolvedBackend
}

func backendFromEnv(getenv func(string) string) Backend {
	if v := getenv(backendEnvVar); v != "" {
		return Backend(v)
	}
	return BackendProcessGroup
}
