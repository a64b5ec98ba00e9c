package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackendDefaultsToProcessGroup(t *testing.T) {
	env := func(string) string { return "" }
	assert.Equal(t, BackendProcessGroup, backendFromEnv(env))
}

func TestBackendEnvOverride(t *testing.T) {
	env := func(name string) string {
		if name == backendEnvVar {
			return "tensor-pipe"
		}
		return ""
	}
	assert.Equal(t, BackendTensorPipe, backendFromEnv(env))
}
