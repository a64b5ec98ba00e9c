package smoketests

import (
	"fmt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disttest/harness"
)

// DoRendezvousArrivalTest verifies that by the time a test body runs, every
// rank has completed both initialization barriers and holds a live runtime
// handle for its own identity.
func DoRendezvousArrivalTest(t *harness.T) {
	rt := t.Runtime()
	require.NotNil(t, rt, "test body ran without a distributed runtime handle")

	assert.Equal(t, t.Rank(), rt.Descriptor.Rank)
	assert.Equal(t, t.WorldSize(), rt.Descriptor.WorldSize)
	assert.Equal(t, t.RendezvousPath(), rt.Descriptor.Path)
	t.Debug("rank %d arrived with descriptor %s", t.Rank(), rt.Descriptor.URL())
}

// DoWorkerIdentityTest verifies the synthesized participant name.
func DoWorkerIdentityTest(t *harness.T) {
	rt := t.Runtime()
	require.NotNil(t, rt)

	assert.Equal(t, fmt.Sprintf("worker%d", t.Rank()), rt.WorkerName)
}

// DoDescriptorFormatTest verifies the canonical descriptor form that any
// distributed test runner interoperating with this convention expects.
func DoDescriptorFormatTest(t *harness.T) {
	rt := t.Runtime()
	require.NotNil(t, rt)

	expected := fmt.Sprintf("file://%s?rank=%d&world_size=%d",
		t.RendezvousPath(), t.Rank(), t.WorldSize())
	assert.Equal(t, expected, rt.Descriptor.URL())
}
