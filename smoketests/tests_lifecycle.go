package smoketests

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disttest/harness"
)

// DoRecordedRankTest is the end-to-end sanity check: each rank runs a trivial
// body that records its own rank to the shared directory and reads it back.
func DoRecordedRankTest(t *harness.T) {
	path := filepath.Join(t.RendezvousPath(), fmt.Sprintf("recorded-rank-%d", t.Rank()))
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(t.Rank())), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	recorded, err := strconv.Atoi(string(data))
	require.NoError(t, err)
	assert.Equal(t, t.Rank(), recorded)
}

// DoBackendAgreementTest verifies that the runtime was initialized with the
// process-wide backend selection; the RPC layer has already failed the whole
// lifecycle if any peer disagreed.
func DoBackendAgreementTest(t *harness.T) {
	rt := t.Runtime()
	require.NotNil(t, rt)

	assert.NotEmpty(t, rt.Backend)
	t.Debug("rank %d initialized rpc with backend %q", t.Rank(), rt.Backend)
}
