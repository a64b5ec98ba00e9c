package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disttest/harness"
)

func lookupFrom(environ []string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		for _, kv := range environ {
			if k, v, ok := strings.Cut(kv, "="); ok && k == name {
				return v, true
			}
		}
		return "", false
	}
}

func TestIdentityEnvironRoundTrip(t *testing.T) {
	id := Identity{Rank: 2, WorldSize: 4, RendezvousPath: "/tmp/disttest-run"}

	environ := id.Environ([]string{"PATH=/usr/bin"})
	parsed, isWorker, err := identityFromEnv(lookupFrom(environ))

	require.NoError(t, err)
	assert.True(t, isWorker)
	assert.Equal(t, id, parsed)
}

func TestIdentityAbsentMeansParentProcess(t *testing.T) {
	_, isWorker, err := identityFromEnv(lookupFrom([]string{"PATH=/usr/bin"}))
	require.NoError(t, err)
	assert.False(t, isWorker)
}

func TestInvalidIdentityIsAConfigurationError(t *testing.T) {
	for _, p := range []struct {
		desc    string
		environ []string
	}{
		{"non-integer rank", []string{envRank + "=x", envWorldSize + "=2", envRendezvousPath + "=/tmp/t1"}},
		{"missing world size", []string{envRank + "=0", envRendezvousPath + "=/tmp/t1"}},
		{"rank out of range", []string{envRank + "=2", envWorldSize + "=2", envRendezvousPath + "=/tmp/t1"}},
		{"missing path", []string{envRank + "=0", envWorldSize + "=2"}},
		{"relative path", []string{envRank + "=0", envWorldSize + "=2", envRendezvousPath + "=tmp/t1"}},
	} {
		t.Run(p.desc, func(t *testing.T) {
			_, isWorker, err := identityFromEnv(lookupFrom(p.environ))
			assert.True(t, isWorker)
			var ce *harness.ConfigurationError
			require.ErrorAs(t, err, &ce)
		})
	}
}
