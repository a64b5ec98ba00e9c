package runner

import (
	"fmt"
	"os"
	"strconv"

	"disttest/harness"
)

const (
	envRank           = "DISTTEST_RANK"
	envWorldSize      = "DISTTEST_WORLD_SIZE"
	envRendezvousPath = "DISTTEST_RENDEZVOUS_PATH"
)

// Identity is the per-process test identity assigned by the parent runner.
// The harness never computes it; workers read it back from the environment.
type Identity struct {
	Rank           int
	WorldSize      int
	RendezvousPath string
}

// Environ returns base extended with this identity's environment variables.
func (id Identity) Environ(base []string) []string {
	return append(append([]string(nil), base...),
		envRank+"="+strconv.Itoa(id.Rank),
		envWorldSize+"="+strconv.Itoa(id.WorldSize),
		envRendezvousPath+"="+id.RendezvousPath,
	)
}

// IdentityFromEnv reports whether this process was spawned as a worker, and
// if so, its identity. Present-but-invalid values are a ConfigurationError.
func IdentityFromEnv() (Identity, bool, error) {
	return identityFromEnv(os.LookupEnv)
}

func identityFromEnv(lookup func(string) (string, bool)) (Identity, bool, error) {
	rankStr, ok := lookup(envRank)
	if !ok {
		return Identity{}, false, nil
	}
	rank, err := strconv.Atoi(rankStr)
	if err != nil {
		return Identity{}, true, &harness.ConfigurationError{
			Reason: fmt.Sprintf("%s has non-integer value %q", envRank, rankStr)}
	}
	worldStr, _ := lookup(envWorldSize)
	worldSize, err := strconv.Atoi(worldStr)
	if err != nil {
		return Identity{}, true, &harness.ConfigurationError{
			Reason: fmt.Sprintf("%s has non-integer value %q", envWorldSize, worldStr)}
	}
	path, _ := lookup(envRendezvousPath)

	// Reject inconsistent identities here, before any transport activity.
	if _, err := harness.NewDescriptor(path, rank, worldSize); err != nil {
		return Identity{}, true, err
	}
	return Identity{Rank: rank, WorldSize: worldSize, RendezvousPath: path}, true, nil
}
