package filestore

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disttest/harness"
)

const testTimeout = time.Second * 5

func descriptorURL(t *testing.T, dir string, rank, worldSize int) string {
	d, err := harness.NewDescriptor(dir, rank, worldSize)
	require.NoError(t, err)
	return d.URL()
}

func TestSingleParticipantCompletesFullLifecycle(t *testing.T) {
	dir := t.TempDir()
	transport := &Transport{Timeout: testTimeout}
	rpcLayer := &RPCLayer{Timeout: testTimeout}
	url := descriptorURL(t, dir, 0, 1)

	group, err := transport.InitGroup(url, "file")
	require.NoError(t, err)

	rpc, err := rpcLayer.InitRPC("worker0", harness.BackendProcessGroup, 0, url)
	require.NoError(t, err)

	assert.NoError(t, rpc.Join())
	assert.NoError(t, group.Close())
}

func TestAllParticipantsRendezvous(t *testing.T) {
	dir := t.TempDir()
	const worldSize = 3

	var wg sync.WaitGroup
	errs := make([]error, worldSize)
	for rank := 0; rank < worldSize; rank++ {
		rank := rank
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[rank] = func() error {
				transport := &Transport{Timeout: testTimeout}
				rpcLayer := &RPCLayer{Timeout: testTimeout}
				url := descriptorURL(t, dir, rank, worldSize)

				group, err := transport.InitGroup(url, "file")
				if err != nil {
					return err
				}
				rpc, err := rpcLayer.InitRPC("worker", harness.BackendProcessGroup, rank, url)
				if err != nil {
					return err
				}
				if err := rpc.Join(); err != nil {
					return err
				}
				return group.Close()
			}()
		}()
	}
	wg.Wait()

	for rank, err := range errs {
		assert.NoError(t, err, "rank %d", rank)
	}
}

func TestGroupInitTimesOutWhenPeerNeverArrives(t *testing.T) {
	dir := t.TempDir()
	transport := &Transport{Timeout: time.Millisecond * 100}

	_, err := transport.InitGroup(descriptorURL(t, dir, 0, 2), "file")

	var re *harness.RendezvousError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, []int{1}, re.Missing)
}

func TestRPCInitDetectsBackendMismatch(t *testing.T) {
	dir := t.TempDir()
	backends := []harness.Backend{harness.BackendProcessGroup, harness.BackendTensorPipe}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for rank := 0; rank < 2; rank++ {
		rank := rank
		wg.Add(1)
		go func() {
			defer wg.Done()
			rpcLayer := &RPCLayer{Timeout: testTimeout}
			_, errs[rank] = rpcLayer.InitRPC("worker", backends[rank], rank,
				descriptorURL(t, dir, rank, 2))
		}()
	}
	wg.Wait()

	for rank := 0; rank < 2; rank++ {
		var be *harness.BackendMismatchError
		require.ErrorAs(t, errs[rank], &be, "rank %d", rank)
		assert.Equal(t, backends[rank], be.Self)
		assert.Equal(t, backends[1-rank], be.Peer)
	}
}

func TestSecondJoinFailsWithTeardownError(t *testing.T) {
	dir := t.TempDir()
	rpcLayer := &RPCLayer{Timeout: testTimeout}

	rpc, err := rpcLayer.InitRPC("worker0", harness.BackendProcessGroup, 0,
		descriptorURL(t, dir, 0, 1))
	require.NoError(t, err)

	require.NoError(t, rpc.Join())

	var te *harness.TeardownError
	require.ErrorAs(t, rpc.Join(), &te)
}

func TestSecondCloseFailsWithTeardownError(t *testing.T) {
	dir := t.TempDir()
	transport := &Transport{Timeout: testTimeout}

	group, err := transport.InitGroup(descriptorURL(t, dir, 0, 1), "file")
	require.NoError(t, err)

	require.NoError(t, group.Close())

	var te *harness.TeardownError
	require.ErrorAs(t, group.Close(), &te)
}

func TestMalformedDescriptorIsARendezvousError(t *testing.T) {
	transport := &Transport{Timeout: testTimeout}
	_, err := transport.InitGroup("http://not-a-file-descriptor", "file")

	var re *harness.RendezvousError
	require.ErrorAs(t, err, &re)
}

func TestLeftoverArrivalMarkerIsRejected(t *testing.T) {
	dir := t.TempDir()
	transport := &Transport{Timeout: testTimeout}
	url := descriptorURL(t, dir, 0, 1)

	_, err := transport.InitGroup(url, "file")
	require.NoError(t, err)

	// A second init at the same path collides with the first run's marker.
	_, err = transport.InitGroup(url, "file")
	var re *harness.RendezvousError
	require.ErrorAs(t, err, &re)
}
