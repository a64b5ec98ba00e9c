package filestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"disttest/framework"
	"disttest/harness"
)

const pollInterval = time.Millisecond * 10

// DefaultTimeout bounds how long a participant waits at a barrier for its
// peers before giving up with a RendezvousError.
const DefaultTimeout = time.Second * 30

// barrier is one named synchronization point under the shared rendezvous
// path. A participant arrives by creating a write-once marker file for its
// rank, then polls until a marker exists for every rank in the world.
type barrier struct {
	dir     string
	desc    harness.Descriptor
	timeout time.Duration
	logger  framework.Logger
}

func newBarrier(desc harness.Descriptor, phase string, timeout time.Duration, logger framework.Logger) *barrier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &barrier{
		dir:     filepath.Join(desc.Path, phase),
		desc:    desc,
		timeout: timeout,
		logger:  logger,
	}
}

func markerName(rank int) string {
	return fmt.Sprintf("rank-%d", rank)
}

// arrive records this participant's presence. The marker is created with
// O_EXCL: a leftover marker from an earlier run at the same path is an error,
// not something to silently reuse.
func (b *barrier) arrive(payload string) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return &harness.RendezvousError{
			Phase: filepath.Base(b.dir), Descriptor: b.desc.URL(), Err: err}
	}
	f, err := os.OpenFile(filepath.Join(b.dir, markerName(b.desc.Rank)),
		os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return &harness.RendezvousError{
			Phase: filepath.Base(b.dir), Descriptor: b.desc.URL(),
			Err: fmt.Errorf("could not record arrival: %w", err)}
	}
	_, werr := fmt.Fprintf(f, "%s\n%s\n", uuid.NewString(), payload)
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		return &harness.RendezvousError{
			Phase: filepath.Base(b.dir), Descriptor: b.desc.URL(), Err: werr}
	}
	return nil
}

// await polls until every rank's marker is present, returning each rank's
// payload, or fails with a RendezvousError naming the missing ranks once the
// timeout elapses.
func (b *barrier) await() (map[int]string, error) {
	deadline := time.NewTimer(b.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		payloads, missing, err := b.scan()
		if err != nil {
			return nil, &harness.RendezvousError{
				Phase: filepath.Base(b.dir), Descriptor: b.desc.URL(), Err: err}
		}
		if len(missing) == 0 {
			return payloads, nil
		}
		select {
		case <-deadline.C:
			b.logger.Printf("rank %d: gave up waiting at %s after %s", b.desc.Rank, b.dir, b.timeout)
			return nil, &harness.RendezvousError{
				Phase: filepath.Base(b.dir), Descriptor: b.desc.URL(), Missing: missing}
		case <-ticker.C:
		}
	}
}

func (b *barrier) scan() (map[int]string, []int, error) {
	payloads := make(map[int]string)
	var missing []int
	for rank := 0; rank < b.desc.WorldSize; rank++ {
		data, err := os.ReadFile(filepath.Join(b.dir, markerName(rank)))
		if errors.Is(err, os.ErrNotExist) {
			missing = append(missing, rank)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		lines := strings.SplitN(string(data), "\n", 3)
		if len(lines) < 3 || !strings.HasSuffix(string(data), "\n") {
			// A peer is mid-write; treat it as not arrived yet.
			missing = append(missing, rank)
			continue
		}
		payloads[rank] = lines[1]
	}
	sort.Ints(missing)
	return payloads, missing, nil
}

func (b *barrier) run(payload string) (map[int]string, error) {
	if err := b.arrive(payload); err != nil {
		return nil, err
	}
	return b.await()
}
