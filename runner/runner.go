package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/alessio/shellescape"
	"golang.org/x/sync/errgroup"

	"disttest/framework"
	"disttest/harness"
)

// Runner spawns one worker process per rank and waits for all of them. Every
// worker runs the same command; only the identity injected into its
// environment differs.
type Runner struct {
	Command       []string
	WorldSize     int
	RendezvousDir string
	Output        io.Writer
	Logger        framework.Logger
}

// WorkerResult is the outcome of one rank's process. Err is nil when the
// process exited with status zero.
type WorkerResult struct {
	Rank int
	Err  error
}

func AllPassed(results []WorkerResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return false
		}
	}
	return true
}

// Run starts all worker processes concurrently and waits for every one of
// them to exit. A failing worker does not interrupt its siblings: the
// departure barrier means the other ranks fail on their own soon enough, and
// their output is more useful than a kill signal.
func (r *Runner) Run(ctx context.Context) ([]WorkerResult, error) {
	if len(r.Command) == 0 {
		return nil, &harness.ConfigurationError{Reason: "runner has no worker command"}
	}
	if r.WorldSize < 1 {
		return nil, &harness.ConfigurationError{
			Reason: fmt.Sprintf("world size must be at least 1, got %d", r.WorldSize)}
	}
	if err := os.MkdirAll(r.RendezvousDir, 0o755); err != nil {
		return nil, err
	}
	logger := r.Logger
	if logger == nil {
		logger = framework.NullLogger()
	}
	output := r.Output
	if output == nil {
		output = os.Stdout
	}

	logger.Printf("Spawning %d worker processes: %s", r.WorldSize, commandDescription(r.Command))

	// All workers share one destination; line writes must not interleave.
	shared := &syncWriter{dest: output}
	results := make([]WorkerResult, r.WorldSize)
	group, ctx := errgroup.WithContext(ctx)
	for rank := 0; rank < r.WorldSize; rank++ {
		rank := rank
		group.Go(func() error {
			id := Identity{Rank: rank, WorldSize: r.WorldSize, RendezvousPath: r.RendezvousDir}
			cmd := exec.CommandContext(ctx, r.Command[0], r.Command[1:]...)
			cmd.Env = id.Environ(os.Environ())
			prefixed := &lineWriter{dest: shared, prefix: fmt.Sprintf("[rank %d] ", rank)}
			cmd.Stdout = prefixed
			cmd.Stderr = prefixed
			err := cmd.Run()
			prefixed.Flush()
			results[rank] = WorkerResult{Rank: rank, Err: err}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// commandDescription renders the worker command in a copy-pasteable form.
func commandDescription(argv []string) string {
	quoted := make([]string, 0, len(argv))
	for _, a := range argv {
		quoted = append(quoted, shellescape.Quote(a))
	}
	return strings.Join(quoted, " ")
}

type syncWriter struct {
	dest io.Writer
	lock sync.Mutex
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.dest.Write(p)
}

// lineWriter prefixes every complete output line with the worker's rank so
// that interleaved output from concurrent workers stays attributable.
type lineWriter struct {
	dest   io.Writer
	prefix string
	buf    bytes.Buffer
	lock   sync.Mutex
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Put the partial line back and wait for more input.
			w.buf.WriteString(line)
			break
		}
		fmt.Fprintf(w.dest, "%s%s", w.prefix, line)
	}
	return len(p), nil
}

// Flush writes out any trailing output that did not end with a newline.
func (w *lineWriter) Flush() {
	w.lock.Lock()
	defer w.lock.Unlock()
	if w.buf.Len() > 0 {
		fmt.Fprintf(w.dest, "%s%s\n", w.prefix, w.buf.String())
		w.buf.Reset()
	}
}
