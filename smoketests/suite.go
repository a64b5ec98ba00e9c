package smoketests

import (
	"path/filepath"
	"strings"

	"disttest/framework"
	"disttest/harness"
	"disttest/runner"
)

// RunTestSuite runs the built-in distributed contract tests in one worker
// process. Every rank runs the same suite in the same order; each test gets
// its own rendezvous path derived deterministically from the test name, so
// that all ranks agree on it without communicating first.
func RunTestSuite(
	h *harness.Harness,
	id runner.Identity,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(id.Rank, filter, testLogger, func(c *framework.Context) {
		s := &suite{harness: h, identity: id}

		s.run(c, "rendezvous arrival", DoRendezvousArrivalTest)
		s.run(c, "worker identity", DoWorkerIdentityTest)
		s.run(c, "descriptor format", DoDescriptorFormatTest)
		s.run(c, "recorded rank", DoRecordedRankTest)
		s.run(c, "backend agreement", DoBackendAgreementTest)
	})
}

type suite struct {
	harness  *harness.Harness
	identity runner.Identity
}

// run executes one distributed test: the body goes through the harness's full
// init/run/teardown lifecycle, and lifecycle errors are reported as test
// failures for this rank.
func (s *suite) run(c *framework.Context, name string, body func(*harness.T)) {
	c.Run(name, func(c1 *framework.Context) {
		tc := &harness.TestContext{
			Rank:           s.identity.Rank,
			WorldSize:      s.identity.WorldSize,
			RendezvousPath: filepath.Join(s.identity.RendezvousPath, pathSlug(c1.ID().String())),
			Logger:         c1.DebugLogger(),
		}
		wrapped := s.harness.Wrap(func(tc *harness.TestContext) error {
			body(harness.NewT(c1, tc))
			return nil
		})
		if err := wrapped(tc); err != nil {
			c1.Errorf("distributed lifecycle failed: %s", err)
		}
	})
}

// pathSlug turns a test name into a filesystem-safe directory name. It must
// be a pure function of the name: every rank computes it independently.
func pathSlug(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
}
