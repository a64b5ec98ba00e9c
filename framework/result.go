package framework

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Results accumulates the outcome of every test run by one worker process.
// Tests contains every test that was started, including skipped ones;
// Failures is the failed subset.
type Results struct {
	Rank     int
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID     TestID
	Errors     []error
	Skipped    bool
	SkipReason string
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

func PrintResults(dest io.Writer, results Results) {
	var ran, skipped int
	for _, t := range results.Tests {
		if t.Skipped {
			skipped++
		} else {
			ran++
		}
	}
	if results.OK() {
		fmt.Fprintln(dest, color.GreenString("Rank %d: all of %d tests passed (%d skipped)",
			results.Rank, ran, skipped))
		return
	}
	fmt.Fprintln(dest, color.RedString("Rank %d: %d of %d tests failed (%d skipped):",
		results.Rank, len(results.Failures), ran, skipped))
	for _, f := range results.Failures {
		fmt.Fprintf(dest, "  %s\n", f.TestID)
		for _, err := range f.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(dest, "    %s\n", line)
			}
		}
	}
}
