package framework

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSingleTest(filter Filter, action func(*Context)) Results {
	return Run(0, filter, nil, func(c *Context) {
		c.Run("the test", action)
	})
}

func TestRunRecordsPassingTest(t *testing.T) {
	results := runSingleTest(nil, func(c *Context) {})

	assert.True(t, results.OK())
	require.Len(t, results.Tests, 1)
	assert.Equal(t, "the test", results.Tests[0].TestID.String())
	assert.Empty(t, results.Failures)
}

func TestRunRecordsErrorfFailure(t *testing.T) {
	results := runSingleTest(nil, func(c *Context) {
		c.Errorf("something went wrong: %d", 42)
		c.Errorf("and then something else")
	})

	assert.False(t, results.OK())
	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 2)
	assert.Equal(t, "something went wrong: 42", results.Failures[0].Errors[0].Error())
}

func TestFailNowStopsTheTestImmediately(t *testing.T) {
	reachedEnd := false
	results := runSingleTest(nil, func(c *Context) {
		c.Errorf("fatal problem")
		c.FailNow()
		reachedEnd = true
	})

	assert.False(t, reachedEnd)
	assert.False(t, results.OK())
}

func TestUnexpectedPanicIsCapturedAsFailure(t *testing.T) {
	results := runSingleTest(nil, func(c *Context) {
		panic(errors.New("surprise"))
	})

	assert.False(t, results.OK())
	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "unexpected panic in test")
}

func TestSkippedTestIsRecordedButNotFailed(t *testing.T) {
	results := runSingleTest(nil, func(c *Context) {
		c.SkipWithReason("not applicable here")
		c.Errorf("should never get here")
	})

	assert.True(t, results.OK())
	require.Len(t, results.Tests, 1)
	assert.True(t, results.Tests[0].Skipped)
	assert.Equal(t, "not applicable here", results.Tests[0].SkipReason)
}

func TestFilterExcludesTestsAndRecordsThemAsSkipped(t *testing.T) {
	ran := false
	filter := func(id TestID) bool { return id.String() != "the test" }
	results := runSingleTest(filter, func(c *Context) { ran = true })

	assert.False(t, ran)
	require.Len(t, results.Tests, 1)
	assert.True(t, results.Tests[0].Skipped)
}

func TestSubtestsAccumulateUnderParentPath(t *testing.T) {
	results := Run(1, nil, nil, func(c *Context) {
		c.Run("group", func(c *Context) {
			c.Run("child a", func(c *Context) {})
			c.Run("child b", func(c *Context) { c.Errorf("nope") })
		})
	})

	assert.Equal(t, 1, results.Rank)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "group/child b", results.Failures[0].TestID.String())
}

func TestDebugOutputIsCapturedPerTest(t *testing.T) {
	var logged CapturedOutput
	logger := &recordingTestLogger{onFinished: func(output CapturedOutput) { logged = output }}
	Run(0, nil, logger, func(c *Context) {
		c.Run("the test", func(c *Context) {
			c.Debug("checkpoint %d", 1)
		})
	})

	require.Len(t, logged, 1)
	assert.Equal(t, "checkpoint 1", logged[0].Message)
}

type recordingTestLogger struct {
	nullTestLogger
	onFinished func(CapturedOutput)
}

func (l *recordingTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	l.onFinished(debugOutput)
}
