package logging

import (
	"context"
	"testing"

	"go.viam.com/test"
)

func TestNewTestLoggerDoesNotPanic(t *testing.T) {
	t.Parallel()
	logger := NewTestLogger(t)
	logger.CDebugf(context.Background(), "hello %s", "world")
	logger.CWarnw(context.Background(), "something trapped", "field", 1)
}

func TestNewLoggerIsNamed(t *testing.T) {
	t.Parallel()
	logger := NewLogger("planner")
	test.That(t, logger.SugaredLogger, test.ShouldNotBeNil)
}
