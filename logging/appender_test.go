package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"
)

func TestConsoleAppenderWritesThroughLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewLoggerWithAppenders("wired", NewWriterAppender(&buf))
	logger.CWarnw(context.Background(), "something trapped", "field", 1)

	out := buf.String()
	test.That(t, strings.Contains(out, "something trapped"), test.ShouldBeTrue)
	test.That(t, strings.Contains(out, "wired"), test.ShouldBeTrue)
}

func TestFileAppenderWritesToDisk(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "planner.log")
	appender, closer := NewFileAppender(path)
	defer closer.Close()

	logger := NewLoggerWithAppenders("file", appender)
	logger.CWarnw(context.Background(), "trapped to disk")
	test.That(t, appender.Sync(), test.ShouldBeNil)

	contents, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, strings.Contains(string(contents), "trapped to disk"), test.ShouldBeTrue)
}

func TestZapcoreFieldsToJSONRoundTrips(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewLoggerWithAppenders("json-check", NewWriterAppender(&buf))
	logger.SugaredLogger.Infow("entry", "key", "value")

	out := buf.String()
	test.That(t, strings.Contains(out, `"key":"value"`), test.ShouldBeTrue)
}
