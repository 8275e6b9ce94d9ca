package logging

import (
	"context"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// globalLogger backs the package-level fallback used by appender.go when no
// per-component logger has been wired yet (e.g. during NewFileAppender's own
// bring-up, before the component that owns the appender has a logger).
var globalLogger = NewLogger("logging")

// Logger is the structured logger threaded through every planner
// constructor. It wraps zap's SugaredLogger so the rest of the module never
// imports zap directly, and adds a small set of helpers that take a
// context.Context, matching the call sites in the submit front-ends and the
// dispatcher's run functions, which all have one on hand.
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger builds a production logger that writes through a
// NewStdoutAppender.
func NewLogger(name string) Logger {
	return NewLoggerWithAppenders(name, NewStdoutAppender())
}

// NewLoggerWithAppenders builds a logger that fans every entry out to the
// given Appenders (e.g. NewStdoutAppender for a console, NewFileAppender for
// a rotating log file) instead of going through one of zap's own encoders.
func NewLoggerWithAppenders(name string, appenders ...Appender) Logger {
	core := newAppenderCore(zapcore.DebugLevel, appenders...)
	return Logger{zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Named(name).Sugar()}
}

// appenderCore adapts a set of Appenders to the zapcore.Core interface
// Appender is documented as a subset of.
type appenderCore struct {
	level     zapcore.LevelEnabler
	appenders []Appender
}

func newAppenderCore(level zapcore.LevelEnabler, appenders ...Appender) appenderCore {
	return appenderCore{level: level, appenders: appenders}
}

func (c appenderCore) Enabled(level zapcore.Level) bool { return c.level.Enabled(level) }

// With has no buffered state to attach fields to here; appenders receive
// fields per Write call instead.
func (c appenderCore) With(fields []zapcore.Field) zapcore.Core { return c }

func (c appenderCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c appenderCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	var errs error
	for _, a := range c.appenders {
		errs = multierr.Append(errs, a.Write(entry, fields))
	}
	return errs
}

func (c appenderCore) Sync() error {
	var errs error
	for _, a := range c.appenders {
		errs = multierr.Append(errs, a.Sync())
	}
	return errs
}

// NewTestLogger builds a logger that writes through testing.TB.Logf, so
// output is captured and attributed to the right test by `go test`.
func NewTestLogger(tb testing.TB) Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(testWriter{tb}),
		zapcore.DebugLevel,
	)
	return Logger{zap.New(core).Sugar()}
}

type testWriter struct {
	tb testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.tb.Logf("%s", p)
	return len(p), nil
}

// CDebugf logs at debug level. ctx is accepted for call-site symmetry with
// the rest of the context-carrying API; nothing from it is added to the
// entry.
func (l Logger) CDebugf(ctx context.Context, template string, args ...interface{}) {
	l.SugaredLogger.Debugf(template, args...)
}

// CWarnw logs at warn level with structured fields, used for the "trap"
// conditions (region-solver non-convergence, lookback-depth exceeded,
// collaborator failures) that must be logged but never abort the caller.
// ctx is not read.
func (l Logger) CWarnw(ctx context.Context, msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Warnw(msg, keysAndValues...)
}
