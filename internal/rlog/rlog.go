// Package rlog is a thin wrapper over logr.Logger used at header-dispatch
// boundaries, modeled after rstms-iso-kit's pkg/logging package.
package rlog

import "github.com/go-logr/logr"

// Verbosity levels passed to logr.Logger.V.
const (
	LevelInfo = 0
	LevelDebug = 1
	LevelTrace = 2
)

// Logger wraps a logr.Logger with leveled convenience methods.
type Logger struct {
	sink logr.Logger
}

// New wraps log. A zero-value logr.Logger is replaced with a discarding
// sink.
func New(log logr.Logger) Logger {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return Logger{sink: log}
}

// Default returns a Logger that discards everything, the package's
// zero-configuration behavior.
func Default() Logger {
	return Logger{sink: logr.Discard()}
}

func (l Logger) Info(msg string, keysAndValues ...interface{}) {
	l.sink.V(LevelInfo).Info(msg, keysAndValues...)
}

func (l Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.sink.V(LevelDebug).Info(msg, keysAndValues...)
}

func (l Logger) Trace(msg string, keysAndValues ...interface{}) {
	l.sink.V(LevelTrace).Info(msg, keysAndValues...)
}

func (l Logger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sink.Error(err, msg, keysAndValues...)
}
