// Package logging defines the structured logging contract used across
// dbcanvas. Callers bring their own backend through a small adapter.
package logging

import "context"

type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Field holds a key/value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

type Logger interface {
	Log(context.Context, Level, string, ...Field)
}

// Helper is implemented by loggers that can hide helper frames from
// stacktraces, such as [TestLogger].
type Helper interface {
	Helper()
}

// Log writes to logger when it is non-nil.
func Log(ctx context.Context, logger Logger, level Level, msg string, fields ...Field) {
	if logger == nil {
		return
	}
	if h, ok := logger.(Helper); ok {
		h.Helper()
	}
	logger.Log(ctx, level, msg, fields...)
}
