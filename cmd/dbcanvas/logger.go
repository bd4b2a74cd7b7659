package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tordrt/dbcanvas/internal/config"
	"github.com/tordrt/dbcanvas/internal/logging"
)

// newLogger writes to w, which is stderr for commands that print results to
// stdout.
func newLogger(w io.Writer, format string) (*log.Logger, logAdapter, error) {
	var logger *log.Logger
	switch format {
	case config.LogFormatText:
		logger = log.NewWithOptions(w, log.Options{Formatter: log.TextFormatter})
	case config.LogFormatJSON:
		logger = log.NewWithOptions(w, log.Options{Formatter: log.JSONFormatter})
	default:
		return nil, logAdapter{}, fmt.Errorf("unknown log format: %s", format)
	}
	return logger, logAdapter{logger}, nil
}

type logAdapter struct {
	*log.Logger
}

func (l logAdapter) Log(_ context.Context, level logging.Level, msg string, fields ...logging.Field) {
	args := make([]any, 0, 2*len(fields))
	for _, field := range fields {
		args = append(args, field.Key, field.Value)
	}
	switch level {
	case logging.LevelDebug:
		l.Logger.Debug(msg, args...)
	case logging.LevelInfo:
		l.Logger.Info(msg, args...)
	case logging.LevelWarning:
		l.Logger.Warn(msg, args...)
	case logging.LevelError:
		l.Logger.Error(msg, args...)
	}
}
