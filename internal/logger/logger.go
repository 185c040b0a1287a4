// Package logger implements a logging adapter using log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"

	"go.trai.ch/zerr"
)

// Logger is the logging interface used throughout dep-inventory.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(err error)
}

// slogLogger implements Logger using log/slog.
type slogLogger struct {
	logger *slog.Logger
}

// New creates a Logger writing human-readable text records to w. Debug
// records are only emitted when verbose is set.
func New(w io.Writer, verbose bool) Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return &slogLogger{logger: slog.New(handler)}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &slogLogger{logger: slog.New(slog.DiscardHandler)}
}

// Debug logs a debug message.
func (l *slogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Info logs an informational message.
func (l *slogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Warn logs a warning message.
func (l *slogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error logs err at error level. zerr metadata in the chain becomes
// structured fields.
func (l *slogLogger) Error(err error) {
	if err == nil {
		return
	}
	zerr.Log(context.Background(), l.logger, err)
}
