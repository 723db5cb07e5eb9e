// Package logger provides the structured diagnostics sink used across filescan.
//
// The level is decided once, when the logger is built; call sites never
// re-check the environment.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogFilePermissions defines the file permissions for log files (owner read/write only).
const LogFilePermissions = 0o600

// Logger provides structured logging interface.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...any)

	// With returns a new logger with additional key-value pairs.
	With(keysAndValues ...any) Logger
}

// SlogAdapter implements Logger on top of log/slog and CustomHandler.
type SlogAdapter struct {
	logger  *slog.Logger
	handler *CustomHandler
}

// New creates a logger writing to w at the given level.
func New(w io.Writer, level Level) *SlogAdapter {
	return newAdapter(NewWriterHandler(w, level))
}

// NewFileLogger creates a logger appending to the file at path.
func NewFileLogger(path string, level Level) (*SlogAdapter, error) {
	h, err := NewFileHandler(path, level)
	if err != nil {
		return nil, err
	}

	return newAdapter(h), nil
}

// NewFromEnv creates a stderr logger whose level comes from the flags and the
// DEBUG environment variable. A non-empty DEBUG behaves like --trace.
func NewFromEnv(debugMode, traceMode bool) *SlogAdapter {
	return New(os.Stderr, LevelFromFlags(debugMode, traceMode || DebugEnvSet()))
}

// DebugEnvSet reports whether DEBUG or FILESCAN_DEBUG is set to a non-empty value.
func DebugEnvSet() bool {
	return strings.TrimSpace(os.Getenv("DEBUG")) != "" ||
		strings.TrimSpace(os.Getenv("FILESCAN_DEBUG")) != ""
}

func newAdapter(h *CustomHandler) *SlogAdapter {
	return &SlogAdapter{
		logger:  slog.New(h),
		handler: h,
	}
}

// Debug logs debug-level messages.
func (l *SlogAdapter) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

// Info logs info-level messages.
func (l *SlogAdapter) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

// Error logs error-level messages.
func (l *SlogAdapter) Error(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
}

// With returns a new logger with additional base key-value pairs.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (l *SlogAdapter) With(keysAndValues ...any) Logger {
	return &SlogAdapter{
		logger:  l.logger.With(keysAndValues...),
		handler: l.handler,
	}
}

// Close closes the underlying file, if any.
func (l *SlogAdapter) Close() error {
	return l.handler.Close()
}

// NoOpLogger is a logger that does nothing.
type NoOpLogger struct{}

// NewNoOpLogger creates a new NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Debug does nothing.
func (*NoOpLogger) Debug(string, ...any) {}

// Info does nothing.
func (*NoOpLogger) Info(string, ...any) {}

// Error does nothing.
func (*NoOpLogger) Error(string, ...any) {}

// With returns the same NoOpLogger.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (n *NoOpLogger) With(...any) Logger {
	return n
}
