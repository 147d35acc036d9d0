// ============================================================================
// Nexus Root - Game Scripting Engine
// ============================================================================
//
// Package:     logging
// Description: Factory functions for foundation loggers and the key/value
//              wrapper used across internal packages
// Author:      Nexus Root Team
// Created:     2026-03-06
// License:     MIT
// ============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	nxlog "github.com/nexusroot/nexus/foundation/core/log"
)

var (
	rootMu sync.RWMutex
	root   *nxlog.Logger

	filesMu sync.Mutex
	files   []*os.File
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: "json", "text" or "console" (default: json)
	Format string

	// File, when set, receives the log instead of Output
	File string

	// Output defaults to stdout
	Output io.Writer

	// Additional outputs besides Output or File
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "json",
	}
}

// NewLogger creates a foundation logger. A log file that cannot be opened
// is reported as an error; the returned logger then writes to Output.
func NewLogger(cfg LoggerConfig) (*nxlog.Logger, error) {
	level, _ := nxlog.ParseLevel(cfg.Level)
	format, _ := nxlog.ParseFormat(cfg.Format)

	var output io.Writer = os.Stdout
	if cfg.Output != nil {
		output = cfg.Output
	}

	var openErr error
	if cfg.File != "" {
		f, err := openLogFile(cfg.File)
		if err != nil {
			openErr = err
		} else {
			output = f
		}
	}

	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	logger := nxlog.NewWithConfig(nxlog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.ServiceName,
	})
	return logger, openErr
}

// NewSimpleLogger creates a logger with the default configuration
func NewSimpleLogger(serviceName string) *nxlog.Logger {
	logger, _ := NewLogger(DefaultLoggerConfig(serviceName))
	return logger
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	filesMu.Lock()
	files = append(files, f)
	filesMu.Unlock()
	return f, nil
}

// CloseFiles closes every log file opened by NewLogger
func CloseFiles() error {
	filesMu.Lock()
	defer filesMu.Unlock()

	var firstErr error
	for _, f := range files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	files = nil
	return firstErr
}

// SetRoot makes logger the parent of every logger returned by New, and the
// foundation default.
func SetRoot(logger *nxlog.Logger) {
	if logger == nil {
		return
	}
	rootMu.Lock()
	root = logger
	rootMu.Unlock()
	nxlog.SetDefault(logger)
}

// Root returns the logger set by SetRoot, or the foundation default
func Root() *nxlog.Logger {
	rootMu.RLock()
	defer rootMu.RUnlock()
	if root == nil {
		return nxlog.GetDefault()
	}
	return root
}

// Logger wraps the foundation logger with key/value logging methods
type Logger struct {
	*nxlog.Logger
	name string
}

// New creates a named logger derived from Root
func New(name string) *Logger {
	return &Logger{
		Logger: Root().WithName(name),
		name:   name,
	}
}

// Wrap adapts an existing foundation logger
func Wrap(logger *nxlog.Logger, name string) *Logger {
	if logger == nil {
		return New(name)
	}
	return &Logger{Logger: logger.WithName(name), name: name}
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.name
}

// WithLevel returns a new logger with the specified level
func (l *Logger) WithLevel(level Level) *Logger {
	return &Logger{
		Logger: l.Logger.WithLevel(level.foundation()),
		name:   l.name,
	}
}

// With returns a logger that adds the given key/value pairs to every entry
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		Logger: l.Logger.WithFields(toFields(keysAndValues...)),
		name:   l.name,
	}
}

// Debug logs a debug message with key/value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message with key/value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message with key/value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

// Error logs an error message with key/value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...))
}

// Audit logs an entry that bypasses the level filter
func (l *Logger) Audit(msg string, keysAndValues ...interface{}) {
	l.Logger.Audit(msg, toFields(keysAndValues...))
}

// toFields converts key-value pairs to foundation Fields. A trailing key
// without value is dropped, as are non-string keys.
func toFields(keysAndValues ...interface{}) nxlog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(nxlog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		value := keysAndValues[i+1]
		if err, ok := value.(error); ok && err != nil {
			value = err.Error()
		}
		fields[key] = value
	}
	return fields
}
