// File: logger.go
// Title: Structured Logger
// Description: Immutable, leveled logger with persistent context fields,
//              player/request scoping and integration with the coded
//              error type of foundation/core/error.
// Author: Nexus Root Team
// Version: v0.2.0
// Created: 2026-03-02
// Modified: 2026-04-11
//
// Change History:
// - 2026-03-02 v0.1.0: Initial implementation
// - 2026-04-11 v0.2.0: WithPlayer, shared write lock across clones

package log

import (
	"io"
	"os"
	"sync"
	"time"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
)

// Logger writes structured entries. All With* methods return a clone.
type Logger struct {
	level     Level
	formatter Formatter
	output    io.Writer
	name      string

	contextFields Fields
	playerID      string
	requestID     string

	// shared by all clones writing to the same output
	writeMu *sync.Mutex
	mutex   sync.RWMutex
}

// Config configures NewWithConfig
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
	Name   string
}

// New creates an info-level JSON logger writing to stdout
func New() *Logger {
	return NewWithConfig(Config{Level: LevelInfo, Format: FormatJSON})
}

// NewWithConfig creates a logger from cfg. A nil Output means stdout.
func NewWithConfig(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	return &Logger{
		level:         cfg.Level,
		formatter:     GetFormatter(cfg.Format),
		output:        out,
		name:          cfg.Name,
		contextFields: make(Fields),
		writeMu:       &sync.Mutex{},
	}
}

// Discard returns a logger that drops everything; handy in tests
func Discard() *Logger {
	return NewWithConfig(Config{Level: LevelError, Output: io.Discard})
}

func (l *Logger) clone() *Logger {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return &Logger{
		level:         l.level,
		formatter:     l.formatter,
		output:        l.output,
		name:          l.name,
		contextFields: l.contextFields.Clone(),
		playerID:      l.playerID,
		requestID:     l.requestID,
		writeMu:       l.writeMu,
	}
}

// WithLevel returns a clone with a different minimum level
func (l *Logger) WithLevel(level Level) *Logger {
	c := l.clone()
	c.level = level
	return c
}

// WithFormat returns a clone with a different formatter
func (l *Logger) WithFormat(format Format) *Logger {
	c := l.clone()
	c.formatter = GetFormatter(format)
	return c
}

// WithOutput returns a clone writing to w
func (l *Logger) WithOutput(w io.Writer) *Logger {
	c := l.clone()
	c.output = w
	c.writeMu = &sync.Mutex{}
	return c
}

// WithName returns a clone with a logger name
func (l *Logger) WithName(name string) *Logger {
	c := l.clone()
	c.name = name
	return c
}

// WithField returns a clone that adds key=value to every entry
func (l *Logger) WithField(key string, value interface{}) *Logger {
	c := l.clone()
	c.contextFields[key] = value
	return c
}

// WithFields returns a clone that adds all fields to every entry
func (l *Logger) WithFields(fields Fields) *Logger {
	c := l.clone()
	for k, v := range fields {
		c.contextFields[k] = v
	}
	return c
}

// WithPlayer scopes the logger to a player id
func (l *Logger) WithPlayer(playerID string) *Logger {
	c := l.clone()
	c.playerID = playerID
	return c
}

// WithRequestID scopes the logger to a request id
func (l *Logger) WithRequestID(requestID string) *Logger {
	c := l.clone()
	c.requestID = requestID
	return c
}

func (l *Logger) Trace(message string, fields ...Fields) { l.log(LevelTrace, message, nil, fields...) }
func (l *Logger) Debug(message string, fields ...Fields) { l.log(LevelDebug, message, nil, fields...) }
func (l *Logger) Info(message string, fields ...Fields)  { l.log(LevelInfo, message, nil, fields...) }
func (l *Logger) Warn(message string, fields ...Fields)  { l.log(LevelWarn, message, nil, fields...) }
func (l *Logger) Error(message string, fields ...Fields) { l.log(LevelError, message, nil, fields...) }

// Audit writes an entry that ignores the level filter
func (l *Logger) Audit(message string, fields ...Fields) { l.log(LevelAudit, message, nil, fields...) }

// ErrorWithErr logs message at error level with err attached
func (l *Logger) ErrorWithErr(message string, err error, fields ...Fields) {
	l.log(LevelError, message, err, fields...)
}

// WarnWithErr logs message at warn level with err attached
func (l *Logger) WarnWithErr(message string, err error, fields ...Fields) {
	l.log(LevelWarn, message, err, fields...)
}

// LogError logs err at a level derived from its severity when it is a
// coded error, at error level otherwise.
func (l *Logger) LogError(err error) {
	if err == nil {
		return
	}
	coded, ok := err.(*nxerror.Error)
	if !ok {
		l.log(LevelError, err.Error(), err)
		return
	}

	fields := Fields{
		"error_code":     coded.Code().String(),
		"error_severity": coded.Severity().String(),
	}
	for k, v := range coded.Details() {
		fields["error_"+k] = v
	}

	level := LevelError
	switch coded.Severity() {
	case nxerror.SeverityLow:
		level = LevelInfo
	case nxerror.SeverityMedium:
		level = LevelWarn
	}
	l.log(level, coded.Message(), err, fields)
}

// StartTimer starts a Timer that logs its duration on Stop
func (l *Logger) StartTimer(operation string) *Timer {
	return newTimer(l, operation)
}

// IsLevelEnabled reports whether level would be written
func (l *Logger) IsLevelEnabled(level Level) bool {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return level.ShouldLog(l.level)
}

// GetLevel returns the minimum level
func (l *Logger) GetLevel() Level {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.level
}

// SetLevel changes the minimum level in place
func (l *Logger) SetLevel(level Level) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.level = level
}

func (l *Logger) log(level Level, message string, err error, fields ...Fields) {
	l.mutex.RLock()
	if !level.ShouldLog(l.level) {
		l.mutex.RUnlock()
		return
	}

	entry := &Entry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Logger:    l.name,
		PlayerID:  l.playerID,
		RequestID: l.requestID,
		Error:     err,
		Fields:    make(Fields, len(l.contextFields)),
	}
	for k, v := range l.contextFields {
		entry.Fields[k] = v
	}
	formatter := l.formatter
	output := l.output
	writeMu := l.writeMu
	l.mutex.RUnlock()

	for _, set := range fields {
		for k, v := range set {
			entry.Fields[k] = v
		}
	}

	formatted, formatErr := formatter.Format(entry)
	if formatErr != nil {
		return
	}
	writeMu.Lock()
	output.Write(formatted)
	writeMu.Unlock()
}

var (
	defaultLogger = New()
	defaultMu     sync.RWMutex
)

// GetDefault returns the process-wide default logger
func GetDefault() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide default logger
func SetDefault(logger *Logger) {
	if logger == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}
