// File: timer.go
// Title: Operation Timer
// Description: Times an operation and writes one entry when it ends.
// Author: Nexus Root Team
// Version: v0.2.0
// Created: 2026-03-02
// Modified: 2026-04-11
//
// Change History:
// - 2026-03-02 v0.1.0: Initial implementation
// - 2026-04-11 v0.2.0: Script runs are timed

package log

import (
	"time"
)

// Timer times one operation. Only the first Stop or Fail logs.
type Timer struct {
	logger *Logger
	op     string
	start  time.Time
	fields Fields
	done   bool
}

func newTimer(logger *Logger, op string) *Timer {
	return &Timer{logger: logger, op: op, start: time.Now(), fields: Fields{}}
}

// WithField attaches a field to the final entry
func (t *Timer) WithField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Stop writes a debug entry "<op> completed" and returns the elapsed time
func (t *Timer) Stop() time.Duration {
	return t.end(LevelDebug, "completed", nil)
}

// Fail writes an error entry "<op> failed" carrying err
func (t *Timer) Fail(err error) time.Duration {
	return t.end(LevelError, "failed", err)
}

// IsRunning reports whether the timer has not ended yet
func (t *Timer) IsRunning() bool {
	return !t.done
}

func (t *Timer) end(level Level, outcome string, err error) time.Duration {
	if t.done {
		return 0
	}
	t.done = true
	elapsed := time.Since(t.start)

	fields := t.fields.Clone()
	fields["operation"] = t.op
	fields["duration_ms"] = float64(elapsed.Microseconds()) / 1000
	if t.logger != nil {
		t.logger.log(level, t.op+" "+outcome, err, fields)
	}
	return elapsed
}
