// File: error.go
// Title: Coded Error Implementation
// Description: The Error type with code, severity, details, cause and a
//              short stack trace, plus package-level helpers.
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-02
// Modified: 2026-03-02
//
// Change History:
// - 2026-03-02 v0.1.0: Initial implementation

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"time"
)

// MaxStackFrames bounds the captured stack trace
const MaxStackFrames = 16

// Error is a structured error with a code and metadata
type Error struct {
	message   string
	cause     error
	code      Code
	severity  Severity
	timestamp time.Time

	details   map[string]interface{}
	operation string
	playerID  string

	stackTrace []StackFrame
}

// StackFrame is one captured caller
type StackFrame struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// New creates an error with the given code. Its severity defaults from the code.
func New(message string, code Code) *Error {
	return &Error{
		message:    message,
		code:       code,
		severity:   SeverityFromCode(code),
		timestamp:  time.Now(),
		details:    make(map[string]interface{}),
		stackTrace: captureStackTrace(3),
	}
}

// Newf is New with a format string
func Newf(code Code, format string, args ...interface{}) *Error {
	e := New(fmt.Sprintf(format, args...), code)
	e.stackTrace = captureStackTrace(3)
	return e
}

// Wrap wraps err with a message. Code, severity and details of a wrapped
// *Error are inherited. Wrap(nil, ...) returns nil.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}
	wrapped := &Error{
		message:    message,
		cause:      err,
		code:       CodeInternal,
		severity:   SeverityFromCode(CodeInternal),
		timestamp:  time.Now(),
		details:    make(map[string]interface{}),
		stackTrace: captureStackTrace(3),
	}
	var inner *Error
	if errors.As(err, &inner) {
		wrapped.code = inner.code
		wrapped.severity = inner.severity
		wrapped.playerID = inner.playerID
		for k, v := range inner.details {
			wrapped.details[k] = v
		}
	}
	return wrapped
}

// Error implements error
func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Unwrap returns the cause
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCode sets the code and resets severity to the code's default
func (e *Error) WithCode(code Code) *Error {
	e.code = code
	e.severity = SeverityFromCode(code)
	return e
}

func (e *Error) WithSeverity(severity Severity) *Error {
	e.severity = severity
	return e
}

func (e *Error) WithDetail(key string, value interface{}) *Error {
	e.details[key] = value
	return e
}

func (e *Error) WithOperation(operation string) *Error {
	e.operation = operation
	return e
}

func (e *Error) WithPlayer(playerID string) *Error {
	e.playerID = playerID
	return e
}

// Message returns the message without the cause chain
func (e *Error) Message() string      { return e.message }
func (e *Error) Code() Code           { return e.code }
func (e *Error) Severity() Severity   { return e.severity }
func (e *Error) Timestamp() time.Time { return e.timestamp }
func (e *Error) Operation() string    { return e.operation }
func (e *Error) PlayerID() string     { return e.playerID }

// Details returns a copy of the details map
func (e *Error) Details() map[string]interface{} {
	result := make(map[string]interface{}, len(e.details))
	for k, v := range e.details {
		result[k] = v
	}
	return result
}

// StackTrace returns a copy of the captured frames
func (e *Error) StackTrace() []StackFrame {
	result := make([]StackFrame, len(e.stackTrace))
	copy(result, e.stackTrace)
	return result
}

// MarshalJSON renders the error for structured logs
func (e *Error) MarshalJSON() ([]byte, error) {
	data := map[string]interface{}{
		"message":   e.message,
		"code":      e.code,
		"severity":  e.severity.String(),
		"timestamp": e.timestamp.Format(time.RFC3339),
	}
	if len(e.details) > 0 {
		data["details"] = e.details
	}
	if e.operation != "" {
		data["operation"] = e.operation
	}
	if e.playerID != "" {
		data["player_id"] = e.playerID
	}
	if e.cause != nil {
		data["cause"] = e.cause.Error()
	}
	return json.Marshal(data)
}

func captureStackTrace(skip int) []StackFrame {
	pcs := make([]uintptr, MaxStackFrames)
	n := runtime.Callers(skip, pcs)
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs[:n])

	result := make([]StackFrame, 0, n)
	for {
		frame, more := frames.Next()
		result = append(result, StackFrame{Function: frame.Function, File: frame.File, Line: frame.Line})
		if !more {
			break
		}
	}
	return result
}

// HasCode reports whether any *Error in err's chain carries code
func HasCode(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.code == code {
			return true
		}
		err = e.cause
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or
// CodeUnknown for plain errors.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return CodeUnknown
}

// GetSeverity returns the severity of err, SeverityMedium for plain errors
func GetSeverity(err error) Severity {
	var e *Error
	if errors.As(err, &e) {
		return e.severity
	}
	return SeverityMedium
}
