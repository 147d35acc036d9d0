// File: value.go
// Title: Runtime Values
// Description: Value types produced by the evaluator and conversion
//              helpers used by builtins.
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-05
// Modified: 2026-03-05
//
// Change History:
// - 2026-03-05 v0.1.0: Initial implementation

package eval

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
)

// ValueType names the dynamic type of a Value
type ValueType string

const (
	StringType   ValueType = "STRING"
	NumberType   ValueType = "NUMBER"
	BuiltinType  ValueType = "BUILTIN"
	ObjectType   ValueType = "OBJECT"
	NilType      ValueType = "NIL"
	ErrorType    ValueType = "ERROR"
	NotFoundType ValueType = "NOT_FOUND"
)

// Value is anything a NexusScript expression can produce
type Value interface {
	Type() ValueType
	// Inspect renders the value for players
	Inspect() string
}

// String is a text value
type String struct {
	Value string
}

func (s *String) Type() ValueType { return StringType }
func (s *String) Inspect() string { return s.Value }

// Number is a float64 value
type Number struct {
	Value float64
}

func (n *Number) Type() ValueType { return NumberType }
func (n *Number) Inspect() string { return strconv.FormatFloat(n.Value, 'f', -1, 64) }

// Nil is the absence of a value
type Nil struct{}

func (n *Nil) Type() ValueType { return NilType }
func (n *Nil) Inspect() string { return "nil" }

// NilValue is the shared Nil instance
var NilValue = &Nil{}

// Error is a failure carried as a value
type Error struct {
	Message string
	Code    nxerror.Code
}

func (e *Error) Type() ValueType { return ErrorType }
func (e *Error) Inspect() string { return e.Message }

// NotFound is what a locked or hidden builtin name resolves to. Calling it
// yields itself.
type NotFound struct {
	Name string
}

func (n *NotFound) Type() ValueType { return NotFoundType }
func (n *NotFound) Inspect() string { return n.Name + ": command not found" }

// BuiltinFunction implements a builtin. It must not return a Go error;
// misuse is reported with an *Error value.
type BuiltinFunction func(ctx context.Context, args []Value, flags []string) Value

// Builtin is a host function exposed to scripts
type Builtin struct {
	Name string
	// Key is the Knowledge Map command that must be available for Name to
	// resolve. Empty means always available.
	Key         string
	Description string
	Fn          BuiltinFunction
}

func (b *Builtin) Type() ValueType { return BuiltinType }
func (b *Builtin) Inspect() string { return "builtin " + b.Name }

// NewError creates a script execution error value
func NewError(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Code: nxerror.CodeScriptExecution}
}

// ToString renders v as plain text; strings are returned unquoted
func ToString(v Value) string {
	if v == nil {
		return NilValue.Inspect()
	}
	return v.Inspect()
}

// ToNumber converts numbers and numeric strings
func ToNumber(v Value) (float64, bool) {
	switch val := v.(type) {
	case *Number:
		return val.Value, true
	case *String:
		f, err := strconv.ParseFloat(strings.TrimSpace(val.Value), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ToInt converts v to a whole number
func ToInt(v Value) (int, bool) {
	f, ok := ToNumber(v)
	if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}
