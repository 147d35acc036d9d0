// File: entry.go
// Title: Log Entry
// Description: The record handed to formatters and the Fields map.
// Author: Nexus Root Team
// Version: v0.2.0
// Created: 2026-03-02
// Modified: 2026-04-11
//
// Change History:
// - 2026-03-02 v0.1.0: Initial implementation
// - 2026-04-11 v0.2.0: PlayerID on entries

package log

import (
	"maps"
	"time"
)

// Fields is structured context attached to an entry
type Fields map[string]interface{}

// Clone returns a shallow copy; nil stays nil
func (f Fields) Clone() Fields {
	return maps.Clone(f)
}

// Entry is one record as seen by a Formatter
type Entry struct {
	Timestamp time.Time
	Level     Level
	Message   string
	Logger    string
	PlayerID  string
	RequestID string
	Fields    Fields
	Error     error
}
