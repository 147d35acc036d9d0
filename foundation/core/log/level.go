// File: level.go
// Title: Log Levels
// Description: Severity levels, their names and ordering.
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-02
// Modified: 2026-03-02
//
// Change History:
// - 2026-03-02 v0.1.0: Initial implementation

package log

import (
	"strings"
)

// Level is the severity of a log entry
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError

	// LevelAudit entries bypass the level filter. Command execution
	// records use it.
	LevelAudit
)

type levelInfo struct {
	name  string
	tag   string
	color string
}

var levels = [...]levelInfo{
	LevelTrace: {"trace", "TRC", "\033[37m"},
	LevelDebug: {"debug", "DBG", "\033[36m"},
	LevelInfo:  {"info", "INF", "\033[32m"},
	LevelWarn:  {"warn", "WRN", "\033[33m"},
	LevelError: {"error", "ERR", "\033[31m"},
	LevelAudit: {"audit", "AUD", "\033[35m"},
}

const colorReset = "\033[0m"

func (l Level) info() levelInfo {
	if l < 0 || int(l) >= len(levels) {
		return levelInfo{"unknown", "???", colorReset}
	}
	return levels[l]
}

func (l Level) String() string { return l.info().name }

// ShortString is the tag printed by the text formatter
func (l Level) ShortString() string { return l.info().tag }

// Color is the ANSI escape the console formatter wraps lines in
func (l Level) Color() string { return l.info().color }

// ShouldLog reports whether l passes a logger set to min
func (l Level) ShouldLog(min Level) bool {
	return l == LevelAudit || l >= min
}

var levelAliases = map[string]Level{
	"":        LevelInfo,
	"warning": LevelWarn,
}

// ParseLevel accepts a level name or its tag in any case. Anything else
// yields LevelInfo and a *ParseError.
func ParseLevel(s string) (Level, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if l, ok := levelAliases[key]; ok {
		return l, nil
	}
	for i, info := range levels {
		if key == info.name || key == strings.ToLower(info.tag) {
			return Level(i), nil
		}
	}
	return LevelInfo, &ParseError{Input: s, Type: "level"}
}

// ParseError reports an unrecognised level or format name
type ParseError struct {
	Input string
	Type  string
}

func (e *ParseError) Error() string {
	return "invalid " + e.Type + ": " + e.Input
}
