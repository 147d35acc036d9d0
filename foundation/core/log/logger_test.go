// File: logger_test.go
// Title: Logger Tests
// Description: Tests for leveled output, context cloning, formatters and
//              coded error logging.
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-02
// Modified: 2026-03-02
//
// Change History:
// - 2026-03-02 v0.1.0: Initial implementation

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewWithConfig(Config{Level: level, Format: format, Output: buf}), buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid json line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatJSON)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Error("shown")
	logger.Audit("always")

	lines := decodeLines(t, buf)
	if len(lines) != 3 {
		t.Fatalf("expected 3 entries, got %d: %s", len(lines), buf.String())
	}
	if lines[2]["level"] != "audit" {
		t.Errorf("expected audit entry last, got %v", lines[2]["level"])
	}
}

func TestLogger_WithFieldDoesNotMutateParent(t *testing.T) {
	parent, buf := newBufferLogger(LevelInfo, FormatJSON)
	child := parent.WithField("component", "engine").WithPlayer("p-1")

	parent.Info("from parent")
	child.Info("from child", Fields{"command": "ls"})

	lines := decodeLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(lines))
	}
	if _, ok := lines[0]["component"]; ok {
		t.Error("parent entry should not carry child field")
	}
	if lines[1]["component"] != "engine" {
		t.Errorf("child component = %v", lines[1]["component"])
	}
	if lines[1]["player_id"] != "p-1" {
		t.Errorf("child player_id = %v", lines[1]["player_id"])
	}
	if lines[1]["command"] != "ls" {
		t.Errorf("child command = %v", lines[1]["command"])
	}
}

func TestLogger_TextFormat(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)
	logger.WithName("kmap").Info("fragment discovered", Fields{"command": "scan", "fragments": 1})

	line := buf.String()
	for _, want := range []string{"[INF]", "{kmap}", "fragment discovered", "[command=scan fragments=1]"} {
		if !strings.Contains(line, want) {
			t.Errorf("text line %q missing %q", line, want)
		}
	}
}

func TestLogger_ErrorWithErr(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)
	logger.ErrorWithErr("save failed", errors.New("disk full"))

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(lines))
	}
	if lines[0]["error"] != "disk full" {
		t.Errorf("error = %v", lines[0]["error"])
	}
}

func TestLogger_LogErrorUsesSeverity(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	logger.LogError(nxerror.New("Unknown command: foo", nxerror.CodeCommandNotFound))
	logger.LogError(nxerror.New("db gone", nxerror.CodeDatabase))
	logger.LogError(nil)

	lines := decodeLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(lines))
	}
	if lines[0]["error_code"] != "COMMAND_NOT_FOUND" {
		t.Errorf("error_code = %v", lines[0]["error_code"])
	}
	if lines[1]["level"] != "error" {
		t.Errorf("database error logged at %v", lines[1]["level"])
	}
}

func TestLogger_ConcurrentWrites(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.WithField("n", n).Info("tick")
		}(i)
	}
	wg.Wait()

	if got := len(decodeLines(t, buf)); got != 20 {
		t.Errorf("expected 20 entries, got %d", got)
	}
}

func TestTimer_StopOnce(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)
	timer := logger.StartTimer("scan").WithField("target", "10.0.0.1")

	if timer.Stop() < 0 {
		t.Error("negative duration")
	}
	if timer.Stop() != 0 {
		t.Error("second Stop should return zero")
	}
	if timer.IsRunning() {
		t.Error("timer still running after Stop")
	}

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(lines))
	}
	if lines[0]["operation"] != "scan" || lines[0]["target"] != "10.0.0.1" {
		t.Errorf("unexpected fields: %v", lines[0])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"WARN", LevelWarn, false},
		{"nonsense", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTimer_Fail(t *testing.T) {
	logger, buf := newBufferLogger(LevelError, FormatJSON)
	timer := logger.StartTimer("script")
	timer.Fail(errors.New("division by zero"))
	timer.Stop()

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(lines))
	}
	if lines[0]["message"] != "script failed" || lines[0]["error"] != "division by zero" {
		t.Errorf("unexpected entry: %v", lines[0])
	}
}

func TestLevel_Names(t *testing.T) {
	if LevelAudit.ShortString() != "AUD" || Level(42).String() != "unknown" {
		t.Errorf("names = %q, %q", LevelAudit.ShortString(), Level(42).String())
	}
	if l, err := ParseLevel("wrn"); err != nil || l != LevelWarn {
		t.Errorf("ParseLevel(wrn) = %v, %v", l, err)
	}
	if !LevelAudit.ShouldLog(LevelError) || LevelDebug.ShouldLog(LevelInfo) {
		t.Error("ShouldLog ordering broken")
	}
}
