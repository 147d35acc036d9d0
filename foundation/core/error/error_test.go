// File: error_test.go
// Title: Coded Error Tests
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
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("Unknown command: foo", CodeCommandNotFound).WithDetail("command", "foo")

	if err.Error() != "Unknown command: foo" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Code() != CodeCommandNotFound {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeCommandNotFound)
	}
	if err.Severity() != SeverityLow {
		t.Errorf("Severity() = %v, want low", err.Severity())
	}
	if err.Details()["command"] != "foo" {
		t.Errorf("detail command = %v", err.Details()["command"])
	}
	if len(err.StackTrace()) == 0 {
		t.Error("expected a stack trace")
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CodeAuthorization, "Command requires level %d", 3)
	if err.Error() != "Command requires level 3" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrapInheritsCode(t *testing.T) {
	inner := New("db locked", CodeDatabase).WithDetail("table", "players")
	outer := Wrap(inner, "save player")

	if outer.Error() != "save player: db locked" {
		t.Errorf("Error() = %q", outer.Error())
	}
	if outer.Code() != CodeDatabase {
		t.Errorf("Code() = %v, want %v", outer.Code(), CodeDatabase)
	}
	if outer.Details()["table"] != "players" {
		t.Error("details not inherited")
	}
	if !errors.Is(outer, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
	if Wrap(nil, "noop") != nil {
		t.Error("Wrap(nil) should be nil")
	}
}

func TestWrapPlainError(t *testing.T) {
	err := Wrap(errors.New("boom"), "load config")
	if err.Code() != CodeInternal {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeInternal)
	}
}

func TestHasCodeAndGetCode(t *testing.T) {
	coded := New("Command costs 10 credits", CodeInsufficientResources)
	wrapped := fmt.Errorf("dispatch: %w", coded)

	if !HasCode(wrapped, CodeInsufficientResources) {
		t.Error("HasCode should see through fmt.Errorf wrapping")
	}
	if HasCode(wrapped, CodeParse) {
		t.Error("HasCode matched the wrong code")
	}
	if GetCode(wrapped) != CodeInsufficientResources {
		t.Errorf("GetCode = %v", GetCode(wrapped))
	}
	if GetCode(errors.New("plain")) != CodeUnknown {
		t.Error("plain errors should report CodeUnknown")
	}
	if GetSeverity(errors.New("plain")) != SeverityMedium {
		t.Error("plain errors should report medium severity")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeCommandNotFound, http.StatusNotFound},
		{CodeAuthorization, http.StatusForbidden},
		{CodeInsufficientResources, http.StatusPaymentRequired},
		{CodeParse, http.StatusBadRequest},
		{CodeDuplicate, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.want {
			t.Errorf("%v.HTTPStatus() = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestCodeIsValid(t *testing.T) {
	if !CodeCPULocked.IsValid() {
		t.Error("CPU_LOCKED should be valid")
	}
	if Code("NOPE").IsValid() {
		t.Error("NOPE should be invalid")
	}
}

func TestMarshalJSON(t *testing.T) {
	err := New("Command requires level 2", CodeAuthorization).WithPlayer("p-1").WithOperation("scan")

	raw, mErr := json.Marshal(err)
	if mErr != nil {
		t.Fatalf("marshal: %v", mErr)
	}
	var decoded map[string]interface{}
	if uErr := json.Unmarshal(raw, &decoded); uErr != nil {
		t.Fatalf("unmarshal: %v", uErr)
	}
	if decoded["code"] != "AUTHORIZATION" {
		t.Errorf("code = %v", decoded["code"])
	}
	if decoded["player_id"] != "p-1" || decoded["operation"] != "scan" {
		t.Errorf("unexpected payload: %v", decoded)
	}
	if decoded["severity"] != "low" {
		t.Errorf("severity = %v", decoded["severity"])
	}
}
