// File: codes.go
// Title: Error Codes
// Description: Machine readable error codes and their HTTP mapping.
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-02
// Modified: 2026-03-02
//
// Change History:
// - 2026-03-02 v0.1.0: Initial implementation

package error

import "net/http"

// Code identifies the class of an error
type Code string

const (
	CodeUnknown  Code = "UNKNOWN"
	CodeInternal Code = "INTERNAL"

	// Command pipeline
	CodeCommandNotFound       Code = "COMMAND_NOT_FOUND"
	CodeAuthorization         Code = "AUTHORIZATION"
	CodeInsufficientResources Code = "INSUFFICIENT_RESOURCES"
	CodeScriptExecution       Code = "SCRIPT_EXECUTION"
	CodeParse                 Code = "PARSE"
	CodeCPULocked             Code = "CPU_LOCKED"

	// Data
	CodeValidation Code = "VALIDATION"
	CodeNotFound   Code = "NOT_FOUND"
	CodeDuplicate  Code = "DUPLICATE"
	CodeDatabase   Code = "DATABASE"

	CodeConfig Code = "CONFIG"
)

func (c Code) String() string {
	return string(c)
}

// IsValid reports whether c is a known code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal,
		CodeCommandNotFound, CodeAuthorization, CodeInsufficientResources,
		CodeScriptExecution, CodeParse, CodeCPULocked,
		CodeValidation, CodeNotFound, CodeDuplicate, CodeDatabase,
		CodeConfig:
		return true
	default:
		return false
	}
}

// HTTPStatus maps a code onto the status returned by the HTTP API
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound, CodeCommandNotFound:
		return http.StatusNotFound
	case CodeAuthorization:
		return http.StatusForbidden
	case CodeValidation, CodeParse:
		return http.StatusBadRequest
	case CodeDuplicate, CodeCPULocked:
		return http.StatusConflict
	case CodeInsufficientResources:
		return http.StatusPaymentRequired
	case CodeScriptExecution:
		return http.StatusUnprocessableEntity
	case CodeDatabase:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
