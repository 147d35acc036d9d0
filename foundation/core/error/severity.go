// File: severity.go
// Title: Error Severity
// Description: Severity levels and the default severity of each code.
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-02
// Modified: 2026-03-02
//
// Change History:
// - 2026-03-02 v0.1.0: Initial implementation

package error

// Severity ranks how bad an error is
type Severity int

const (
	// SeverityLow is a player mistake: unknown command, bad argument.
	SeverityLow Severity = iota
	SeverityMedium
	// SeverityHigh means the engine itself failed.
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert reports whether operators should be notified
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// SeverityFromCode returns the default severity for code
func SeverityFromCode(code Code) Severity {
	switch code {
	case CodeCommandNotFound, CodeAuthorization, CodeInsufficientResources,
		CodeParse, CodeCPULocked, CodeValidation, CodeNotFound, CodeDuplicate:
		return SeverityLow
	case CodeScriptExecution:
		return SeverityMedium
	case CodeDatabase, CodeConfig, CodeInternal:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
