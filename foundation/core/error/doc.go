// Package error provides the coded error type shared by the Nexus Root engine.
//
// Package: error
// Title: Coded Errors
// Description: A structured error carrying a machine readable Code, a
//              Severity, free-form details and an optional cause. The
//              command pipeline maps these codes onto CommandResult codes
//              and the transport layer maps them onto HTTP statuses.
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-02
// Modified: 2026-03-02
//
// Change History:
// - 2026-03-02 v0.1.0: Initial implementation
//
// Usage:
//
//	err := error.New("Command costs 10 credits", error.CodeInsufficientResources).
//		WithDetail("cost", 10)
//
//	wrapped := error.Wrap(dbErr, "save player").WithCode(error.CodeDatabase)
//
//	if error.HasCode(err, error.CodeInsufficientResources) {
//		// ...
//	}
package error
