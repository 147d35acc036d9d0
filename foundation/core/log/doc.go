// Package log provides the structured logger shared by the Nexus Root engine.
//
// File: doc.go
// Title: Nexus Structured Logging
// Description: Leveled, field-based logging with JSON, text and console
//              output. Loggers are immutable: every With* call returns a
//              clone carrying the extra context, so a logger can be handed
//              to concurrent player sessions without coordination.
// Author: Nexus Root Team
// Version: v0.2.0
// Created: 2026-03-02
// Modified: 2026-04-11
//
// Change History:
// - 2026-03-02 v0.1.0: Initial implementation
// - 2026-04-11 v0.2.0: Player context and audit entries for command execution
//
// Usage:
//
//	logger := nxlog.New().WithField("component", "engine")
//	logger.Info("command executed", nxlog.Fields{"command": "ls"})
//
//	timer := logger.StartTimer("script")
//	defer timer.Stop()
package log
