// Package eval executes NexusScript programs.
//
// Package: eval
// Title: NexusScript Evaluator
// Description: A tree-walking interpreter over ast.Program. Identifiers
//              resolve first against the builtin table, filtered by a
//              Gate that reports which command keys the current player
//              may use, and then against the session Environment. Locked
//              builtins resolve to a NotFound value, so availability is
//              decided when a name is looked up and never leaks through a
//              call. Failures are values: one bad statement yields an
//              *Error value and the next statement still runs.
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-05
// Modified: 2026-03-05
//
// Change History:
// - 2026-03-05 v0.1.0: Initial implementation
package eval
