// Package ast defines the NexusScript syntax tree.
//
// Package: ast
// Title: NexusScript AST
// Description: Statements and expressions form two closed sets; the
//              unexported marker methods keep other packages from adding
//              variants, so a type switch in the evaluator covers them all.
//              String() on any node prints source that lexes back to an
//              equivalent token stream.
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-04
// Modified: 2026-03-04
//
// Change History:
// - 2026-03-04 v0.1.0: Initial implementation
package ast
