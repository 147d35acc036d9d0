// Package parser turns NexusScript source into an ast.Program.
//
// Package: parser
// Title: NexusScript Lexer and Parser
// Description: The Lexer hands out one token per NextToken call and keeps
//              going past illegal input so the parser can report errors in
//              context. The Parser is a Pratt parser with two tokens of
//              lookahead; the only infix operator is the call "(".
//              Errors are collected, never panicked; a non-empty error
//              list means the returned tree must not be evaluated.
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-04
// Modified: 2026-03-04
//
// Change History:
// - 2026-03-04 v0.1.0: Initial implementation
package parser
