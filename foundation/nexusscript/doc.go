// Package nexusscript is the root of the NexusScript toolchain.
//
// Package: nexusscript
// Title: NexusScript Language
// Description: NexusScript is the restricted command language typed by
//              players. A program is a sequence of statements; a statement
//              is either "set <identifier> = <expression>" or a bare
//              expression. Expressions are identifiers, string and number
//              literals, calls with optional flags and "new" constructors.
//              There are no operators, loops or user defined functions.
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-04
// Modified: 2026-03-04
//
// Change History:
// - 2026-03-04 v0.1.0: Initial implementation
//
// Subpackages:
//   - ast: node types and the source printer
//   - parser: lexer and Pratt parser
//   - eval: values, environment and the tree-walking evaluator
//
// Usage:
//
//	prog, errs := parser.Parse(`set $ip = new IP("10.0.0.1")  ping($ip)`, parser.Options{})
//	if len(errs) > 0 {
//		fmt.Println(parser.FormatErrors(errs))
//		return
//	}
//	result := evaluator.Eval(ctx, prog)
package nexusscript
