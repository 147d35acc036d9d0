// File: walk.go
// Title: AST Traversal
// Description: Depth-first traversal over a syntax tree.
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-04
// Modified: 2026-03-04
//
// Change History:
// - 2026-03-04 v0.1.0: Initial implementation

package ast

// Inspect calls fn for node and, while fn returns true, for each child in
// source order.
func Inspect(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	switch n := node.(type) {
	case *Program:
		for _, s := range n.Statements {
			Inspect(s, fn)
		}
	case *SetStatement:
		Inspect(n.Name, fn)
		Inspect(n.Value, fn)
	case *ExpressionStatement:
		Inspect(n.Expression, fn)
	case *CallExpression:
		Inspect(n.Callee, fn)
		for _, a := range n.Arguments {
			Inspect(a, fn)
		}
	case *NewExpression:
		for _, a := range n.Arguments {
			Inspect(a, fn)
		}
	}
}

// CalledNames returns the names of identifiers used as call targets, in
// order of first appearance.
func CalledNames(node Node) []string {
	var names []string
	seen := make(map[string]bool)
	Inspect(node, func(n Node) bool {
		if call, ok := n.(*CallExpression); ok {
			name := call.CalleeName()
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		return true
	})
	return names
}
