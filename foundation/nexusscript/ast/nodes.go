// File: nodes.go
// Title: NexusScript AST Node Definitions
// Description: Program, statement and expression nodes together with
//              their source printer.
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-04
// Modified: 2026-03-04
//
// Change History:
// - 2026-03-04 v0.1.0: Initial implementation

package ast

import (
	"fmt"
	"strings"
)

// Position is a location in the source text
type Position struct {
	Line   int // 1-based
	Column int // 1-based
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is implemented by every syntax tree node
type Node interface {
	String() string
}

// Statement is a top-level program element
type Statement interface {
	Node
	Pos() Position
	statementNode()
}

// Expression produces a value
type Expression interface {
	Node
	Pos() Position
	expressionNode()
}

// Program is the root node
type Program struct {
	Statements []Statement
}

// String prints one statement per line
func (p *Program) String() string {
	lines := make([]string, 0, len(p.Statements))
	for _, s := range p.Statements {
		lines = append(lines, s.String())
	}
	return strings.Join(lines, "\n")
}

// SetStatement binds Value to Name: set $x = "a"
type SetStatement struct {
	Name     *Identifier
	Value    Expression
	Position Position
}

func (s *SetStatement) statementNode() {}
func (s *SetStatement) Pos() Position { return s.Position }
func (s *SetStatement) String() string {
	return "set " + s.Name.String() + " = " + s.Value.String()
}

// ExpressionStatement wraps a bare expression
type ExpressionStatement struct {
	Expression Expression
}

func (s *ExpressionStatement) statementNode() {}
func (s *ExpressionStatement) Pos() Position { return s.Expression.Pos() }
func (s *ExpressionStatement) String() string {
	return s.Expression.String()
}

// Identifier names a variable or builtin. Variable names usually carry a
// leading $.
type Identifier struct {
	Name     string
	Position Position
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) Pos() Position  { return i.Position }
func (i *Identifier) String() string { return i.Name }

// StringLiteral is a double quoted string. Escapes are not processed.
type StringLiteral struct {
	Value    string
	Position Position
}

func (s *StringLiteral) expressionNode() {}
func (s *StringLiteral) Pos() Position  { return s.Position }
func (s *StringLiteral) String() string { return `"` + s.Value + `"` }

// NumberLiteral keeps the source text so printing is lossless
type NumberLiteral struct {
	Literal  string
	Value    float64
	Position Position
}

func (n *NumberLiteral) expressionNode() {}
func (n *NumberLiteral) Pos() Position  { return n.Position }
func (n *NumberLiteral) String() string { return n.Literal }

// CallExpression invokes Callee. Flags travel beside the positional
// arguments and are printed after them.
type CallExpression struct {
	Callee    Expression
	Arguments []Expression
	Flags     []string
	Position  Position
}

func (c *CallExpression) expressionNode() {}
func (c *CallExpression) Pos() Position { return c.Position }
func (c *CallExpression) String() string {
	parts := make([]string, 0, len(c.Arguments)+len(c.Flags))
	for _, a := range c.Arguments {
		parts = append(parts, a.String())
	}
	parts = append(parts, c.Flags...)
	return c.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}

// CalleeName returns the identifier being called, or the printed callee
// when it is not a plain identifier.
func (c *CallExpression) CalleeName() string {
	if id, ok := c.Callee.(*Identifier); ok {
		return id.Name
	}
	return c.Callee.String()
}

// NewExpression constructs an object: new IP("10.0.0.1")
type NewExpression struct {
	ClassName string
	Arguments []Expression
	Position  Position
}

func (n *NewExpression) expressionNode() {}
func (n *NewExpression) Pos() Position { return n.Position }
func (n *NewExpression) String() string {
	parts := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		parts = append(parts, a.String())
	}
	return "new " + n.ClassName + "(" + strings.Join(parts, ", ") + ")"
}
