// File: parser.go
// Title: NexusScript Pratt Parser
// Description: Builds an ast.Program from the token stream. Statement
//              dispatch is by leading token; expressions are parsed with
//              prefix functions and a single infix rule for calls.
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-04
// Modified: 2026-03-04
//
// Change History:
// - 2026-03-04 v0.1.0: Initial implementation

package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nexusroot/nexus/foundation/core/log"
	"github.com/nexusroot/nexus/foundation/nexusscript/ast"
)

// DefaultMaxInputLength bounds the source accepted by Parse
const DefaultMaxInputLength = 64 * 1024

const (
	precedenceLowest = iota
	precedenceCall
)

var precedences = map[TokenType]int{
	TokenLeftParen: precedenceCall,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Options configures a Parser
type Options struct {
	Logger         *log.Logger
	MaxInputLength int
}

// Parser holds the current and peek token of a Lexer
type Parser struct {
	lexer  *Lexer
	errors []string
	logger *log.Logger

	curToken  Token
	peekToken Token

	prefixParseFns map[TokenType]prefixParseFn
	infixParseFns  map[TokenType]infixParseFn
}

// New creates a parser reading from l
func New(l *Lexer, opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = log.GetDefault()
	}

	p := &Parser{
		lexer:          l,
		logger:         opts.Logger.WithField("component", "nexusscript-parser"),
		prefixParseFns: make(map[TokenType]prefixParseFn),
		infixParseFns:  make(map[TokenType]infixParseFn),
	}

	p.registerPrefix(TokenIdentifier, p.parseIdentifier)
	for tt := TokenPrint; tt <= TokenStatus; tt++ {
		p.registerPrefix(tt, p.parseIdentifier)
	}
	p.registerPrefix(TokenString, p.parseStringLiteral)
	p.registerPrefix(TokenNumber, p.parseNumberLiteral)
	p.registerPrefix(TokenNew, p.parseNewExpression)

	p.registerInfix(TokenLeftParen, p.parseCallExpression)

	p.nextToken()
	p.nextToken()
	return p
}

// Parse lexes and parses input in one call
func Parse(input string, opts Options) (*ast.Program, []string) {
	limit := opts.MaxInputLength
	if limit <= 0 {
		limit = DefaultMaxInputLength
	}
	if len(input) > limit {
		return &ast.Program{}, []string{
			fmt.Sprintf("input exceeds maximum length: %d > %d", len(input), limit),
		}
	}

	p := New(NewLexer(input), opts)
	program := p.ParseProgram()
	return program, p.Errors()
}

func (p *Parser) registerPrefix(tt TokenType, fn prefixParseFn) {
	p.prefixParseFns[tt] = fn
}

func (p *Parser) registerInfix(tt TokenType, fn infixParseFn) {
	p.infixParseFns[tt] = fn
}

// Errors returns the messages collected so far
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

// ParseProgram parses statements until EOF. Statements that fail to parse
// are dropped and their errors recorded.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	for p.curToken.Type != TokenEOF {
		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	if len(p.errors) > 0 {
		p.logger.Debug("NexusScript parse failed", log.Fields{
			"errors":     len(p.errors),
			"statements": len(program.Statements),
		})
	}
	return program
}

func (p *Parser) parseStatement() ast.Statement {
	if p.curToken.Type == TokenSet {
		return p.parseSetStatement()
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseSetStatement() ast.Statement {
	pos := p.position()

	if !p.expectPeek(TokenIdentifier) {
		return nil
	}
	name := &ast.Identifier{Name: p.curToken.Literal, Position: p.position()}

	if !p.expectPeek(TokenEqual) {
		return nil
	}
	p.nextToken()

	value := p.parseExpression(precedenceLowest)
	if value == nil {
		return nil
	}
	return &ast.SetStatement{Name: name, Value: value, Position: pos}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	expr := p.parseExpression(precedenceLowest)
	if expr == nil {
		return nil
	}
	return &ast.ExpressionStatement{Expression: expr}
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}
	left := prefix()

	for left != nil && p.peekToken.Type != TokenEOF && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Name: p.curToken.Literal, Position: p.position()}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Value: p.curToken.Literal, Position: p.position()}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("could not parse %q as number", p.curToken.Literal))
		return nil
	}
	return &ast.NumberLiteral{Literal: p.curToken.Literal, Value: value, Position: p.position()}
}

// parseNewExpression parses: new <Class>(<args>)
func (p *Parser) parseNewExpression() ast.Expression {
	pos := p.position()

	if !p.expectPeek(TokenIdentifier) {
		return nil
	}
	className := p.curToken.Literal

	if !p.expectPeek(TokenLeftParen) {
		return nil
	}
	args, flags, ok := p.parseArguments()
	if !ok {
		return nil
	}
	if len(flags) > 0 {
		p.errors = append(p.errors, fmt.Sprintf("unexpected flag %s in arguments of new %s", flags[0], className))
		return nil
	}
	return &ast.NewExpression{ClassName: className, Arguments: args, Position: pos}
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	pos := p.position()
	args, flags, ok := p.parseArguments()
	if !ok {
		return nil
	}
	return &ast.CallExpression{Callee: callee, Arguments: args, Flags: flags, Position: pos}
}

// parseArguments reads a comma separated list after "(" up to ")". Each
// slot is either an expression or a flag.
func (p *Parser) parseArguments() ([]ast.Expression, []string, bool) {
	var (
		args  []ast.Expression
		flags []string
	)

	if p.peekToken.Type == TokenRightParen {
		p.nextToken()
		return args, flags, true
	}

	p.nextToken()
	if !p.parseArgument(&args, &flags) {
		return nil, nil, false
	}
	for p.peekToken.Type == TokenComma {
		p.nextToken()
		p.nextToken()
		if !p.parseArgument(&args, &flags) {
			return nil, nil, false
		}
	}

	if !p.expectPeek(TokenRightParen) {
		return nil, nil, false
	}
	return args, flags, true
}

func (p *Parser) parseArgument(args *[]ast.Expression, flags *[]string) bool {
	if p.curToken.Type == TokenFlag {
		*flags = append(*flags, p.curToken.Literal)
		return true
	}
	expr := p.parseExpression(precedenceLowest)
	if expr == nil {
		return false
	}
	*args = append(*args, expr)
	return true
}

func (p *Parser) expectPeek(tt TokenType) bool {
	if p.peekToken.Type == tt {
		p.nextToken()
		return true
	}
	p.peekError(tt)
	return false
}

func (p *Parser) peekError(tt TokenType) {
	p.errors = append(p.errors, fmt.Sprintf("expected next token to be %s, got %s instead", tt, p.peekToken.Type))
}

func (p *Parser) noPrefixParseFnError(tt TokenType) {
	p.errors = append(p.errors, fmt.Sprintf("no prefix parse function for %s found", tt))
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return precedenceLowest
}

func (p *Parser) position() ast.Position {
	return ast.Position{Line: p.curToken.Line, Column: p.curToken.Column}
}

// FormatErrors renders parse errors the way they are shown to players
func FormatErrors(errs []string) string {
	if len(errs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("parse errors:")
	for _, e := range errs {
		b.WriteString("\n  ")
		b.WriteString(e)
	}
	return b.String()
}
