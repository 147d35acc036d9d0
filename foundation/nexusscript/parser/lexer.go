// File: lexer.go
// Title: NexusScript Lexical Analyzer
// Description: Produces tokens lazily from source text. Illegal input is
//              represented as ILLEGAL tokens, one rune each, and lexing
//              continues after them.
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-04
// Modified: 2026-03-04
//
// Change History:
// - 2026-03-04 v0.1.0: Initial implementation

package parser

import (
	"unicode"
	"unicode/utf8"
)

const eof = -1

// Lexer scans NexusScript source
type Lexer struct {
	input   string
	pos     int  // offset of ch
	readPos int  // offset after ch
	ch      rune // current rune, eof at end
	line    int
	column  int
}

// NewLexer creates a lexer positioned at the first rune of input
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// NextToken returns the next token. At the end of input it returns EOF on
// every call.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Line: l.line, Column: l.column}

	switch l.ch {
	case eof:
		tok.Type = TokenEOF
		return tok
	case '(':
		tok.Type = TokenLeftParen
	case ')':
		tok.Type = TokenRightParen
	case '{':
		tok.Type = TokenLeftBrace
	case '}':
		tok.Type = TokenRightBrace
	case '.':
		tok.Type = TokenDot
	case ',':
		tok.Type = TokenComma
	case '=':
		tok.Type = TokenEqual
	case '"':
		tok.Type = TokenString
		tok.Literal = l.readString()
		return tok
	case '-':
		if l.startsFlag() {
			tok.Type = TokenFlag
			tok.Literal = l.readFlag()
			return tok
		}
		tok.Type = TokenIllegal
	default:
		switch {
		case isLetter(l.ch) || l.ch == '$':
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			return tok
		case isDigit(l.ch):
			tok.Type = TokenNumber
			tok.Literal = l.readNumber()
			return tok
		default:
			tok.Type = TokenIllegal
		}
	}

	tok.Literal = string(l.ch)
	l.readChar()
	return tok
}

// Tokenize drains the lexer, including the final EOF token
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPos >= len(l.input) {
		l.pos = len(l.input)
		l.ch = eof
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.pos = l.readPos
	l.readPos += size
	l.ch = r
	l.column++
}

func (l *Lexer) peekChar(offset int) rune {
	p := l.readPos
	for i := 0; i < offset; i++ {
		if p >= len(l.input) {
			return eof
		}
		_, size := utf8.DecodeRuneInString(l.input[p:])
		p += size
	}
	if p >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[p:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.ch != eof && unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '$' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber accepts digits with at most one fractional part. A dot not
// followed by a digit is left for the next token.
func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar(0)) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

// readString consumes a double quoted string. An unterminated string runs
// to the end of input.
func (l *Lexer) readString() string {
	l.readChar()
	start := l.pos
	for l.ch != '"' && l.ch != eof {
		l.readChar()
	}
	value := l.input[start:l.pos]
	if l.ch == '"' {
		l.readChar()
	}
	return value
}

func (l *Lexer) startsFlag() bool {
	next := l.peekChar(0)
	if isLetter(next) {
		return true
	}
	return next == '-' && isLetter(l.peekChar(1))
}

func (l *Lexer) readFlag() string {
	start := l.pos
	l.readChar()
	if l.ch == '-' {
		l.readChar()
	}
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '-' || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func isLetter(ch rune) bool {
	return ch != eof && unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

// TokenizeInput lexes input in one go
func TokenizeInput(input string) []Token {
	return NewLexer(input).Tokenize()
}
