// File: token.go
// Title: NexusScript Tokens
// Description: Token types, the keyword table and token formatting.
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-04
// Modified: 2026-03-04
//
// Change History:
// - 2026-03-04 v0.1.0: Initial implementation

package parser

import "fmt"

// TokenType classifies a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal

	TokenIdentifier // scan, $ip
	TokenString     // "text"
	TokenNumber     // 42, 3.5
	TokenFlag       // -la, --force

	// Delimiters
	TokenLeftParen  // (
	TokenRightParen // )
	TokenLeftBrace  // {
	TokenRightBrace // }
	TokenDot        // .
	TokenComma      // ,
	TokenEqual      // =

	// Structural keywords
	TokenSet
	TokenNew
	TokenFunc
	TokenIf
	TokenFor
	TokenIn
	TokenTrue
	TokenFalse

	// Command keywords; these parse as identifiers in expression position
	TokenPrint
	TokenRun
	TokenHelp
	TokenLs
	TokenCat
	TokenPing
	TokenScan
	TokenUse
	TokenEdit
	TokenExit
	TokenStatus
)

var tokenNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenIllegal:    "ILLEGAL",
	TokenIdentifier: "IDENTIFIER",
	TokenString:     "STRING",
	TokenNumber:     "NUMBER",
	TokenFlag:       "FLAG",
	TokenLeftParen:  "LEFT_PAREN",
	TokenRightParen: "RIGHT_PAREN",
	TokenLeftBrace:  "LEFT_BRACE",
	TokenRightBrace: "RIGHT_BRACE",
	TokenDot:        "DOT",
	TokenComma:      "COMMA",
	TokenEqual:      "EQUAL",
	TokenSet:        "SET",
	TokenNew:        "NEW",
	TokenFunc:       "FUNC",
	TokenIf:         "IF",
	TokenFor:        "FOR",
	TokenIn:         "IN",
	TokenTrue:       "TRUE",
	TokenFalse:      "FALSE",
	TokenPrint:      "PRINT",
	TokenRun:        "RUN",
	TokenHelp:       "HELP",
	TokenLs:         "LS",
	TokenCat:        "CAT",
	TokenPing:       "PING",
	TokenScan:       "SCAN",
	TokenUse:        "USE",
	TokenEdit:       "EDIT",
	TokenExit:       "EXIT",
	TokenStatus:     "STATUS",
}

func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsCommandKeyword reports whether tt is a keyword that doubles as a
// builtin name
func (tt TokenType) IsCommandKeyword() bool {
	return tt >= TokenPrint && tt <= TokenStatus
}

var keywords = map[string]TokenType{
	"set":    TokenSet,
	"new":    TokenNew,
	"func":   TokenFunc,
	"if":     TokenIf,
	"for":    TokenFor,
	"in":     TokenIn,
	"true":   TokenTrue,
	"false":  TokenFalse,
	"print":  TokenPrint,
	"run":    TokenRun,
	"help":   TokenHelp,
	"ls":     TokenLs,
	"cat":    TokenCat,
	"ping":   TokenPing,
	"scan":   TokenScan,
	"use":    TokenUse,
	"edit":   TokenEdit,
	"exit":   TokenExit,
	"status": TokenStatus,
}

// LookupIdent resolves a word to its keyword type or TokenIdentifier
func LookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return TokenIdentifier
}

// Token is one lexeme with its position
type Token struct {
	Type    TokenType
	Literal string
	Line    int // 1-based
	Column  int // 1-based
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%s)", t.Type, t.Literal)
}
