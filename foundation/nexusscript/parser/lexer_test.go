// File: lexer_test.go
// Title: NexusScript Lexer Tests
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-04
// Modified: 2026-03-04
//
// Change History:
// - 2026-03-04 v0.1.0: Initial implementation

package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type lexeme struct {
	Type    TokenType
	Literal string
}

func lexemes(tokens []Token) []lexeme {
	out := make([]lexeme, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, lexeme{t.Type, t.Literal})
	}
	return out
}

func TestLexer_NextToken(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []lexeme
	}{
		{
			name:  "set with constructor",
			input: `set $ip = new IP("10.0.0.1")`,
			want: []lexeme{
				{TokenSet, "set"},
				{TokenIdentifier, "$ip"},
				{TokenEqual, "="},
				{TokenNew, "new"},
				{TokenIdentifier, "IP"},
				{TokenLeftParen, "("},
				{TokenString, "10.0.0.1"},
				{TokenRightParen, ")"},
				{TokenEOF, ""},
			},
		},
		{
			name:  "call with flags",
			input: `scan($ip, -la, --deep-scan_2)`,
			want: []lexeme{
				{TokenScan, "scan"},
				{TokenLeftParen, "("},
				{TokenIdentifier, "$ip"},
				{TokenComma, ","},
				{TokenFlag, "-la"},
				{TokenComma, ","},
				{TokenFlag, "--deep-scan_2"},
				{TokenRightParen, ")"},
				{TokenEOF, ""},
			},
		},
		{
			name:  "numbers",
			input: `3.14 7. 42`,
			want: []lexeme{
				{TokenNumber, "3.14"},
				{TokenNumber, "7"},
				{TokenDot, "."},
				{TokenNumber, "42"},
				{TokenEOF, ""},
			},
		},
		{
			name:  "minus is not part of a number",
			input: `-5 - --`,
			want: []lexeme{
				{TokenIllegal, "-"},
				{TokenNumber, "5"},
				{TokenIllegal, "-"},
				{TokenIllegal, "-"},
				{TokenIllegal, "-"},
				{TokenEOF, ""},
			},
		},
		{
			name:  "illegal characters do not stop lexing",
			input: `ls # cat`,
			want: []lexeme{
				{TokenLs, "ls"},
				{TokenIllegal, "#"},
				{TokenCat, "cat"},
				{TokenEOF, ""},
			},
		},
		{
			name:  "unterminated string reads to end",
			input: `print("abc`,
			want: []lexeme{
				{TokenPrint, "print"},
				{TokenLeftParen, "("},
				{TokenString, "abc"},
				{TokenEOF, ""},
			},
		},
		{
			name:  "identifier characters",
			input: `$a_1$b mine_hash {}`,
			want: []lexeme{
				{TokenIdentifier, "$a_1$b"},
				{TokenIdentifier, "mine_hash"},
				{TokenLeftBrace, "{"},
				{TokenRightBrace, "}"},
				{TokenEOF, ""},
			},
		},
		{
			name:  "empty input",
			input: "   \n\t",
			want:  []lexeme{{TokenEOF, ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lexemes(TokenizeInput(tt.input))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexer_EOFIsIdempotent(t *testing.T) {
	l := NewLexer("ls")
	l.NextToken()
	for i := 0; i < 3; i++ {
		if tok := l.NextToken(); tok.Type != TokenEOF {
			t.Fatalf("call %d: got %v, want EOF", i, tok)
		}
	}
}

func TestLexer_Positions(t *testing.T) {
	tokens := TokenizeInput("ls\n  cat(x)")

	if tokens[0].Line != 1 || tokens[0].Column != 1 {
		t.Errorf("ls at %d:%d, want 1:1", tokens[0].Line, tokens[0].Column)
	}
	if tokens[1].Line != 2 || tokens[1].Column != 3 {
		t.Errorf("cat at %d:%d, want 2:3", tokens[1].Line, tokens[1].Column)
	}
	if tokens[2].Column != 6 {
		t.Errorf("( at column %d, want 6", tokens[2].Column)
	}
}

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		word string
		want TokenType
	}{
		{"set", TokenSet},
		{"status", TokenStatus},
		{"hashcrack", TokenIdentifier},
		{"Set", TokenIdentifier},
	}
	for _, tt := range tests {
		if got := LookupIdent(tt.word); got != tt.want {
			t.Errorf("LookupIdent(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
	if !TokenScan.IsCommandKeyword() || TokenIf.IsCommandKeyword() {
		t.Error("IsCommandKeyword classification wrong")
	}
}
