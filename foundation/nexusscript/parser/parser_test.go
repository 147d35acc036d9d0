// File: parser_test.go
// Title: NexusScript Parser Tests
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-04
// Modified: 2026-03-04
//
// Change History:
// - 2026-03-04 v0.1.0: Initial implementation

package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/nexusroot/nexus/foundation/nexusscript/ast"
)

var astOpts = []cmp.Option{
	cmpopts.IgnoreTypes(ast.Position{}),
	cmpopts.EquateEmpty(),
}

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	prog, errs := Parse(input, Options{})
	if len(errs) > 0 {
		t.Fatalf("Parse(%q) errors: %v", input, errs)
	}
	return prog
}

func TestParser_Statements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *ast.Program
	}{
		{
			name:  "set string",
			input: `set $x = "a"`,
			want: &ast.Program{Statements: []ast.Statement{
				&ast.SetStatement{
					Name:  &ast.Identifier{Name: "$x"},
					Value: &ast.StringLiteral{Value: "a"},
				},
			}},
		},
		{
			name:  "set number",
			input: `set $n = 2.5`,
			want: &ast.Program{Statements: []ast.Statement{
				&ast.SetStatement{
					Name:  &ast.Identifier{Name: "$n"},
					Value: &ast.NumberLiteral{Literal: "2.5", Value: 2.5},
				},
			}},
		},
		{
			name:  "command keyword call with flag",
			input: `ls(-la)`,
			want: &ast.Program{Statements: []ast.Statement{
				&ast.ExpressionStatement{Expression: &ast.CallExpression{
					Callee: &ast.Identifier{Name: "ls"},
					Flags:  []string{"-la"},
				}},
			}},
		},
		{
			name:  "flags separated from arguments",
			input: `scan(-v, $ip, 22)`,
			want: &ast.Program{Statements: []ast.Statement{
				&ast.ExpressionStatement{Expression: &ast.CallExpression{
					Callee: &ast.Identifier{Name: "scan"},
					Arguments: []ast.Expression{
						&ast.Identifier{Name: "$ip"},
						&ast.NumberLiteral{Literal: "22", Value: 22},
					},
					Flags: []string{"-v"},
				}},
			}},
		},
		{
			name:  "nested call and constructor",
			input: `ping(new IP(10, 0, 0, 1))`,
			want: &ast.Program{Statements: []ast.Statement{
				&ast.ExpressionStatement{Expression: &ast.CallExpression{
					Callee: &ast.Identifier{Name: "ping"},
					Arguments: []ast.Expression{
						&ast.NewExpression{
							ClassName: "IP",
							Arguments: []ast.Expression{
								&ast.NumberLiteral{Literal: "10", Value: 10},
								&ast.NumberLiteral{Literal: "0", Value: 0},
								&ast.NumberLiteral{Literal: "0", Value: 0},
								&ast.NumberLiteral{Literal: "1", Value: 1},
							},
						},
					},
				}},
			}},
		},
		{
			name:  "sequential statements",
			input: "print(\"a\")\nprint(\"b\") $x",
			want: &ast.Program{Statements: []ast.Statement{
				&ast.ExpressionStatement{Expression: &ast.CallExpression{
					Callee:    &ast.Identifier{Name: "print"},
					Arguments: []ast.Expression{&ast.StringLiteral{Value: "a"}},
				}},
				&ast.ExpressionStatement{Expression: &ast.CallExpression{
					Callee:    &ast.Identifier{Name: "print"},
					Arguments: []ast.Expression{&ast.StringLiteral{Value: "b"}},
				}},
				&ast.ExpressionStatement{Expression: &ast.Identifier{Name: "$x"}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.input)
			if diff := cmp.Diff(tt.want, got, astOpts...); diff != "" {
				t.Errorf("AST mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`set $x "a"`, "expected next token to be EQUAL, got STRING instead"},
		{`set = 1`, "expected next token to be IDENTIFIER, got EQUAL instead"},
		{`if`, "no prefix parse function for IF found"},
		{`ls -la`, "no prefix parse function for FLAG found"},
		{`print(1, 2`, "expected next token to be RIGHT_PAREN, got EOF instead"},
		{`new 5`, "expected next token to be IDENTIFIER, got NUMBER instead"},
		{`new IP "x"`, "expected next token to be LEFT_PAREN, got STRING instead"},
		{`new IP(-x)`, "unexpected flag -x in arguments of new IP"},
		{`#`, "no prefix parse function for ILLEGAL found"},
	}

	for _, tt := range tests {
		_, errs := Parse(tt.input, Options{})
		if len(errs) == 0 {
			t.Errorf("Parse(%q): expected errors", tt.input)
			continue
		}
		if errs[0] != tt.want {
			t.Errorf("Parse(%q) first error = %q, want %q", tt.input, errs[0], tt.want)
		}
	}
}

func TestParser_ErrorDropsStatement(t *testing.T) {
	prog, errs := Parse(`print(1, 2`, Options{})
	if len(errs) == 0 {
		t.Fatal("expected errors")
	}
	if len(prog.Statements) != 0 {
		t.Errorf("expected broken statement to be dropped, got %d statements", len(prog.Statements))
	}
}

func TestParser_MaxInputLength(t *testing.T) {
	_, errs := Parse(strings.Repeat("a", 20), Options{MaxInputLength: 10})
	if len(errs) != 1 || !strings.Contains(errs[0], "input exceeds maximum length") {
		t.Errorf("unexpected errors: %v", errs)
	}
}

// Printing a parsed program and lexing it again yields the same tokens.
func TestParser_RoundTrip(t *testing.T) {
	inputs := []string{
		`set $x = "a"`,
		`scan($ip, 22, -la)`,
		`f(g(1), "s")`,
		`set $ip = new IP(10, 0, 0, 1)`,
		"print(\"x\")\nls()",
		`set $n = 3.0`,
		`run("exploit", $target)()`,
	}

	for _, input := range inputs {
		prog := mustParse(t, input)
		printed := prog.String()

		want := lexemes(TokenizeInput(input))
		got := lexemes(TokenizeInput(printed))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip of %q via %q (-want +got):\n%s", input, printed, diff)
		}
	}
}

func TestFormatErrors(t *testing.T) {
	if FormatErrors(nil) != "" {
		t.Error("FormatErrors(nil) should be empty")
	}
	got := FormatErrors([]string{"first", "second"})
	want := "parse errors:\n  first\n  second"
	if got != want {
		t.Errorf("FormatErrors = %q, want %q", got, want)
	}
}
