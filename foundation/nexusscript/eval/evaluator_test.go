// File: evaluator_test.go
// Title: Evaluator Tests
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-05
// Modified: 2026-03-05
//
// Change History:
// - 2026-03-05 v0.1.0: Initial implementation

package eval

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/nexusroot/nexus/foundation/core/log"
	"github.com/nexusroot/nexus/foundation/nexusscript/parser"
)

type testGate map[string]bool

func (g testGate) IsCommandAvailable(key string) bool { return g[key] }

func run(t *testing.T, e *Evaluator, src string) Value {
	t.Helper()
	prog, errs := parser.Parse(src, parser.Options{Logger: log.Discard()})
	if len(errs) > 0 {
		t.Fatalf("parse %q: %v", src, errs)
	}
	return e.Eval(context.Background(), prog)
}

func newTestEvaluator(gate Gate, out *bytes.Buffer) *Evaluator {
	printFn := func(ctx context.Context, args []Value, flags []string) Value {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, ToString(a))
		}
		out.WriteString(strings.Join(parts, " ") + "\n")
		if len(args) == 0 {
			return NilValue
		}
		return args[len(args)-1]
	}
	flagsFn := func(ctx context.Context, args []Value, flags []string) Value {
		return &String{Value: strings.Join(flags, "|")}
	}
	panicFn := func(ctx context.Context, args []Value, flags []string) Value {
		panic("kaboom")
	}

	return New(Options{
		Logger: log.Discard(),
		Gate:   gate,
		Builtins: []*Builtin{
			{Name: "print", Key: "print", Fn: printFn},
			{Name: "ls", Key: "ls", Fn: flagsFn},
			{Name: "scan", Key: "scan", Fn: flagsFn},
			{Name: "boom", Fn: panicFn},
		},
	})
}

func TestEval_SetLastWriteWins(t *testing.T) {
	e := newTestEvaluator(nil, &bytes.Buffer{})

	if got := run(t, e, `set $x = "a"  $x`); ToString(got) != "a" {
		t.Errorf("$x = %v, want a", ToString(got))
	}
	got := run(t, e, `set $x = 5  $x`)
	n, ok := got.(*Number)
	if !ok || n.Value != 5 {
		t.Errorf("$x = %#v, want 5", got)
	}
	if e.Environment().Len() != 1 {
		t.Errorf("expected a single binding, got %v", e.Environment().Names())
	}
}

func TestEval_UnboundIdentifierIsNil(t *testing.T) {
	e := newTestEvaluator(nil, &bytes.Buffer{})
	if got := run(t, e, `$missing`); got != NilValue {
		t.Errorf("got %#v, want nil", got)
	}
}

func TestEval_EmptyProgram(t *testing.T) {
	e := newTestEvaluator(nil, &bytes.Buffer{})
	if got := run(t, e, ``); got != NilValue {
		t.Errorf("got %#v, want nil", got)
	}
}

func TestEval_FlagsPassedSeparately(t *testing.T) {
	e := newTestEvaluator(nil, &bytes.Buffer{})
	if got := ToString(run(t, e, `ls("dir", -la, --all)`)); got != "-la|--all" {
		t.Errorf("flags = %q", got)
	}
}

func TestEval_GatedBuiltinResolvesToNotFound(t *testing.T) {
	out := &bytes.Buffer{}
	e := newTestEvaluator(testGate{"print": true, "ls": true}, out)

	got := run(t, e, `scan("10.0.0.1")`)
	nf, ok := got.(*NotFound)
	if !ok {
		t.Fatalf("got %#v, want NotFound", got)
	}
	if nf.Inspect() != "scan: command not found" {
		t.Errorf("Inspect() = %q", nf.Inspect())
	}

	// the bare identifier is gated too
	if _, ok := run(t, e, `scan`).(*NotFound); !ok {
		t.Error("identifier resolution leaked a locked builtin")
	}

	run(t, e, `print(scan)`)
	if strings.TrimSpace(out.String()) != "scan: command not found" {
		t.Errorf("print output = %q", out.String())
	}
}

func TestEval_NotAFunctionContinues(t *testing.T) {
	out := &bytes.Buffer{}
	e := newTestEvaluator(nil, out)

	got := run(t, e, `set $s = "x"
$s()
print("after")`)

	if out.String() != "after\n" {
		t.Errorf("second statement did not run, output %q", out.String())
	}
	if ToString(got) != "after" {
		t.Errorf("program result = %q, want last statement value", ToString(got))
	}

	errVal, ok := run(t, e, `$s()`).(*Error)
	if !ok {
		t.Fatal("expected an error value")
	}
	if errVal.Message != "Error: $s is not a function" {
		t.Errorf("message = %q", errVal.Message)
	}
}

func TestEval_BuiltinPanicBecomesError(t *testing.T) {
	out := &bytes.Buffer{}
	e := newTestEvaluator(nil, out)

	run(t, e, `boom() print("still here")`)
	if out.String() != "still here\n" {
		t.Errorf("output = %q", out.String())
	}
	errVal, ok := run(t, e, `boom()`).(*Error)
	if !ok || !strings.Contains(errVal.Message, "boom failed") {
		t.Errorf("got %#v", errVal)
	}
}

func TestEval_ArgumentsLeftToRight(t *testing.T) {
	out := &bytes.Buffer{}
	e := newTestEvaluator(nil, out)

	run(t, e, `print(print("1"), print("2"))`)
	if out.String() != "1\n2\n1 2\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestEval_ErrorArgumentShortCircuits(t *testing.T) {
	out := &bytes.Buffer{}
	e := newTestEvaluator(nil, out)

	got := run(t, e, `print(new Nope())`)
	if ToString(got) != "Error: unknown class Nope" {
		t.Errorf("got %q", ToString(got))
	}
	if out.Len() != 0 {
		t.Errorf("print should not run, output %q", out.String())
	}
}

func TestEval_NewObjects(t *testing.T) {
	e := newTestEvaluator(nil, &bytes.Buffer{})

	tests := []struct {
		src  string
		want string
	}{
		{`new IP("10.0.0.1")`, "10.0.0.1"},
		{`new IP(192, 168, 1, 20)`, "192.168.1.20"},
		{`new IP(new IP("1.2.3.4"))`, "1.2.3.4"},
		{`new Port(22, "ssh", "OpenSSH 8.2")`, "22/ssh (OpenSSH 8.2)"},
		{`new Port(80, "http")`, "80/http"},
		{`new Exploit("heartbleed", "https", "1.0.1")`, "exploit heartbleed (https 1.0.1)"},
		{`new IP(300, 0, 0, 1)`, "Error: IP: octet 1 must be a whole number between 0 and 255"},
		{`new IP("10.0.0")`, `Error: IP: invalid address "10.0.0"`},
		{`new IP(1, 2)`, "Error: IP: expected 4 octets or a dotted string, got 2 arguments"},
		{`new Port(0, "x")`, "Error: Port: port number must be between 1 and 65535"},
	}
	for _, tt := range tests {
		if got := ToString(run(t, e, tt.src)); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestEval_SetBindsObject(t *testing.T) {
	e := newTestEvaluator(nil, &bytes.Buffer{})
	run(t, e, `set $ip = new IP("10.0.0.5")`)

	v, ok := e.Environment().Get("$ip")
	if !ok {
		t.Fatal("$ip not bound")
	}
	ip, ok := v.(*IP)
	if !ok || ip.Octets != [4]int{10, 0, 0, 5} {
		t.Errorf("bound %#v", v)
	}
}

func TestEval_BuiltinsListsAvailableOnly(t *testing.T) {
	e := newTestEvaluator(testGate{"print": true}, &bytes.Buffer{})
	names := map[string]bool{}
	for _, b := range e.Builtins() {
		names[b.Name] = true
	}
	if !names["print"] || !names["boom"] || names["scan"] || names["ls"] {
		t.Errorf("unexpected builtins %v", names)
	}
}

func TestToInt(t *testing.T) {
	if n, ok := ToInt(&String{Value: " 12 "}); !ok || n != 12 {
		t.Errorf("ToInt(\" 12 \") = %d, %v", n, ok)
	}
	if _, ok := ToInt(&Number{Value: 1.5}); ok {
		t.Error("1.5 should not convert to int")
	}
	if _, ok := ToInt(NilValue); ok {
		t.Error("nil should not convert to int")
	}
}
