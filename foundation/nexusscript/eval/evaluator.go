// File: evaluator.go
// Title: Tree-Walking Evaluator
// Description: Evaluates programs statement by statement against an
//              Environment, a builtin table and a Gate.
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-05
// Modified: 2026-03-05
//
// Change History:
// - 2026-03-05 v0.1.0: Initial implementation

package eval

import (
	"context"
	"fmt"

	"github.com/nexusroot/nexus/foundation/core/log"
	"github.com/nexusroot/nexus/foundation/nexusscript/ast"
)

// Gate reports whether a Knowledge Map command key may be used
type Gate interface {
	IsCommandAvailable(key string) bool
}

// GateFunc adapts a function to Gate
type GateFunc func(key string) bool

func (f GateFunc) IsCommandAvailable(key string) bool { return f(key) }

// Options configures an Evaluator
type Options struct {
	Logger      *log.Logger
	Builtins    []*Builtin
	Gate        Gate
	Environment *Environment
	Classes     map[string]Constructor
}

// Evaluator runs programs. It is bound to one player's session; callers
// serialise Eval calls for the same Evaluator.
type Evaluator struct {
	logger   *log.Logger
	builtins map[string]*Builtin
	gate     Gate
	env      *Environment
	classes  map[string]Constructor
}

// New creates an evaluator. A nil Gate allows every builtin.
func New(opts Options) *Evaluator {
	if opts.Logger == nil {
		opts.Logger = log.GetDefault()
	}
	if opts.Environment == nil {
		opts.Environment = NewEnvironment()
	}
	if opts.Classes == nil {
		opts.Classes = DefaultClasses()
	}
	if opts.Gate == nil {
		opts.Gate = GateFunc(func(string) bool { return true })
	}

	builtins := make(map[string]*Builtin, len(opts.Builtins))
	for _, b := range opts.Builtins {
		builtins[b.Name] = b
	}

	return &Evaluator{
		logger:   opts.Logger.WithField("component", "nexusscript-eval"),
		builtins: builtins,
		gate:     opts.Gate,
		env:      opts.Environment,
		classes:  opts.Classes,
	}
}

// Environment returns the evaluator's variable bindings
func (e *Evaluator) Environment() *Environment {
	return e.env
}

// Builtins returns the builtins that currently resolve, in no particular order
func (e *Evaluator) Builtins() []*Builtin {
	out := make([]*Builtin, 0, len(e.builtins))
	for _, b := range e.builtins {
		if e.available(b) {
			out = append(out, b)
		}
	}
	return out
}

// Eval evaluates node. A Program yields the value of its last statement,
// or Nil when it has none.
func (e *Evaluator) Eval(ctx context.Context, node ast.Node) Value {
	switch n := node.(type) {
	case *ast.Program:
		return e.evalProgram(ctx, n)
	case *ast.SetStatement:
		return e.env.Set(n.Name.Name, e.Eval(ctx, n.Value))
	case *ast.ExpressionStatement:
		return e.Eval(ctx, n.Expression)
	case *ast.Identifier:
		return e.resolve(n.Name)
	case *ast.StringLiteral:
		return &String{Value: n.Value}
	case *ast.NumberLiteral:
		return &Number{Value: n.Value}
	case *ast.CallExpression:
		return e.evalCall(ctx, n)
	case *ast.NewExpression:
		return e.evalNew(ctx, n)
	case nil:
		return NilValue
	default:
		return NewError("Error: cannot evaluate %T", node)
	}
}

func (e *Evaluator) evalProgram(ctx context.Context, prog *ast.Program) Value {
	var result Value = NilValue
	for _, stmt := range prog.Statements {
		result = e.Eval(ctx, stmt)
		if errVal, ok := result.(*Error); ok {
			e.logger.Debug("statement failed", log.Fields{
				"statement": stmt.String(),
				"error":     errVal.Message,
			})
		}
	}
	return result
}

// resolve looks a name up in the builtin table first, then the environment
func (e *Evaluator) resolve(name string) Value {
	if b, ok := e.builtins[name]; ok {
		if e.available(b) {
			return b
		}
		return &NotFound{Name: name}
	}
	if v, ok := e.env.Get(name); ok {
		return v
	}
	return NilValue
}

func (e *Evaluator) available(b *Builtin) bool {
	return b.Key == "" || e.gate.IsCommandAvailable(b.Key)
}

func (e *Evaluator) evalCall(ctx context.Context, call *ast.CallExpression) Value {
	callee := e.Eval(ctx, call.Callee)

	switch fn := callee.(type) {
	case *Builtin:
		args, errVal := e.evalArguments(ctx, call.Arguments)
		if errVal != nil {
			return errVal
		}
		return e.invoke(ctx, fn, args, call.Flags)
	case *NotFound:
		return fn
	case *Error:
		return fn
	default:
		return NewError("Error: %s is not a function", call.CalleeName())
	}
}

func (e *Evaluator) evalNew(ctx context.Context, expr *ast.NewExpression) Value {
	ctor, ok := e.classes[expr.ClassName]
	if !ok {
		return NewError("Error: unknown class %s", expr.ClassName)
	}
	args, errVal := e.evalArguments(ctx, expr.Arguments)
	if errVal != nil {
		return errVal
	}
	return ctor(args)
}

// evalArguments evaluates left to right and stops at the first error
func (e *Evaluator) evalArguments(ctx context.Context, exprs []ast.Expression) ([]Value, *Error) {
	args := make([]Value, 0, len(exprs))
	for _, expr := range exprs {
		v := e.Eval(ctx, expr)
		if errVal, ok := v.(*Error); ok {
			return nil, errVal
		}
		args = append(args, v)
	}
	return args, nil
}

// invoke calls a builtin, turning a panic into an error value
func (e *Evaluator) invoke(ctx context.Context, b *Builtin, args []Value, flags []string) (result Value) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("builtin panicked", log.Fields{
				"builtin": b.Name,
				"panic":   fmt.Sprint(r),
			})
			result = NewError("Error: %s failed: %v", b.Name, r)
		}
	}()

	result = b.Fn(ctx, args, flags)
	if result == nil {
		result = NilValue
	}
	return result
}
