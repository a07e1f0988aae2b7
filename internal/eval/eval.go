// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"fmt"

	"nickandperla.net/calc/internal/ast"
	"nickandperla.net/calc/internal/fault"
	"nickandperla.net/calc/internal/parser"
	"nickandperla.net/calc/internal/scanner"
	"nickandperla.net/calc/internal/trace"
	"nickandperla.net/calc/internal/value"
)

// Store receives every assignment when persistence is enabled.
type Store interface {
	Put(name string, v value.Literal) error
}

// Evaluator walks syntax trees against one environment and one operand
// stack. It is not safe for concurrent use; give each session its own.
type Evaluator struct {
	env      *Environment
	stack    *Stack
	builtins map[string]Builtin
	store    Store
	tracer   trace.Tracer

	historyLimit int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithStore sets the write-through store for assignments.
func WithStore(s Store) Option {
	return func(e *Evaluator) { e.store = s }
}

// WithTracer sets the diagnostic sink.
func WithTracer(t trace.Tracer) Option {
	return func(e *Evaluator) { e.tracer = t }
}

// WithBuiltin registers or replaces a builtin function.
func WithBuiltin(name string, fn Builtin) Option {
	return func(e *Evaluator) { e.builtins[name] = fn }
}

// WithHistoryLimit caps the number of versions the history builtin returns.
// Zero or less returns all of them.
func WithHistoryLimit(n int) Option {
	return func(e *Evaluator) { e.historyLimit = n }
}

// WithEnvironment starts the evaluator from an existing environment.
func WithEnvironment(env *Environment) Option {
	return func(e *Evaluator) { e.env = env }
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		env:      NewEnvironment(),
		stack:    NewStack(),
		builtins: defaultBuiltins(),
		tracer:   trace.Nop,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Env returns the evaluator's environment.
func (e *Evaluator) Env() *Environment {
	return e.env
}

// StackDepth returns the number of values on the operand stack.
func (e *Evaluator) StackDepth() int {
	return e.stack.Len()
}

// Eval tokenizes, parses and runs one line in expression mode.
func (e *Evaluator) Eval(src string) (value.Literal, error) {
	return e.eval(src, scanner.ExprMode)
}

// EvalProgram tokenizes, parses and runs one line in program mode, where
// the leading word names a function.
func (e *Evaluator) EvalProgram(src string) (value.Literal, error) {
	return e.eval(src, scanner.ProgramMode)
}

func (e *Evaluator) eval(src string, mode scanner.Mode) (value.Literal, error) {
	tokens, err := scanner.New(src, scanner.WithMode(mode), scanner.WithTracer(e.tracer)).Tokenize()
	if err != nil {
		return value.Literal{}, err
	}
	prog, err := parser.Build(tokens, e.tracer)
	if err != nil {
		return value.Literal{}, err
	}
	return e.Run(prog)
}

// Run executes a program's top-level nodes in order and returns the value
// of the last one. A top-level return stops the program with its value.
func (e *Evaluator) Run(prog ast.Program) (value.Literal, error) {
	if len(prog) == 0 {
		return value.Literal{}, fault.Newf(fault.InvalidSource, "empty program")
	}
	e.stack.Reset()

	var last value.Literal
	for i, node := range prog {
		v, err := e.Execute(node)
		if err != nil {
			return value.Literal{}, err
		}
		last = v
		if node.Kind == ast.Return {
			if rest := len(prog) - i - 1; rest > 0 {
				e.tracef("return skips %d statement(s)", rest)
			}
			break
		}
	}
	return last, nil
}

// Execute evaluates one node and returns its value. Every node leaves
// exactly one value on the operand stack.
func (e *Evaluator) Execute(node *ast.Node) (value.Literal, error) {
	if node == nil {
		return value.Literal{}, fault.Newf(fault.InvalidSource, "nil node")
	}

	switch node.Kind {
	case ast.Num:
		v := value.Int(node.Num)
		e.push(v)
		return v, nil

	case ast.String:
		v := value.Str(node.Str)
		e.push(v)
		return v, nil

	case ast.Assign:
		return e.assign(node)

	case ast.LocalVariable:
		v, ok := e.env.Get(node.Name)
		if !ok {
			return value.Literal{}, fault.Newf(fault.UndefinedVariable, "$%s", node.Name)
		}
		e.push(v)
		return v, nil

	case ast.Return:
		if len(node.Children) != 1 {
			return value.Literal{}, fault.Newf(fault.InvalidRValue, "return takes one operand, got %d", len(node.Children))
		}
		return e.Execute(node.Children[0])

	case ast.Func:
		return e.call(node)
	}

	// Check arity before pushing anything: a short node must not pop a
	// value left by an earlier statement.
	switch n := len(node.Children); {
	case n < 2:
		return value.Literal{}, fault.Newf(fault.ZeroStack, "%s node has %d operand(s), want 2", node.Kind, n)
	case n > 2:
		return value.Literal{}, fault.Newf(fault.CalculationError, "%s node has %d operands", node.Kind, n)
	}
	for _, child := range node.Children {
		if _, err := e.Execute(child); err != nil {
			return value.Literal{}, err
		}
	}
	if err := e.apply(node.Kind); err != nil {
		return value.Literal{}, err
	}

	top, ok := e.stack.Top()
	if !ok {
		return value.Literal{}, fault.Newf(fault.ZeroStack, "no result for %s", node.Kind)
	}
	return top, nil
}

func (e *Evaluator) assign(node *ast.Node) (value.Literal, error) {
	if len(node.Children) != 2 || node.Children[1] == nil {
		return value.Literal{}, fault.Newf(fault.InvalidRValue, "assignment without a value")
	}
	lhs := node.Children[0]
	if lhs == nil || lhs.Kind != ast.LocalVariable {
		return value.Literal{}, fault.Newf(fault.InvalidLVariable, "cannot assign to %s", lhs)
	}

	v, err := e.Execute(node.Children[1])
	if err != nil {
		return value.Literal{}, err
	}
	e.env.Set(lhs.Name, v)
	e.tracef("assign $%s = %s", lhs.Name, v)

	if e.store != nil {
		if err := e.store.Put(lhs.Name, v); err != nil {
			return value.Literal{}, fault.Wrap(fault.Unknown, err, "persist $%s", lhs.Name)
		}
	}
	return v, nil
}

func (e *Evaluator) call(node *ast.Node) (value.Literal, error) {
	fn, ok := e.builtins[node.Name]
	if !ok {
		return value.Literal{}, fault.Newf(fault.UndefinedFunction, "%s", node.Name)
	}
	if len(node.Children) > 1 {
		return value.Literal{}, fault.Newf(fault.CalculationError, "%s takes at most one argument, got %d", node.Name, len(node.Children))
	}

	var args []value.Literal
	if len(node.Children) == 1 {
		if _, err := e.Execute(node.Children[0]); err != nil {
			return value.Literal{}, err
		}
		arg, ok := e.stack.Pop()
		if !ok {
			return value.Literal{}, fault.Newf(fault.ZeroStack, "%s: missing argument", node.Name)
		}
		args = append(args, arg)
	}

	v, err := fn(e, args)
	if err != nil {
		return value.Literal{}, err
	}
	e.tracef("call %s -> %s", node.Name, v)
	e.push(v)
	return v, nil
}

func (e *Evaluator) push(v value.Literal) {
	e.stack.Push(v)
	e.tracef("push %s", v)
}

func (e *Evaluator) tracef(format string, args ...any) {
	trace.Printf(e.tracer, "eval: "+format, args...)
}

// String describes the evaluator state for diagnostics.
func (e *Evaluator) String() string {
	return fmt.Sprintf("Evaluator{vars: %d, stack: %d}", e.env.Len(), e.stack.Len())
}
