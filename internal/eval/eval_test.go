// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"nickandperla.net/calc/internal/ast"
	"nickandperla.net/calc/internal/fault"
	"nickandperla.net/calc/internal/trace"
	"nickandperla.net/calc/internal/value"
)

func TestArithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected int32
	}{
		{"5+6*7", 47},
		{"5*(9-6)", 15},
		{"(3+5)/2", 4},
		{"-10+(+20)", 10},
		{"7/2", 3},
		{"-7/2", -3},
		{"1-2-3", -4},
		{"2*3+4*5", 26},
		{"((((1))))", 1},
		{"0", 0},
		{"2147483647", math.MaxInt32},
	}

	for _, tt := range tests {
		e := New()
		result, err := e.Eval(tt.input)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.input, err)
		}
		if n, ok := result.AsInt(); !ok || n != tt.expected {
			t.Errorf("%q: expected %d, got %s", tt.input, tt.expected, result)
		}
	}
}

func TestNumeralRoundTrip(t *testing.T) {
	for _, n := range []int32{0, 1, 9, 10, 42, 1000, 65535, 1 << 20, math.MaxInt32} {
		e := New()
		result, err := e.Eval(fmt.Sprint(n))
		if err != nil {
			t.Fatalf("%d: unexpected error: %v", n, err)
		}
		if !result.Equal(value.Int(n)) {
			t.Errorf("expected %d, got %s", n, result)
		}
	}
}

func TestAssignAndLookup(t *testing.T) {
	e := New()

	result, err := e.Eval("$a=5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Equal(value.Int(5)) {
		t.Errorf("expected 5, got %s", result)
	}

	result, err = e.Eval("$a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Equal(value.Int(5)) {
		t.Errorf("expected 5, got %s", result)
	}

	result, err = e.Eval("$b = $a * 2 + 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Equal(value.Int(11)) {
		t.Errorf("expected 11, got %s", result)
	}
}

func TestChainedAssignment(t *testing.T) {
	e := New()
	if _, err := e.Eval("$a = $b = 4"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"a", "b"} {
		v, ok := e.Env().Get(name)
		if !ok || !v.Equal(value.Int(4)) {
			t.Errorf("$%s: expected 4, got %s (%v)", name, v, ok)
		}
	}
	if got := e.Env().Names(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("unexpected names: %v", got)
	}
}

func TestAssignmentInsideExpression(t *testing.T) {
	e := New()
	result, err := e.Eval("1 + ($x = 5) * 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Equal(value.Int(11)) {
		t.Errorf("expected 11, got %s", result)
	}
	if v, _ := e.Env().Get("x"); !v.Equal(value.Int(5)) {
		t.Errorf("expected $x = 5, got %s", v)
	}
}

func TestStringValues(t *testing.T) {
	e := New()
	result, err := e.Eval(`$s = "hello world"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.String() != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", result)
	}

	result, err = e.Eval("word")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s, ok := result.AsStr(); !ok || s != "word" {
		t.Errorf("expected string 'word', got %s", result)
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  fault.Kind
	}{
		{"$b*$a", fault.UndefinedVariable},
		{"5 - 3 a", fault.Unexpected},
		{"5 - 3 !", fault.Untokenized},
		{"1/0", fault.CalculationError},
		{"2147483647+1", fault.CalculationError},
		{"-2147483647-2", fault.CalculationError},
		{"65536*65536", fault.CalculationError},
		{"1 + 'a'", fault.TypeMismatch},
		{"-abc", fault.TypeMismatch},
		{"'a' + 'b'", fault.UndefinedFunction},
		{"5 = 3", fault.InvalidLVariable},
		{"$(nosuch 1)", fault.UndefinedFunction},
		{"", fault.InvalidSource},
		{"(", fault.SyntaxError},
	}

	for _, tt := range tests {
		e := New()
		_, err := e.Eval(tt.input)
		if err == nil {
			t.Fatalf("%q: expected error", tt.input)
		}
		if got := fault.KindOf(err); got != tt.kind {
			t.Errorf("%q: expected %s, got %s (%v)", tt.input, tt.kind, got, err)
		}
	}
}

func TestUndefinedVariableDoesNotAssign(t *testing.T) {
	e := New()
	_, err := e.Eval("$a = $missing + 1")
	if !errors.Is(err, fault.ErrUndefinedVariable) {
		t.Fatalf("expected UndefinedVariable, got %v", err)
	}
	if e.Env().Has("a") {
		t.Error("failed assignment must not create the variable")
	}
}

func TestReturnStopsProgram(t *testing.T) {
	e := New()
	result, err := e.Eval("$a = 1; return $a + 1; $a = 100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Equal(value.Int(2)) {
		t.Errorf("expected 2, got %s", result)
	}
	if v, _ := e.Env().Get("a"); !v.Equal(value.Int(1)) {
		t.Errorf("statement after return was evaluated: $a = %s", v)
	}
}

func TestNestedReturnIsTransparent(t *testing.T) {
	e := New()
	result, err := e.Eval("$(return 3) * 2; 7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Equal(value.Int(7)) {
		t.Errorf("expected 7, got %s", result)
	}
}

func TestLastStatementWins(t *testing.T) {
	e := New()
	result, err := e.Eval("1; 2;; 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Equal(value.Int(3)) {
		t.Errorf("expected 3, got %s", result)
	}
}

func TestProgramMode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"calc 5+6*7", "47"},
		{"abs -12", "12"},
		{"neg 4", "-4"},
		{"echo 'a b'", "a b"},
		{"echo", ""},
		{"len \"four\"", "4"},
		{"str 12", "12"},
		{"int '  42 '", "42"},
		{"calc $a = 3; $a * $a", "9"},
	}

	for _, tt := range tests {
		e := New()
		result, err := e.EvalProgram(tt.input)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.input, err)
		}
		if result.String() != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.expected, result.String())
		}
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  fault.Kind
	}{
		{"5+6*7", fault.UndefinedFunction},
		{"calc", fault.InvalidRValue},
		{"abs 'x'", fault.TypeMismatch},
		{"len 5", fault.TypeMismatch},
		{"int 'twelve'", fault.CalculationError},
		{"abs -2147483647-1", fault.CalculationError},
	}

	for _, tt := range tests {
		e := New()
		_, err := e.EvalProgram(tt.input)
		if got := fault.KindOf(err); got != tt.kind {
			t.Errorf("%q: expected %s, got %s (%v)", tt.input, tt.kind, got, err)
		}
	}
}

func TestConversionBuiltins(t *testing.T) {
	tests := []struct {
		input string
		want  value.Literal
	}{
		{"float 3", value.Float(3)},
		{"float ' 2.5 '", value.Float(2.5)},
		{"float $(float 4)", value.Float(4)},
		{"byte 255", value.Byte(255)},
		{"byte 0", value.Byte(0)},
		{"str $(byte 16)", value.Str("0x10")},
	}

	for _, tt := range tests {
		e := New()
		result, err := e.EvalProgram(tt.input)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.input, err)
		}
		if !result.Equal(tt.want) {
			t.Errorf("%q: expected %s %s, got %s %s", tt.input, tt.want.Kind(), tt.want, result.Kind(), result)
		}
	}

	errs := []struct {
		input string
		kind  fault.Kind
	}{
		{"float 'x'", fault.CalculationError},
		{"byte 256", fault.CalculationError},
		{"byte -1", fault.CalculationError},
		{"byte 'a'", fault.TypeMismatch},
		{"calc $(float 1) + 1", fault.TypeMismatch},
		{"calc $(float 1) + $(float 2)", fault.UndefinedFunction},
	}
	for _, tt := range errs {
		e := New()
		_, err := e.EvalProgram(tt.input)
		if got := fault.KindOf(err); got != tt.kind {
			t.Errorf("%q: expected %s, got %s (%v)", tt.input, tt.kind, got, err)
		}
	}
}

func TestEnvironmentDelete(t *testing.T) {
	e := New()
	if _, err := e.Eval("$a = 1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.Env().Delete("a") {
		t.Error("expected Delete to report a defined variable")
	}
	if e.Env().Delete("a") {
		t.Error("expected second Delete to report nothing removed")
	}
	if _, err := e.Eval("$a"); !errors.Is(err, fault.ErrUndefinedVariable) {
		t.Errorf("expected UndefinedVariable after Delete, got %v", err)
	}
}

func TestVarsBuiltin(t *testing.T) {
	e := New()
	if _, err := e.Eval("$a=1; $b=2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := e.Eval("$(vars) * 10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Equal(value.Int(20)) {
		t.Errorf("expected 20, got %s", result)
	}
}

func TestCustomBuiltin(t *testing.T) {
	double := func(e *Evaluator, args []value.Literal) (value.Literal, error) {
		n, err := requireInt("double", args)
		if err != nil {
			return value.Literal{}, err
		}
		return value.Int(n * 2), nil
	}
	e := New(WithBuiltin("double", double))

	result, err := e.EvalProgram("double 21")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Equal(value.Int(42)) {
		t.Errorf("expected 42, got %s", result)
	}
}

func TestStackInvariant(t *testing.T) {
	e := New()
	if _, err := e.Eval("$a = 2; ($a + 3) * $(abs -4) - 1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One value per top-level statement.
	if e.StackDepth() != 2 {
		t.Errorf("expected stack depth 2, got %d", e.StackDepth())
	}

	if _, err := e.Eval("1+2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.StackDepth() != 1 {
		t.Errorf("expected stack depth 1, got %d", e.StackDepth())
	}
}

func TestHandBuiltTrees(t *testing.T) {
	tests := []struct {
		name string
		node *ast.Node
		kind fault.Kind
	}{
		{"add with one operand", &ast.Node{Kind: ast.Add, Children: []*ast.Node{ast.NewNum(1, 0)}}, fault.ZeroStack},
		{"mul with no operands", &ast.Node{Kind: ast.Mul}, fault.ZeroStack},
		{"add with three operands", &ast.Node{Kind: ast.Add, Children: []*ast.Node{ast.NewNum(1, 0), ast.NewNum(2, 0), ast.NewNum(3, 0)}}, fault.CalculationError},
		{"unknown kind", &ast.Node{Kind: ast.Kind(99), Children: []*ast.Node{ast.NewNum(1, 0), ast.NewNum(2, 0)}}, fault.CalculationError},
		{"assign without value", &ast.Node{Kind: ast.Assign, Children: []*ast.Node{ast.NewVariable("a", 0)}}, fault.InvalidRValue},
		{"assign to number", ast.NewBinary(ast.Assign, ast.NewNum(1, 0), ast.NewNum(2, 0), 0), fault.InvalidLVariable},
		{"empty return", &ast.Node{Kind: ast.Return}, fault.InvalidRValue},
	}

	for _, tt := range tests {
		e := New()
		_, err := e.Execute(tt.node)
		if got := fault.KindOf(err); got != tt.kind {
			t.Errorf("%s: expected %s, got %s (%v)", tt.name, tt.kind, got, err)
		}
	}
}

func TestShortOperatorIgnoresLeftoverStack(t *testing.T) {
	tests := []struct {
		name string
		node *ast.Node
	}{
		{"add with one operand", &ast.Node{Kind: ast.Add, Children: []*ast.Node{ast.NewNum(3, 0)}}},
		{"sub with no operands", &ast.Node{Kind: ast.Sub}},
		{"div with empty operand list", &ast.Node{Kind: ast.Div, Children: []*ast.Node{}}},
	}

	for _, tt := range tests {
		e := New()
		if _, err := e.Execute(ast.NewNum(5, 0)); err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if _, err := e.Execute(ast.NewNum(7, 0)); err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		depth := e.StackDepth()

		v, err := e.Execute(tt.node)
		if !errors.Is(err, fault.ErrZeroStack) {
			t.Errorf("%s: expected ZeroStack, got %v (value %s)", tt.name, err, v)
		}
		if e.StackDepth() != depth {
			t.Errorf("%s: stack depth changed from %d to %d", tt.name, depth, e.StackDepth())
		}
	}
}

type failingStore struct{}

func (failingStore) Put(string, value.Literal) error { return errors.New("disk full") }

type recordingStore map[string]value.Literal

func (r recordingStore) Put(name string, v value.Literal) error {
	r[name] = v
	return nil
}

func TestStoreWriteThrough(t *testing.T) {
	rec := recordingStore{}
	e := New(WithStore(rec))
	if _, err := e.Eval("$a = 3; $b = $a * 2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec["a"].Equal(value.Int(3)) || !rec["b"].Equal(value.Int(6)) {
		t.Errorf("unexpected store contents: %v", rec)
	}

	e = New(WithStore(failingStore{}))
	if _, err := e.Eval("$a = 1"); err == nil {
		t.Error("expected store error to propagate")
	}
}

func TestTracerDoesNotChangeResults(t *testing.T) {
	src := "$x = 6; $y = $x * 7 - 2; $y / 4"

	plain := New(WithTracer(trace.Nop))
	want, err := plain.Eval(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var rec trace.Recorder
	traced := New(WithTracer(&rec))
	got, err := traced.Eval(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("tracer changed result: %s vs %s", got, want)
	}
	if len(rec.Messages()) == 0 {
		t.Error("expected trace output")
	}
}

func TestIndependentSessions(t *testing.T) {
	a, b := New(), New()
	if _, err := a.Eval("$v = 1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := b.Eval("$v"); !errors.Is(err, fault.ErrUndefinedVariable) {
		t.Errorf("sessions share state: %v", err)
	}
}
