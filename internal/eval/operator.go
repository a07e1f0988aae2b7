// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"math"

	"nickandperla.net/calc/internal/ast"
	"nickandperla.net/calc/internal/fault"
	"nickandperla.net/calc/internal/value"
)

// apply pops the right then the left operand, applies the operator for
// kind and pushes the result.
func (e *Evaluator) apply(kind ast.Kind) error {
	rhs, ok := e.stack.Pop()
	if !ok {
		return fault.Newf(fault.ZeroStack, "%s: missing right operand", kind)
	}
	lhs, ok := e.stack.Pop()
	if !ok {
		return fault.Newf(fault.ZeroStack, "%s: missing left operand", kind)
	}

	if !kind.IsBinary() {
		return fault.Newf(fault.CalculationError, "%s is not an operator", kind)
	}
	if lhs.Kind() != rhs.Kind() {
		return fault.Newf(fault.TypeMismatch, "%s %s %s", lhs.Kind(), kind.Symbol(), rhs.Kind())
	}

	a, ok := lhs.AsInt()
	if !ok {
		return fault.Newf(fault.UndefinedFunction, "no %q operator for %s", kind.Symbol(), lhs.Kind())
	}
	b, _ := rhs.AsInt()

	n, err := arith(kind, a, b)
	if err != nil {
		return err
	}
	e.stack.Push(value.Int(n))
	e.tracef("%s %d %d -> %d", kind, a, b, n)
	return nil
}

// arith computes a op b, rejecting division by zero and results outside
// the int32 range.
func arith(kind ast.Kind, a, b int32) (int32, error) {
	x, y := int64(a), int64(b)
	var r int64
	switch kind {
	case ast.Add:
		r = x + y
	case ast.Sub:
		r = x - y
	case ast.Mul:
		r = x * y
	case ast.Div:
		if y == 0 {
			return 0, fault.Newf(fault.CalculationError, "division by zero")
		}
		r = x / y
	default:
		return 0, fault.Newf(fault.CalculationError, "%s is not an operator", kind)
	}
	if r > math.MaxInt32 || r < math.MinInt32 {
		return 0, fault.Newf(fault.CalculationError, "integer overflow: %d %s %d", a, kind.Symbol(), b)
	}
	return int32(r), nil
}
