// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"nickandperla.net/calc/internal/fault"
	"nickandperla.net/calc/internal/value"
)

// Builtin is the signature for builtin functions. args holds zero or one
// value.
type Builtin func(e *Evaluator, args []value.Literal) (value.Literal, error)

func defaultBuiltins() map[string]Builtin {
	return map[string]Builtin{
		"calc": builtinCalc,
		"echo": builtinEcho,
		"abs":  builtinAbs,
		"neg":  builtinNeg,
		"len":  builtinLen,
		"str":  builtinStr,
		"int":  builtinInt,
		"vars": builtinVars,

		"float": builtinFloat,
		"byte":  builtinByte,

		"history": builtinHistory,
	}
}

// BuiltinNames returns the names of the default builtins.
func BuiltinNames() []string {
	names := make([]string, 0, 11)
	for name := range defaultBuiltins() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func requireArg(name string, args []value.Literal) (value.Literal, error) {
	if len(args) == 0 {
		return value.Literal{}, fault.Newf(fault.InvalidRValue, "%s requires an argument", name)
	}
	return args[0], nil
}

func requireInt(name string, args []value.Literal) (int32, error) {
	arg, err := requireArg(name, args)
	if err != nil {
		return 0, err
	}
	n, ok := arg.AsInt()
	if !ok {
		return 0, fault.Newf(fault.TypeMismatch, "%s expects int, got %s", name, arg.Kind())
	}
	return n, nil
}

// builtinCalc returns its argument unchanged.
func builtinCalc(e *Evaluator, args []value.Literal) (value.Literal, error) {
	return requireArg("calc", args)
}

// builtinEcho returns the display form of its argument as a string.
func builtinEcho(e *Evaluator, args []value.Literal) (value.Literal, error) {
	if len(args) == 0 {
		return value.Str(""), nil
	}
	return value.Str(args[0].String()), nil
}

func builtinAbs(e *Evaluator, args []value.Literal) (value.Literal, error) {
	n, err := requireInt("abs", args)
	if err != nil {
		return value.Literal{}, err
	}
	if n == math.MinInt32 {
		return value.Literal{}, fault.Newf(fault.CalculationError, "integer overflow: abs %d", n)
	}
	if n < 0 {
		n = -n
	}
	return value.Int(n), nil
}

func builtinNeg(e *Evaluator, args []value.Literal) (value.Literal, error) {
	n, err := requireInt("neg", args)
	if err != nil {
		return value.Literal{}, err
	}
	if n == math.MinInt32 {
		return value.Literal{}, fault.Newf(fault.CalculationError, "integer overflow: neg %d", n)
	}
	return value.Int(-n), nil
}

func builtinLen(e *Evaluator, args []value.Literal) (value.Literal, error) {
	arg, err := requireArg("len", args)
	if err != nil {
		return value.Literal{}, err
	}
	switch arg.Kind() {
	case value.StrKind, value.VectorKind:
		return value.Int(int32(arg.Len())), nil
	}
	return value.Literal{}, fault.Newf(fault.TypeMismatch, "len expects string or vector, got %s", arg.Kind())
}

func builtinStr(e *Evaluator, args []value.Literal) (value.Literal, error) {
	arg, err := requireArg("str", args)
	if err != nil {
		return value.Literal{}, err
	}
	return value.Str(arg.String()), nil
}

func builtinInt(e *Evaluator, args []value.Literal) (value.Literal, error) {
	arg, err := requireArg("int", args)
	if err != nil {
		return value.Literal{}, err
	}
	switch arg.Kind() {
	case value.IntKind:
		return arg, nil
	case value.StrKind:
		s, _ := arg.AsStr()
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
		if err != nil {
			return value.Literal{}, fault.Wrap(fault.CalculationError, err, "int %q", s)
		}
		return value.Int(int32(n)), nil
	}
	return value.Literal{}, fault.Newf(fault.TypeMismatch, "int expects int or string, got %s", arg.Kind())
}

// builtinVars returns the number of assigned variables.
func builtinVars(e *Evaluator, args []value.Literal) (value.Literal, error) {
	return value.Int(int32(e.env.Len())), nil
}

// builtinFloat converts an int or a numeric string to a float. Floats have
// no arithmetic operators; they are for display and storage.
func builtinFloat(e *Evaluator, args []value.Literal) (value.Literal, error) {
	arg, err := requireArg("float", args)
	if err != nil {
		return value.Literal{}, err
	}
	switch arg.Kind() {
	case value.FloatKind:
		return arg, nil
	case value.IntKind:
		n, _ := arg.AsInt()
		return value.Float(float64(n)), nil
	case value.StrKind:
		s, _ := arg.AsStr()
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return value.Literal{}, fault.Wrap(fault.CalculationError, err, "float %q", s)
		}
		return value.Float(f), nil
	}
	return value.Literal{}, fault.Newf(fault.TypeMismatch, "float expects int or string, got %s", arg.Kind())
}

// builtinByte converts an int in [0, 255] to a byte.
func builtinByte(e *Evaluator, args []value.Literal) (value.Literal, error) {
	arg, err := requireArg("byte", args)
	if err != nil {
		return value.Literal{}, err
	}
	if arg.Kind() == value.ByteKind {
		return arg, nil
	}
	n, ok := arg.AsInt()
	if !ok {
		return value.Literal{}, fault.Newf(fault.TypeMismatch, "byte expects int, got %s", arg.Kind())
	}
	if n < 0 || n > math.MaxUint8 {
		return value.Literal{}, fault.Newf(fault.CalculationError, "byte %d out of range", n)
	}
	return value.Byte(byte(n)), nil
}
