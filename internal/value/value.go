// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package value defines the runtime literal shared by the environment, the
// operand stack and the leaves of the syntax tree.
package value

import (
	"strconv"
	"strings"
)

// Kind tags the variant held by a Literal.
type Kind int

const (
	IntKind Kind = iota
	StrKind
	FloatKind
	ByteKind
	VectorKind
)

func (k Kind) String() string {
	switch k {
	case IntKind:
		return "int"
	case StrKind:
		return "string"
	case FloatKind:
		return "float"
	case ByteKind:
		return "byte"
	case VectorKind:
		return "vector"
	}
	return "unknown"
}

// Literal is a tagged runtime value with value semantics. The zero Literal
// is the integer 0.
type Literal struct {
	kind Kind
	i    int32
	f    float64
	s    string
	b    byte
	v    []Literal
}

// Int creates an integer literal.
func Int(n int32) Literal { return Literal{kind: IntKind, i: n} }

// Str creates a string literal.
func Str(s string) Literal { return Literal{kind: StrKind, s: s} }

// Float creates a float literal.
func Float(f float64) Literal { return Literal{kind: FloatKind, f: f} }

// Byte creates a byte literal.
func Byte(b byte) Literal { return Literal{kind: ByteKind, b: b} }

// Vector creates a vector literal holding copies of elems.
func Vector(elems ...Literal) Literal {
	v := make([]Literal, len(elems))
	for i, e := range elems {
		v[i] = e.Clone()
	}
	return Literal{kind: VectorKind, v: v}
}

// Kind returns the variant tag.
func (l Literal) Kind() Kind { return l.kind }

// AsInt returns the integer payload.
func (l Literal) AsInt() (int32, bool) { return l.i, l.kind == IntKind }

// AsStr returns the string payload.
func (l Literal) AsStr() (string, bool) { return l.s, l.kind == StrKind }

// AsFloat returns the float payload.
func (l Literal) AsFloat() (float64, bool) { return l.f, l.kind == FloatKind }

// AsByte returns the byte payload.
func (l Literal) AsByte() (byte, bool) { return l.b, l.kind == ByteKind }

// Elems returns a copy of the vector elements.
func (l Literal) Elems() ([]Literal, bool) {
	if l.kind != VectorKind {
		return nil, false
	}
	return Vector(l.v...).v, true
}

// Len returns the element count of a vector, the byte length of a string,
// and 0 otherwise.
func (l Literal) Len() int {
	switch l.kind {
	case StrKind:
		return len(l.s)
	case VectorKind:
		return len(l.v)
	}
	return 0
}

// Clone returns an independent copy. Only vectors share backing storage.
func (l Literal) Clone() Literal {
	if l.kind == VectorKind {
		return Vector(l.v...)
	}
	return l
}

// Equal reports whether two literals hold the same kind and payload.
func (l Literal) Equal(o Literal) bool {
	if l.kind != o.kind {
		return false
	}
	switch l.kind {
	case IntKind:
		return l.i == o.i
	case StrKind:
		return l.s == o.s
	case FloatKind:
		return l.f == o.f
	case ByteKind:
		return l.b == o.b
	case VectorKind:
		if len(l.v) != len(o.v) {
			return false
		}
		for i := range l.v {
			if !l.v[i].Equal(o.v[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String returns the display form: integers in decimal, strings as-is.
func (l Literal) String() string {
	switch l.kind {
	case IntKind:
		return strconv.FormatInt(int64(l.i), 10)
	case StrKind:
		return l.s
	case FloatKind:
		return strconv.FormatFloat(l.f, 'g', -1, 64)
	case ByteKind:
		return "0x" + strconv.FormatUint(uint64(l.b), 16)
	case VectorKind:
		parts := make([]string, len(l.v))
		for i, e := range l.v {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return ""
}
