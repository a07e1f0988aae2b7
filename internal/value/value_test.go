// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package value

import "testing"

func TestDisplay(t *testing.T) {
	tests := []struct {
		lit      Literal
		expected string
	}{
		{Int(47), "47"},
		{Int(-3), "-3"},
		{Str("hello world"), "hello world"},
		{Float(1.5), "1.5"},
		{Byte(255), "0xff"},
		{Vector(Int(1), Str("a")), "[1, a]"},
		{Literal{}, "0"},
	}

	for _, tt := range tests {
		if got := tt.lit.String(); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Int(5).Equal(Int(5)) {
		t.Error("expected Int(5) == Int(5)")
	}
	if Int(5).Equal(Str("5")) {
		t.Error("literals of different kinds must not be equal")
	}
	if !Vector(Int(1), Int(2)).Equal(Vector(Int(1), Int(2))) {
		t.Error("expected equal vectors")
	}
	if Vector(Int(1)).Equal(Vector(Int(1), Int(2))) {
		t.Error("vectors of different length must not be equal")
	}
}

func TestVectorValueSemantics(t *testing.T) {
	inner := []Literal{Int(1), Int(2)}
	v := Vector(inner...)
	inner[0] = Int(99)

	elems, ok := v.Elems()
	if !ok {
		t.Fatal("expected vector")
	}
	if n, _ := elems[0].AsInt(); n != 1 {
		t.Errorf("vector shares storage with its input: got %d", n)
	}

	elems[1] = Int(42)
	again, _ := v.Elems()
	if n, _ := again[1].AsInt(); n != 2 {
		t.Errorf("Elems exposed internal storage: got %d", n)
	}
}

func TestAccessors(t *testing.T) {
	if _, ok := Str("x").AsInt(); ok {
		t.Error("AsInt succeeded on a string")
	}
	if s, ok := Str("x").AsStr(); !ok || s != "x" {
		t.Errorf("AsStr = %q, %v", s, ok)
	}
	if Str("abc").Len() != 3 {
		t.Errorf("expected string length 3")
	}
	if Int(7).Len() != 0 {
		t.Errorf("expected integer length 0")
	}
	if Int(1).Kind() != IntKind || Float(1).Kind() != FloatKind {
		t.Error("wrong kind tags")
	}
}
