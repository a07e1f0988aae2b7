package fault

import (
	"errors"
	"fmt"
	"strconv"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{New(Untokenized, 4, "cannot tokenize %q", '@'), `untokenized at 4: cannot tokenize '@'`},
		{Newf(UndefinedVariable, "$%s", "b"), "undefinedVariable: $b"},
		{Newf(ZeroStack, ""), "zeroStack"},
		{New(SyntaxError, 0, "unmatched '('"), "syntaxError at 0: unmatched '('"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWrapKeepsCause(t *testing.T) {
	_, cause := strconv.Atoi("x")
	err := Wrap(CalculationError, cause, "int %q", "x")
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Errorf("expected wrapped strconv.ErrSyntax, got %v", err)
	}
	if !errors.Is(err, ErrCalculation) {
		t.Errorf("expected kind match with ErrCalculation")
	}
}

func TestIsComparesKind(t *testing.T) {
	err := New(Unexpected, 7, "expected %q", ")")
	if !errors.Is(err, ErrUnexpected) {
		t.Error("expected errors.Is to match on kind")
	}
	if errors.Is(err, ErrSyntax) {
		t.Error("expected different kinds not to match")
	}
	if errors.Is(err, errors.New("unexpected")) {
		t.Error("expected non-fault error not to match")
	}

	wrapped := fmt.Errorf("line 3: %w", err)
	if !errors.Is(wrapped, ErrUnexpected) {
		t.Error("expected match through fmt wrapping")
	}
}

func TestKindOf(t *testing.T) {
	if k := KindOf(Newf(TypeMismatch, "int vs string")); k != TypeMismatch {
		t.Errorf("KindOf = %s, want TypeMismatch", k)
	}
	if k := KindOf(fmt.Errorf("outer: %w", Newf(ZeroStack, ""))); k != ZeroStack {
		t.Errorf("KindOf wrapped = %s, want ZeroStack", k)
	}
	if k := KindOf(errors.New("plain")); k != Unknown {
		t.Errorf("KindOf plain = %s, want Unknown", k)
	}
	if k := KindOf(nil); k != Unknown {
		t.Errorf("KindOf nil = %s, want Unknown", k)
	}
}

func TestCaret(t *testing.T) {
	src := "5 - 3 a"
	got := Caret(src, New(Unexpected, 6, "expected ';'"))
	want := "5 - 3 a\n      ^"
	if got != want {
		t.Errorf("Caret =\n%s\nwant\n%s", got, want)
	}

	// End-of-input offsets point just past the source.
	if got := Caret("(1", New(SyntaxError, 2, "")); got != "(1\n  ^" {
		t.Errorf("Caret at EOF = %q", got)
	}

	if got := Caret(src, Newf(UndefinedVariable, "$b")); got != "" {
		t.Errorf("expected no caret for positionless error, got %q", got)
	}
	if got := Caret(src, errors.New("plain")); got != "" {
		t.Errorf("expected no caret for non-fault error, got %q", got)
	}
	if got := Caret("ab", New(Unexpected, 10, "")); got != "" {
		t.Errorf("expected no caret past source, got %q", got)
	}

	// Offsets are bytes; the caret column counts runes.
	if got := Caret("é ! 1", New(Untokenized, 3, "")); got != "é ! 1\n  ^" {
		t.Errorf("Caret after multi-byte rune = %q", got)
	}
}

func TestKindNames(t *testing.T) {
	for k := Unknown; k <= CalculationError; k++ {
		if k != Unknown && k.String() == "Unknown" {
			t.Errorf("kind %d has no name", int(k))
		}
	}
}
