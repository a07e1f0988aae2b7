// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package fault defines the error taxonomy shared by the tokenizer, the
// parser and the evaluator. Every stage returns *Error so callers can match
// failures uniformly with errors.Is or KindOf.
package fault

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind classifies a failure.
type Kind int

const (
	Unknown Kind = iota
	Untokenized
	Unexpected
	SyntaxError
	InvalidSource
	UndefinedVariable
	UndefinedFunction
	InvalidLVariable
	InvalidRValue
	TypeMismatch
	ZeroStack
	CalculationError
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Untokenized:
		return "Untokenized"
	case Unexpected:
		return "Unexpected"
	case SyntaxError:
		return "SyntaxError"
	case InvalidSource:
		return "InvalidSource"
	case UndefinedVariable:
		return "UndefinedVariable"
	case UndefinedFunction:
		return "UndefinedFunction"
	case InvalidLVariable:
		return "InvalidLVariable"
	case InvalidRValue:
		return "InvalidRValue"
	case TypeMismatch:
		return "TypeMismatch"
	case ZeroStack:
		return "ZeroStack"
	case CalculationError:
		return "CalculationError"
	}
	return "Unknown"
}

// NoPos marks an error that has no source offset (evaluation errors).
const NoPos = -1

// Error is the single error type returned by every stage.
type Error struct {
	Kind Kind
	Pos  int    // byte offset into the source, or NoPos
	Msg  string // lower-case detail, may be empty
	Err  error  // wrapped cause, may be nil
}

// Sentinels for errors.Is matching. Only the kind is compared.
var (
	ErrUntokenized       = &Error{Kind: Untokenized, Pos: NoPos}
	ErrUnexpected        = &Error{Kind: Unexpected, Pos: NoPos}
	ErrSyntax            = &Error{Kind: SyntaxError, Pos: NoPos}
	ErrInvalidSource     = &Error{Kind: InvalidSource, Pos: NoPos}
	ErrUndefinedVariable = &Error{Kind: UndefinedVariable, Pos: NoPos}
	ErrUndefinedFunction = &Error{Kind: UndefinedFunction, Pos: NoPos}
	ErrInvalidLVariable  = &Error{Kind: InvalidLVariable, Pos: NoPos}
	ErrInvalidRValue     = &Error{Kind: InvalidRValue, Pos: NoPos}
	ErrTypeMismatch      = &Error{Kind: TypeMismatch, Pos: NoPos}
	ErrZeroStack         = &Error{Kind: ZeroStack, Pos: NoPos}
	ErrCalculation       = &Error{Kind: CalculationError, Pos: NoPos}
)

// New creates an error of the given kind at a source offset.
func New(kind Kind, pos int, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Newf creates a positionless error of the given kind.
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, NoPos, format, args...)
}

// Wrap creates a positionless error of the given kind around a cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: NoPos, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(e.Kind.String()[:1]))
	sb.WriteString(e.Kind.String()[1:])
	if e.Pos != NoPos {
		fmt.Fprintf(&sb, " at %d", e.Pos)
	}
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of err, or Unknown if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Caret renders the source line with a caret under the error offset, the
// way the tokenizer reports lex errors. The byte offset is converted to a
// rune column. It returns "" for positionless errors.
func Caret(src string, err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Pos == NoPos || e.Pos > len(src) {
		return ""
	}
	return src + "\n" + strings.Repeat(" ", utf8.RuneCountInString(src[:e.Pos])) + "^"
}
