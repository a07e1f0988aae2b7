// Package calc provides the public API for the calc interpreter.
package calc

import (
	"nickandperla.net/calc/internal/eval"
	"nickandperla.net/calc/internal/fault"
	"nickandperla.net/calc/internal/store"
	"nickandperla.net/calc/internal/trace"
	"nickandperla.net/calc/internal/value"
)

// Option configures a Session.
type Option func(*Session)

// WithTracer sets the diagnostic sink handed to the tokenizer, the parser
// and the evaluator.
func WithTracer(t Tracer) Option {
	return func(s *Session) {
		s.tracer = t
	}
}

// WithStore configures a custom store. The session closes it on Close.
func WithStore(st Store) Option {
	return func(s *Session) {
		s.store = st
	}
}

// WithSQLiteStore configures SQLite persistence at the given path. An open
// failure is reported by New.
func WithSQLiteStore(path string) Option {
	return func(s *Session) {
		st, err := store.NewSQLite(path)
		if err != nil {
			s.openErr = err
			return
		}
		s.store = st
	}
}

// WithMemoryStore configures an in-memory store (for testing).
func WithMemoryStore() Option {
	return func(s *Session) {
		s.store = store.NewMemory()
	}
}

// WithBuiltin registers or replaces a builtin function.
func WithBuiltin(name string, fn Builtin) Option {
	return func(s *Session) {
		s.builtins[name] = fn
	}
}

// WithHistory records every evaluated line in the store's journal.
func WithHistory(enabled bool) Option {
	return func(s *Session) {
		s.history = enabled
	}
}

// WithProgramMode makes Eval treat the leading word of each line as a
// function name.
func WithProgramMode() Option {
	return func(s *Session) {
		s.program = true
	}
}

// WithPrelude sets lines evaluated in order when the session starts.
func WithPrelude(lines ...string) Option {
	return func(s *Session) {
		s.prelude = append(s.prelude, lines...)
	}
}

// WithVar seeds a variable before the prelude runs. Stored variables with
// the same name take precedence.
func WithVar(name string, v Literal) Option {
	return func(s *Session) {
		s.seed[name] = v
	}
}

// Literal is a runtime value.
type Literal = value.Literal

// Builtin is the signature for builtin functions.
type Builtin = eval.Builtin

// Tracer receives diagnostic messages.
type Tracer = trace.Tracer

// Store interface for custom stores.
type Store = store.Store

// Error is the error type returned by every stage.
type Error = fault.Error

// Error kinds, usable with errors.Is.
var (
	ErrUntokenized       = fault.ErrUntokenized
	ErrUnexpected        = fault.ErrUnexpected
	ErrSyntax            = fault.ErrSyntax
	ErrInvalidSource     = fault.ErrInvalidSource
	ErrUndefinedVariable = fault.ErrUndefinedVariable
	ErrUndefinedFunction = fault.ErrUndefinedFunction
	ErrInvalidLVariable  = fault.ErrInvalidLVariable
	ErrInvalidRValue     = fault.ErrInvalidRValue
	ErrTypeMismatch      = fault.ErrTypeMismatch
	ErrZeroStack         = fault.ErrZeroStack
	ErrCalculation       = fault.ErrCalculation
)
