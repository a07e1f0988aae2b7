// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package calc

import (
	"fmt"

	"github.com/google/uuid"

	"nickandperla.net/calc/internal/ast"
	"nickandperla.net/calc/internal/eval"
	"nickandperla.net/calc/internal/fault"
	"nickandperla.net/calc/internal/parser"
	"nickandperla.net/calc/internal/scanner"
	"nickandperla.net/calc/internal/store"
	"nickandperla.net/calc/internal/token"
	"nickandperla.net/calc/internal/trace"
	"nickandperla.net/calc/internal/value"
)

// Token is a lexical unit with its source offset.
type Token = token.Token

// Program is a parsed line: its top-level statements in order.
type Program = ast.Program

// Var is a named variable in a session snapshot.
type Var struct {
	Name  string
	Value Literal
}

// Session is one interpreter session: an environment, an operand stack and
// an optional store. Sessions share no state and are not safe for
// concurrent use.
type Session struct {
	id        string
	evaluator *eval.Evaluator
	store     store.Store
	tracer    trace.Tracer
	builtins  map[string]eval.Builtin
	seed      map[string]value.Literal
	prelude   []string
	history   bool
	program   bool
	openErr   error
}

// New creates a session with the given options. Stored variables are
// loaded, then the prelude is evaluated.
func New(opts ...Option) (*Session, error) {
	s := &Session{
		id:       uuid.NewString(),
		tracer:   trace.Nop,
		builtins: make(map[string]eval.Builtin),
		seed:     make(map[string]value.Literal),
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.openErr != nil {
		return nil, fmt.Errorf("open store: %w", s.openErr)
	}
	if s.tracer == nil {
		s.tracer = trace.Nop
	}

	env := eval.NewEnvironment()
	for name, v := range s.seed {
		env.Set(name, v)
	}

	// Build evaluator options
	evalOpts := []eval.Option{
		eval.WithEnvironment(env),
		eval.WithTracer(s.tracer),
	}
	if s.store != nil {
		if tagger, ok := s.store.(store.SessionTagger); ok {
			tagger.SetSession(s.id)
		}
		saved, err := s.store.All()
		if err != nil {
			s.store.Close()
			return nil, fmt.Errorf("load variables: %w", err)
		}
		for name, v := range saved {
			env.Set(name, v)
		}
		trace.Printf(s.tracer, "session: loaded %d variable(s)", len(saved))
		evalOpts = append(evalOpts, eval.WithStore(s.store))
	}
	for name, fn := range s.builtins {
		evalOpts = append(evalOpts, eval.WithBuiltin(name, fn))
	}

	s.evaluator = eval.New(evalOpts...)

	if err := s.runPrelude(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// ID returns the session's unique id. Stored versions and journal entries
// carry it.
func (s *Session) ID() string {
	return s.id
}

// Eval evaluates one line and returns the value of its last statement.
func (s *Session) Eval(line string) (Literal, error) {
	if s.program {
		return s.Run(line)
	}
	v, err := s.evaluator.Eval(line)
	s.record(line, v, err)
	return v, err
}

// Run evaluates one line in program mode, where the leading word names a
// function.
func (s *Session) Run(line string) (Literal, error) {
	v, err := s.evaluator.EvalProgram(line)
	s.record(line, v, err)
	return v, err
}

// Tokenize returns the tokens of line without evaluating it.
func (s *Session) Tokenize(line string) ([]Token, error) {
	return scanner.New(line, scanner.WithMode(s.mode()), scanner.WithTracer(s.tracer)).Tokenize()
}

// Parse returns the syntax tree of line without evaluating it.
func (s *Session) Parse(line string) (Program, error) {
	tokens, err := s.Tokenize(line)
	if err != nil {
		return nil, err
	}
	return parser.Build(tokens, s.tracer)
}

// Vars returns a snapshot of the environment sorted by name.
func (s *Session) Vars() []Var {
	env := s.evaluator.Env()
	names := env.Names()
	vars := make([]Var, 0, len(names))
	for _, name := range names {
		v, _ := env.Get(name)
		vars = append(vars, Var{Name: name, Value: v})
	}
	return vars
}

// Unset removes a variable from the session and from the store, along with
// its stored versions. It reports whether the variable was defined.
func (s *Session) Unset(name string) (bool, error) {
	ok := s.evaluator.Env().Delete(name)
	if s.store != nil {
		if err := s.store.Delete(name); err != nil {
			return ok, err
		}
	}
	return ok, nil
}

// History returns stored versions of a variable, newest-first. It returns
// nil when the store keeps no versions.
func (s *Session) History(name string, limit int) ([]store.VersionEntry, error) {
	hs, ok := s.store.(store.HistoryStore)
	if !ok {
		return nil, nil
	}
	return hs.GetHistory(name, limit)
}

// Journal returns recently evaluated lines, newest-first. It returns nil
// when the store keeps no journal.
func (s *Session) Journal(limit int) ([]store.JournalEntry, error) {
	j, ok := s.store.(store.Journal)
	if !ok {
		return nil, nil
	}
	return j.Recent(limit)
}

// Close releases resources.
func (s *Session) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func (s *Session) mode() scanner.Mode {
	if s.program {
		return scanner.ProgramMode
	}
	return scanner.ExprMode
}

// record appends line to the journal when history is enabled. Journal
// failures are traced, not returned: the line has already been evaluated.
func (s *Session) record(line string, v Literal, err error) {
	if !s.history {
		return
	}
	j, ok := s.store.(store.Journal)
	if !ok {
		return
	}
	entry := store.JournalEntry{Session: s.id, Input: line}
	if err != nil {
		entry.Error = fault.KindOf(err).String()
	} else {
		entry.Result = v.String()
	}
	if jerr := j.Append(entry); jerr != nil {
		trace.Printf(s.tracer, "session: journal: %v", jerr)
	}
}
