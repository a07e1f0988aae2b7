// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner turns a line of calc source into a token sequence.
package scanner

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"nickandperla.net/calc/internal/fault"
	"nickandperla.net/calc/internal/token"
	"nickandperla.net/calc/internal/trace"
)

// Mode selects how the start of the input is lexed.
type Mode int

const (
	// ProgramMode lexes the first whitespace-delimited word as a FUNCCALL.
	ProgramMode Mode = iota
	// ExprMode lexes the whole input as statements.
	ExprMode
)

// Scanner tokenizes calc source.
type Scanner struct {
	src    string
	pos    int
	mode   Mode
	tracer trace.Tracer
	tokens []token.Token
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithMode sets the lexing mode. ProgramMode is the default.
func WithMode(m Mode) Option {
	return func(s *Scanner) { s.mode = m }
}

// WithTracer sets the diagnostic sink.
func WithTracer(t trace.Tracer) Option {
	return func(s *Scanner) { s.tracer = t }
}

// New creates a new Scanner over src.
func New(src string, opts ...Option) *Scanner {
	s := &Scanner{src: src, tracer: trace.Nop}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tokenize lexes src in program mode.
func Tokenize(src string, t trace.Tracer) ([]token.Token, error) {
	return New(src, WithTracer(t)).Tokenize()
}

// TokenizeExpr lexes src in expression mode.
func TokenizeExpr(src string, t trace.Tracer) ([]token.Token, error) {
	return New(src, WithMode(ExprMode), WithTracer(t)).Tokenize()
}

// Tokenize scans the whole input and returns the tokens, always terminated
// by an EOF token. The first character no rule matches aborts the scan.
func (s *Scanner) Tokenize() ([]token.Token, error) {
	s.pos = 0
	s.tokens = s.tokens[:0]
	trace.Printf(s.tracer, "token: input %q", s.src)

	if s.mode == ProgramMode {
		s.skipSpace()
		if s.pos < len(s.src) {
			start := s.pos
			s.advanceWhile(func(r rune) bool { return !unicode.IsSpace(r) })
			s.emit(token.Token{Kind: token.FUNCCALL, Text: s.src[start:s.pos], Pos: start, End: s.pos})
		}
	}

	for {
		s.skipSpace()
		if s.pos >= len(s.src) {
			break
		}
		if err := s.next(); err != nil {
			trace.Printf(s.tracer, "token: %v", err)
			return nil, err
		}
	}

	s.emit(token.Token{Kind: token.EOF, Pos: len(s.src), End: len(s.src)})
	out := make([]token.Token, len(s.tokens))
	copy(out, s.tokens)
	return out, nil
}

// next lexes exactly one token starting at s.pos.
func (s *Scanner) next() error {
	start := s.pos
	r, size := utf8.DecodeRuneInString(s.src[s.pos:])

	if word := s.peekAlnum(); word == token.KeywordReturn {
		s.pos += len(word)
		s.emit(token.Token{Kind: token.RETURN, Text: word, Pos: start, End: s.pos})
		return nil
	}

	if token.IsReserved(r) {
		s.pos += size
		s.emit(token.Token{Kind: token.RESERVED, Text: string(r), Pos: start, End: s.pos})
		if r == '"' || r == '\'' {
			s.quoted(r)
		}
		return nil
	}

	if isASCIIDigit(r) {
		s.advanceWhile(isASCIIDigit)
		text := s.src[start:s.pos]
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return fault.New(fault.Untokenized, start, "integer literal %s out of range", text)
		}
		s.emit(token.Token{Kind: token.NUM, Num: int32(n), Text: text, Pos: start, End: s.pos})
		return nil
	}

	if word := s.peekAlnum(); word != "" {
		if cut := strings.IndexFunc(word, token.IsExcluded); cut >= 0 {
			word = word[:cut]
		}
		if word != "" {
			s.pos += len(word)
			s.emit(token.Token{Kind: s.wordKind(r), Text: word, Pos: start, End: s.pos})
			return nil
		}
	}

	return fault.New(fault.Untokenized, start, "cannot tokenize %q", r)
}

// wordKind decides how a bare word is classified from the tokens before it:
// a word after "$" names a variable, a letter-initial word after "$(" names
// a function.
func (s *Scanner) wordKind(first rune) token.Kind {
	n := len(s.tokens)
	if n >= 1 && s.tokens[n-1].Is(token.Dollar) {
		return token.IDENT
	}
	if n >= 2 && s.tokens[n-1].Is(token.LParen) && s.tokens[n-2].Is(token.Dollar) && unicode.IsLetter(first) {
		return token.FUNCCALL
	}
	return token.STRING
}

// quoted captures the raw text after an opening quote up to the matching
// closing quote. The closing quote is emitted as its own RESERVED token; an
// unterminated quote leaves the parser to report the missing delimiter.
func (s *Scanner) quoted(q rune) {
	start := s.pos
	end := strings.IndexRune(s.src[start:], q)
	if end < 0 {
		s.pos = len(s.src)
		if s.pos > start {
			s.emit(token.Token{Kind: token.STRING, Text: s.src[start:], Pos: start, End: s.pos})
		}
		return
	}
	if end > 0 {
		s.emit(token.Token{Kind: token.STRING, Text: s.src[start : start+end], Pos: start, End: start + end})
	}
	s.pos = start + end + utf8.RuneLen(q)
	s.emit(token.Token{Kind: token.RESERVED, Text: string(q), Pos: start + end, End: s.pos})
}

func (s *Scanner) emit(t token.Token) {
	trace.Printf(s.tracer, "token: %s", t)
	s.tokens = append(s.tokens, t)
}

func (s *Scanner) skipSpace() {
	s.advanceWhile(unicode.IsSpace)
}

func (s *Scanner) advanceWhile(pred func(rune) bool) {
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !pred(r) {
			return
		}
		s.pos += size
	}
}

// peekAlnum returns the run of letters and digits at s.pos without
// consuming it.
func (s *Scanner) peekAlnum() string {
	end := s.pos
	for end < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[end:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		end += size
	}
	return s.src[s.pos:end]
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
