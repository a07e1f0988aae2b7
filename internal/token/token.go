// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines calc token kinds and reserved symbols.
package token

import (
	"fmt"
	"strings"
)

// Kind represents a calc token kind.
type Kind int

const (
	EOF Kind = iota
	RESERVED
	IDENT
	NUM
	STRING
	FUNCCALL
	RETURN
)

// Reserved symbols. Each is lexed as a single-character RESERVED token.
const (
	Plus   = "+"
	Minus  = "-"
	Star   = "*"
	Slash  = "/"
	LParen = "("
	RParen = ")"
	Assign = "="
	Semi   = ";"
	Dollar = "$"
	DQuote = "\""
	SQuote = "'"
)

// KeywordReturn is the only keyword.
const KeywordReturn = "return"

const reservedChars = "+-*/()=;$\"'"

// identExcluded lists the characters that can never appear in a STRING token.
const identExcluded = "=+-*/!@#$%^&¥|`~.,:;'\"<>()[]{}"

// IsReserved returns true if the rune is a reserved symbol.
func IsReserved(r rune) bool {
	return strings.ContainsRune(reservedChars, r)
}

// IsExcluded returns true if the rune may not be part of an identifier or
// bare string token.
func IsExcluded(r rune) bool {
	return strings.ContainsRune(identExcluded, r)
}

// String returns the string representation of a token kind.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case RESERVED:
		return "RESERVED"
	case IDENT:
		return "IDENT"
	case NUM:
		return "NUM"
	case STRING:
		return "STRING"
	case FUNCCALL:
		return "FUNCCALL"
	case RETURN:
		return "RETURN"
	}
	return "UNKNOWN"
}

// Token is one lexical unit. Tokens are immutable once created.
type Token struct {
	Kind Kind
	Text string // symbol, identifier, string or function name
	Num  int32  // value of a NUM token
	Pos  int    // byte offset of the first character in the source
	End  int    // byte offset just past the last character
}

// String returns a debug form such as NUM(5) or RESERVED(+).
func (t Token) String() string {
	switch t.Kind {
	case EOF, RETURN:
		return t.Kind.String()
	case NUM:
		return fmt.Sprintf("NUM(%d)", t.Num)
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
}

// Lexeme returns the source form of the token.
func (t Token) Lexeme() string {
	switch t.Kind {
	case EOF:
		return ""
	case RETURN:
		return KeywordReturn
	case NUM:
		return fmt.Sprintf("%d", t.Num)
	}
	return t.Text
}

// Is returns true if the token is the given reserved symbol.
func (t Token) Is(symbol string) bool {
	return t.Kind == RESERVED && t.Text == symbol
}
