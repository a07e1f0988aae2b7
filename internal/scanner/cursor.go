// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package scanner

import (
	"nickandperla.net/calc/internal/fault"
	"nickandperla.net/calc/internal/token"
)

// Cursor walks a token sequence. It never moves past the EOF token.
type Cursor struct {
	tokens []token.Token
	i      int
}

// NewCursor creates a cursor over tokens. A missing EOF terminator is added.
func NewCursor(tokens []token.Token) *Cursor {
	if n := len(tokens); n == 0 || tokens[n-1].Kind != token.EOF {
		end := 0
		if n > 0 {
			end = tokens[n-1].End
		}
		tokens = append(tokens[:n:n], token.Token{Kind: token.EOF, Pos: end, End: end})
	}
	return &Cursor{tokens: tokens}
}

// Peek returns the current token.
func (c *Cursor) Peek() token.Token {
	return c.tokens[c.i]
}

// Next returns the current token and advances.
func (c *Cursor) Next() token.Token {
	t := c.tokens[c.i]
	if t.Kind != token.EOF {
		c.i++
	}
	return t
}

// Pos returns the source offset of the current token.
func (c *Cursor) Pos() int {
	return c.tokens[c.i].Pos
}

// AtEOF returns true if every token has been consumed.
func (c *Cursor) AtEOF() bool {
	return c.tokens[c.i].Kind == token.EOF
}

// Consume advances if the current token is the reserved symbol op.
func (c *Cursor) Consume(op string) bool {
	if !c.Peek().Is(op) {
		return false
	}
	c.i++
	return true
}

// Expect advances past the reserved symbol op or reports what was found.
func (c *Cursor) Expect(op string) error {
	if c.Consume(op) {
		return nil
	}
	t := c.Peek()
	if t.Kind == token.EOF {
		return fault.New(fault.Unexpected, t.Pos, "expected %q, found end of input", op)
	}
	return fault.New(fault.Unexpected, t.Pos, "expected %q, found %q", op, t.Lexeme())
}

// ExpectNumber returns the value of a NUM token and advances.
func (c *Cursor) ExpectNumber() (int32, error) {
	t := c.Peek()
	if t.Kind != token.NUM {
		if t.Kind == token.EOF {
			return 0, fault.New(fault.Unexpected, t.Pos, "not a number: end of input")
		}
		return 0, fault.New(fault.Unexpected, t.Pos, "not a number: %q", t.Lexeme())
	}
	c.i++
	return t.Num, nil
}

// ConsumeIdent returns the name of an IDENT token and advances.
func (c *Cursor) ConsumeIdent() (string, bool) {
	return c.consumeKind(token.IDENT)
}

// ConsumeString returns the text of a STRING token and advances.
func (c *Cursor) ConsumeString() (string, bool) {
	return c.consumeKind(token.STRING)
}

// ConsumeFuncCall returns the name of a FUNCCALL token and advances.
func (c *Cursor) ConsumeFuncCall() (string, bool) {
	return c.consumeKind(token.FUNCCALL)
}

// ConsumeReturn advances past a RETURN token.
func (c *Cursor) ConsumeReturn() bool {
	if c.Peek().Kind != token.RETURN {
		return false
	}
	c.i++
	return true
}

func (c *Cursor) consumeKind(k token.Kind) (string, bool) {
	t := c.Peek()
	if t.Kind != k {
		return "", false
	}
	c.i++
	return t.Text, true
}
