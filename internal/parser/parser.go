// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package parser builds calc syntax trees by recursive descent.
//
// Grammar, loosest binding first:
//
//	program := func stmt*
//	func    := FUNCCALL stmt? | stmt
//	stmt    := RETURN expr | FUNCCALL stmt? | expr ';'*
//	expr    := assign
//	assign  := add ('=' assign)?
//	add     := mul (('+'|'-') mul)*
//	mul     := unary (('*'|'/') unary)*
//	unary   := ('+'|'-')? primary
//	primary := '(' expr ')' | '$' '(' stmt ')' | '$' IDENT
//	         | '"' STRING? '"' | "'" STRING? "'" | STRING | NUM
//
// A statement that is not followed by ';' must end the input or the
// enclosing "$(...)".
package parser

import (
	"nickandperla.net/calc/internal/ast"
	"nickandperla.net/calc/internal/fault"
	"nickandperla.net/calc/internal/scanner"
	"nickandperla.net/calc/internal/token"
	"nickandperla.net/calc/internal/trace"
)

// Parser consumes tokens from a cursor.
type Parser struct {
	cur    *scanner.Cursor
	tracer trace.Tracer
}

// New creates a parser reading from cur.
func New(cur *scanner.Cursor, t trace.Tracer) *Parser {
	if t == nil {
		t = trace.Nop
	}
	return &Parser{cur: cur, tracer: t}
}

// Build parses a token sequence into a program.
func Build(tokens []token.Token, t trace.Tracer) (ast.Program, error) {
	return New(scanner.NewCursor(tokens), t).Build()
}

// Build parses the whole token sequence. The first error aborts the parse.
func (p *Parser) Build() (ast.Program, error) {
	if p.cur.AtEOF() {
		return nil, fault.New(fault.InvalidSource, p.cur.Pos(), "empty program")
	}

	var prog ast.Program
	for !p.cur.AtEOF() {
		node, err := p.stmt()
		if err != nil {
			trace.Printf(p.tracer, "ast: %v", err)
			return nil, err
		}
		trace.Printf(p.tracer, "ast: %s", node)
		prog = append(prog, node)
	}
	return prog, nil
}

func (p *Parser) stmt() (*ast.Node, error) {
	pos := p.cur.Pos()

	if p.cur.ConsumeReturn() {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		return ast.NewReturn(e, pos), p.terminator()
	}

	if name, ok := p.cur.ConsumeFuncCall(); ok {
		if !p.argumentFollows() {
			return ast.NewFunc(name, nil, pos), p.terminator()
		}
		arg, err := p.stmt()
		if err != nil {
			return nil, err
		}
		return ast.NewFunc(name, arg, pos), nil
	}

	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	return e, p.terminator()
}

// argumentFollows reports whether a call word is followed by an argument.
func (p *Parser) argumentFollows() bool {
	t := p.cur.Peek()
	return t.Kind != token.EOF && !t.Is(token.Semi) && !t.Is(token.RParen)
}

// terminator consumes a run of ';'. With none present the statement must
// be the last one in its scope.
func (p *Parser) terminator() error {
	n := 0
	for p.cur.Consume(token.Semi) {
		n++
	}
	if n > 0 || p.cur.AtEOF() || p.cur.Peek().Is(token.RParen) {
		return nil
	}
	return fault.New(fault.Unexpected, p.cur.Pos(), "expected ';' or end of input, found %q", p.cur.Peek().Lexeme())
}

func (p *Parser) expr() (*ast.Node, error) {
	return p.assign()
}

func (p *Parser) assign() (*ast.Node, error) {
	lhs, err := p.add()
	if err != nil {
		return nil, err
	}

	pos := p.cur.Pos()
	if !p.cur.Consume(token.Assign) {
		return lhs, nil
	}
	if t := p.cur.Peek(); t.Kind == token.EOF || t.Is(token.Semi) || t.Is(token.RParen) {
		return nil, fault.New(fault.InvalidRValue, t.Pos, "missing right-hand side of assignment")
	}
	rhs, err := p.assign()
	if err != nil {
		return nil, err
	}
	return ast.NewBinary(ast.Assign, lhs, rhs, pos), nil
}

func (p *Parser) add() (*ast.Node, error) {
	node, err := p.mul()
	if err != nil {
		return nil, err
	}

	for {
		pos := p.cur.Pos()
		var kind ast.Kind
		switch {
		case p.cur.Consume(token.Plus):
			kind = ast.Add
		case p.cur.Consume(token.Minus):
			kind = ast.Sub
		default:
			return node, nil
		}
		rhs, err := p.mul()
		if err != nil {
			return nil, err
		}
		node = ast.NewBinary(kind, node, rhs, pos)
	}
}

func (p *Parser) mul() (*ast.Node, error) {
	node, err := p.unary()
	if err != nil {
		return nil, err
	}

	for {
		pos := p.cur.Pos()
		var kind ast.Kind
		switch {
		case p.cur.Consume(token.Star):
			kind = ast.Mul
		case p.cur.Consume(token.Slash):
			kind = ast.Div
		default:
			return node, nil
		}
		rhs, err := p.unary()
		if err != nil {
			return nil, err
		}
		node = ast.NewBinary(kind, node, rhs, pos)
	}
}

// unary rewrites -x as (0 - x).
func (p *Parser) unary() (*ast.Node, error) {
	pos := p.cur.Pos()
	if p.cur.Consume(token.Plus) {
		return p.primary()
	}
	if p.cur.Consume(token.Minus) {
		x, err := p.primary()
		if err != nil {
			return nil, err
		}
		return ast.NewBinary(ast.Sub, ast.NewNum(0, pos), x, pos), nil
	}
	return p.primary()
}

func (p *Parser) primary() (*ast.Node, error) {
	pos := p.cur.Pos()

	switch {
	case p.cur.Consume(token.LParen):
		node, err := p.expr()
		if err != nil {
			return nil, &fault.Error{Kind: fault.SyntaxError, Pos: pos, Msg: "malformed parenthesized expression", Err: err}
		}
		if err := p.cur.Expect(token.RParen); err != nil {
			return nil, &fault.Error{Kind: fault.SyntaxError, Pos: pos, Msg: "unmatched '('", Err: err}
		}
		return node, nil

	case p.cur.Consume(token.Dollar):
		if p.cur.Consume(token.LParen) {
			node, err := p.stmt()
			if err != nil {
				return nil, err
			}
			if err := p.cur.Expect(token.RParen); err != nil {
				return nil, &fault.Error{Kind: fault.SyntaxError, Pos: pos, Msg: "unmatched '$('", Err: err}
			}
			return node, nil
		}
		if name, ok := p.cur.ConsumeIdent(); ok {
			return ast.NewVariable(name, pos), nil
		}
		return nil, fault.New(fault.Unexpected, p.cur.Pos(), "expected variable name after '$'")

	case p.cur.Consume(token.DQuote):
		return p.quoted(token.DQuote, pos)

	case p.cur.Consume(token.SQuote):
		return p.quoted(token.SQuote, pos)
	}

	if s, ok := p.cur.ConsumeString(); ok {
		return ast.NewString(s, pos), nil
	}

	n, err := p.cur.ExpectNumber()
	if err != nil {
		return nil, err
	}
	return ast.NewNum(n, pos), nil
}

func (p *Parser) quoted(q string, pos int) (*ast.Node, error) {
	s, _ := p.cur.ConsumeString()
	if !p.cur.Consume(q) {
		return nil, fault.New(fault.SyntaxError, pos, "unterminated string")
	}
	return ast.NewString(s, pos), nil
}
