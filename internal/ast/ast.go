// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package ast defines calc syntax tree nodes.
package ast

import (
	"strconv"
	"strings"
)

// Kind is the node variant.
type Kind int

const (
	Add Kind = iota
	Sub
	Mul
	Div
	Assign
	Num
	String
	LocalVariable
	Func
	Return
)

func (k Kind) String() string {
	switch k {
	case Add:
		return "Add"
	case Sub:
		return "Sub"
	case Mul:
		return "Mul"
	case Div:
		return "Div"
	case Assign:
		return "Assign"
	case Num:
		return "Num"
	case String:
		return "String"
	case LocalVariable:
		return "LocalVariable"
	case Func:
		return "Func"
	case Return:
		return "Return"
	}
	return "Unknown"
}

// IsBinary returns true for the arithmetic operators.
func (k Kind) IsBinary() bool {
	switch k {
	case Add, Sub, Mul, Div:
		return true
	}
	return false
}

// Symbol returns the operator character of an arithmetic kind.
func (k Kind) Symbol() string {
	switch k {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	}
	return ""
}

// Node is one tree node. Children are owned by their parent; arity is
// implied by Kind and checked by the evaluator, not here.
type Node struct {
	Kind     Kind
	Num      int32  // Num
	Name     string // LocalVariable, Func
	Str      string // String
	Pos      int    // source offset of the token that produced the node
	Children []*Node
}

// NewBinary creates an operator or assignment node.
func NewBinary(k Kind, lhs, rhs *Node, pos int) *Node {
	return &Node{Kind: k, Pos: pos, Children: []*Node{lhs, rhs}}
}

// NewNum creates an integer leaf.
func NewNum(n int32, pos int) *Node {
	return &Node{Kind: Num, Num: n, Pos: pos}
}

// NewString creates a string leaf.
func NewString(s string, pos int) *Node {
	return &Node{Kind: String, Str: s, Pos: pos}
}

// NewVariable creates a variable reference.
func NewVariable(name string, pos int) *Node {
	return &Node{Kind: LocalVariable, Name: name, Pos: pos}
}

// NewFunc creates a call node with an optional argument.
func NewFunc(name string, arg *Node, pos int) *Node {
	n := &Node{Kind: Func, Name: name, Pos: pos}
	if arg != nil {
		n.Children = []*Node{arg}
	}
	return n
}

// NewReturn creates a return node.
func NewReturn(child *Node, pos int) *Node {
	return &Node{Kind: Return, Pos: pos, Children: []*Node{child}}
}

// String returns an S-expression dump, e.g. (+ 5 (* 6 7)).
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("<nil>")
		return
	}
	switch n.Kind {
	case Num:
		sb.WriteString(strconv.FormatInt(int64(n.Num), 10))
		return
	case String:
		sb.WriteString(strconv.Quote(n.Str))
		return
	case LocalVariable:
		sb.WriteString("$" + n.Name)
		return
	}

	sb.WriteByte('(')
	switch n.Kind {
	case Assign:
		sb.WriteByte('=')
	case Func:
		sb.WriteString("call " + n.Name)
	case Return:
		sb.WriteString("return")
	default:
		sb.WriteString(n.Kind.Symbol())
	}
	for _, c := range n.Children {
		sb.WriteByte(' ')
		c.write(sb)
	}
	sb.WriteByte(')')
}

// Equal reports structural equality, ignoring source offsets.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind || n.Num != o.Num || n.Name != o.Name || n.Str != o.Str {
		return false
	}
	if len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Program is the parsed form of one input line.
type Program []*Node

// String joins the top-level nodes with "; ".
func (p Program) String() string {
	parts := make([]string, len(p))
	for i, n := range p {
		parts[i] = n.String()
	}
	return strings.Join(parts, "; ")
}

// Equal reports structural equality of two programs.
func (p Program) Equal(o Program) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if !p[i].Equal(o[i]) {
			return false
		}
	}
	return true
}
