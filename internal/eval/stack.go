// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"github.com/edwingeng/deque"

	"nickandperla.net/calc/internal/value"
)

// Stack is the LIFO operand stack. Only the back of the deque is used.
type Stack struct {
	dq deque.Deque
}

// NewStack creates an empty operand stack.
func NewStack() *Stack {
	return &Stack{dq: deque.NewDeque()}
}

// Push places v on top of the stack.
func (s *Stack) Push(v value.Literal) {
	s.dq.PushBack(v)
}

// Pop removes and returns the top value.
func (s *Stack) Pop() (value.Literal, bool) {
	if s.dq.Empty() {
		return value.Literal{}, false
	}
	v := s.dq.Back().(value.Literal)
	s.dq.PopBack()
	return v, true
}

// Top returns the top value without removing it.
func (s *Stack) Top() (value.Literal, bool) {
	if s.dq.Empty() {
		return value.Literal{}, false
	}
	return s.dq.Back().(value.Literal), true
}

// Len returns the number of values on the stack.
func (s *Stack) Len() int {
	return s.dq.Len()
}

// Reset empties the stack.
func (s *Stack) Reset() {
	s.dq = deque.NewDeque()
}
