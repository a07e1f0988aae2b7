// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval implements the calc tree-walking stack machine.
package eval

import (
	"sort"

	"nickandperla.net/calc/internal/value"
)

// Environment maps variable names to their last assigned value. Entries
// are only removed by an explicit Delete.
type Environment struct {
	vars map[string]value.Literal
}

// NewEnvironment creates a new empty environment.
func NewEnvironment() *Environment {
	return &Environment{
		vars: make(map[string]value.Literal),
	}
}

// Get retrieves a variable by name.
func (n *Environment) Get(name string) (value.Literal, bool) {
	v, ok := n.vars[name]
	if !ok {
		return value.Literal{}, false
	}
	return v.Clone(), true
}

// Set stores a variable, overwriting any previous value.
func (n *Environment) Set(name string, v value.Literal) {
	n.vars[name] = v.Clone()
}

// Has returns true if the name has been assigned.
func (n *Environment) Has(name string) bool {
	_, ok := n.vars[name]
	return ok
}

// Len returns the number of variables.
func (n *Environment) Len() int {
	return len(n.vars)
}

// Names returns the variable names in sorted order.
func (n *Environment) Names() []string {
	names := make([]string, 0, len(n.vars))
	for k := range n.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Delete removes a variable and reports whether it was defined.
func (n *Environment) Delete(name string) bool {
	if _, ok := n.vars[name]; !ok {
		return false
	}
	delete(n.vars, name)
	return true
}
