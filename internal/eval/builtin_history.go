// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"strings"

	"nickandperla.net/calc/internal/fault"
	"nickandperla.net/calc/internal/store"
	"nickandperla.net/calc/internal/value"
)

// builtinHistory returns the stored versions of a variable as a vector,
// newest first. Without a versioning store the vector is empty.
func builtinHistory(e *Evaluator, args []value.Literal) (value.Literal, error) {
	arg, err := requireArg("history", args)
	if err != nil {
		return value.Literal{}, err
	}
	name, ok := arg.AsStr()
	if !ok {
		return value.Literal{}, fault.Newf(fault.TypeMismatch, "history expects a variable name, got %s", arg.Kind())
	}
	name = strings.TrimPrefix(strings.TrimSpace(name), "$")

	hs := historyStore(e)
	if hs == nil {
		return value.Vector(), nil
	}

	entries, err := hs.GetHistory(name, e.historyLimit)
	if err != nil {
		return value.Literal{}, fault.Wrap(fault.Unknown, err, "history of $%s", name)
	}
	elems := make([]value.Literal, len(entries))
	for i, ve := range entries {
		elems[i] = ve.Value
	}
	return value.Vector(elems...), nil
}

// historyStore type-asserts the evaluator's store to HistoryStore.
func historyStore(e *Evaluator) store.HistoryStore {
	if e.store == nil {
		return nil
	}
	hs, _ := e.store.(store.HistoryStore)
	return hs
}
