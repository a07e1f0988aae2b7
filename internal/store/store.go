// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package store provides persistence for calc variables and for the log of
// evaluated lines.
package store

import "nickandperla.net/calc/internal/value"

// Store is the interface for variable persistence.
type Store interface {
	// Get retrieves a variable by name. ok is false if it was never stored.
	Get(name string) (v value.Literal, ok bool, err error)
	// Put stores a variable by name, overwriting if it exists.
	Put(name string, v value.Literal) error
	// Delete removes a variable and its versions.
	Delete(name string) error
	// All returns every stored variable.
	All() (map[string]value.Literal, error)
	// Close releases resources.
	Close() error
}

// VersionEntry represents a single version of a stored variable.
type VersionEntry struct {
	Version int
	Value   value.Literal
	Session string
	Ts      string
}

// HistoryStore extends Store with version history queries.
type HistoryStore interface {
	// GetHistory returns versions newest-first. limit <= 0 returns all.
	GetHistory(name string, limit int) ([]VersionEntry, error)
}

// JournalEntry records one evaluated line.
type JournalEntry struct {
	Session string
	Input   string
	Result  string // display form of the result, empty on error
	Error   string // error kind, empty on success
	Ts      string
}

// Journal records evaluated lines.
type Journal interface {
	Append(e JournalEntry) error
	// Recent returns the newest entries, newest-first. limit <= 0 returns all.
	Recent(limit int) ([]JournalEntry, error)
}

// SessionTagger is implemented by stores that label versions with the
// session that wrote them.
type SessionTagger interface {
	SetSession(id string)
}
