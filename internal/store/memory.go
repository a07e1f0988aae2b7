// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package store

import (
	"sync"
	"time"

	"nickandperla.net/calc/internal/value"
)

// Memory is an in-memory store for testing and for sessions without a
// database.
type Memory struct {
	mu       sync.RWMutex
	data     map[string]value.Literal
	versions map[string][]VersionEntry
	journal  []JournalEntry
	metadata map[string]string
	session  string
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data:     make(map[string]value.Literal),
		versions: make(map[string][]VersionEntry),
		metadata: make(map[string]string),
	}
}

// SetSession labels subsequent versions with the given session id.
func (m *Memory) SetSession(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = id
}

// Get retrieves a variable by name.
func (m *Memory) Get(name string) (value.Literal, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[name]
	if !ok {
		return value.Literal{}, false, nil
	}
	return v.Clone(), true, nil
}

// Put stores a variable by name. A new version is recorded only when the
// value changes.
func (m *Memory) Put(name string, v value.Literal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.data[name]; ok && old.Equal(v) {
		return nil
	}
	m.data[name] = v.Clone()
	m.versions[name] = append(m.versions[name], VersionEntry{
		Version: len(m.versions[name]) + 1,
		Value:   v.Clone(),
		Session: m.session,
		Ts:      time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// Delete removes a variable and its versions.
func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, name)
	delete(m.versions, name)
	return nil
}

// All returns a copy of every stored variable.
func (m *Memory) All() (map[string]value.Literal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]value.Literal, len(m.data))
	for k, v := range m.data {
		out[k] = v.Clone()
	}
	return out, nil
}

// GetHistory returns versions of name, newest-first.
func (m *Memory) GetHistory(name string, limit int) ([]VersionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vs := m.versions[name]
	var out []VersionEntry
	for i := len(vs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, vs[i])
	}
	return out, nil
}

// Append records an evaluated line.
func (m *Memory) Append(e JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.Ts == "" {
		e.Ts = time.Now().UTC().Format(time.RFC3339)
	}
	m.journal = append(m.journal, e)
	return nil
}

// Recent returns journal entries, newest-first.
func (m *Memory) Recent(limit int) ([]JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []JournalEntry
	for i := len(m.journal) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, m.journal[i])
	}
	return out, nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}

// GetMetadata retrieves a metadata value by key.
func (m *Memory) GetMetadata(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metadata[key], nil
}

// SetMetadata stores a metadata value by key.
func (m *Memory) SetMetadata(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[key] = value
	return nil
}
