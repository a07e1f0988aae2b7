// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package store

import (
	"database/sql"
	"fmt"
	"sync"

	"nickandperla.net/calc/internal/value"
)

// Current schema version
const SchemaVersion = "2"

// SQLite is a SQLite-backed store.
type SQLite struct {
	mu      sync.Mutex
	db      *sql.DB
	session string
}

// NewSQLite creates a new SQLite store at the given path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS variables (
			name TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			data TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db}

	// Unlocked helpers: nothing else can reach s yet.
	version, err := s.getMetadataUnlocked("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}

	if version == "" || version == "1" {
		if err := s.migrateToV2(); err != nil {
			db.Close()
			return nil, err
		}
		if err := s.setMetadataUnlocked("schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	} else if version != SchemaVersion {
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}

	return s, nil
}

// migrateToV2 adds variable versions and the evaluation journal.
func (s *SQLite) migrateToV2() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS variable_versions (
			name TEXT NOT NULL,
			version INTEGER NOT NULL,
			kind TEXT NOT NULL,
			data TEXT NOT NULL,
			session TEXT NOT NULL DEFAULT '',
			ts TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			PRIMARY KEY (name, version)
		);
		CREATE TABLE IF NOT EXISTS journal (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			session TEXT NOT NULL,
			input TEXT NOT NULL,
			result TEXT NOT NULL DEFAULT '',
			error TEXT NOT NULL DEFAULT '',
			ts TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		);
	`)
	if err != nil {
		return err
	}
	// Seed version 1 for variables written before versioning existed.
	_, err = s.db.Exec(`
		INSERT OR IGNORE INTO variable_versions (name, version, kind, data)
		SELECT name, 1, kind, data FROM variables
	`)
	return err
}

// SetSession labels subsequent versions with the given session id.
func (s *SQLite) SetSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = id
}

// Get retrieves a variable by name.
func (s *SQLite) Get(name string) (value.Literal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kind, data string
	err := s.db.QueryRow("SELECT kind, data FROM variables WHERE name = ?", name).Scan(&kind, &data)
	if err == sql.ErrNoRows {
		return value.Literal{}, false, nil
	}
	if err != nil {
		return value.Literal{}, false, err
	}
	v, err := decode(kind, data)
	if err != nil {
		return value.Literal{}, false, fmt.Errorf("variable %s: %w", name, err)
	}
	return v, true, nil
}

// Put stores a variable by name. A new version is recorded only when the
// stored form changes.
func (s *SQLite) Put(name string, v value.Literal) error {
	kind, data, err := encode(v)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var oldKind, oldData string
	err = tx.QueryRow("SELECT kind, data FROM variables WHERE name = ?", name).Scan(&oldKind, &oldData)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return err
	case oldKind == kind && oldData == data:
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO variables (name, kind, data) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET kind = excluded.kind, data = excluded.data
	`, name, kind, data); err != nil {
		return err
	}

	var next int
	if err := tx.QueryRow("SELECT COALESCE(MAX(version), 0) + 1 FROM variable_versions WHERE name = ?", name).Scan(&next); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO variable_versions (name, version, kind, data, session) VALUES (?, ?, ?, ?, ?)
	`, name, next, kind, data, s.session); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a variable and its versions.
func (s *SQLite) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM variables WHERE name = ?", name); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM variable_versions WHERE name = ?", name)
	return err
}

// All returns every stored variable.
func (s *SQLite) All() (map[string]value.Literal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT name, kind, data FROM variables")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]value.Literal)
	for rows.Next() {
		var name, kind, data string
		if err := rows.Scan(&name, &kind, &data); err != nil {
			return nil, err
		}
		v, err := decode(kind, data)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", name, err)
		}
		out[name] = v
	}
	return out, rows.Err()
}

// GetHistory returns versions of name, newest-first.
func (s *SQLite) GetHistory(name string, limit int) ([]VersionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT version, kind, data, session, ts FROM variable_versions
		WHERE name = ? ORDER BY version DESC LIMIT ?
	`, name, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []VersionEntry
	for rows.Next() {
		var e VersionEntry
		var kind, data string
		if err := rows.Scan(&e.Version, &kind, &data, &e.Session, &e.Ts); err != nil {
			return nil, err
		}
		if e.Value, err = decode(kind, data); err != nil {
			return nil, fmt.Errorf("variable %s version %d: %w", name, e.Version, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Append records an evaluated line.
func (s *SQLite) Append(e JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Ts == "" {
		_, err := s.db.Exec(`
			INSERT INTO journal (session, input, result, error) VALUES (?, ?, ?, ?)
		`, e.Session, e.Input, e.Result, e.Error)
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO journal (session, input, result, error, ts) VALUES (?, ?, ?, ?, ?)
	`, e.Session, e.Input, e.Result, e.Error, e.Ts)
	return err
}

// Recent returns journal entries, newest-first.
func (s *SQLite) Recent(limit int) ([]JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT session, input, result, error, ts FROM journal
		ORDER BY seq DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JournalEntry
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.Session, &e.Input, &e.Result, &e.Error, &e.Ts); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetMetadata retrieves a metadata value by key.
func (s *SQLite) GetMetadata(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getMetadataUnlocked(key)
}

// getMetadataUnlocked retrieves metadata without locking (caller must hold lock).
func (s *SQLite) getMetadataUnlocked(key string) (string, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// SetMetadata stores a metadata value by key.
func (s *SQLite) SetMetadata(key, v string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setMetadataUnlocked(key, v)
}

// setMetadataUnlocked stores metadata without locking (caller must hold lock).
func (s *SQLite) setMetadataUnlocked(key, v string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, v)
	return err
}
