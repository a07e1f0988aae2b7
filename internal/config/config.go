// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package config loads the calc CLI configuration file.
//
// A calc.yaml looks like:
//
//	db: ~/.calc.db
//	trace: false
//	color: auto      # auto, always or never
//	program: false   # treat the leading word of each line as a function
//	history: true
//	prelude:
//	  - $rate = 7
//	vars:
//	  limit: 100
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"nickandperla.net/calc/internal/token"
)

// FileName is the configuration file searched for by FindConfig.
const FileName = "calc.yaml"

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the calc.yaml configuration.
type Config struct {
	// DB is the SQLite database path. Empty keeps variables in memory.
	DB string `yaml:"db,omitempty"`

	Trace   bool   `yaml:"trace,omitempty"`
	Color   string `yaml:"color,omitempty"`
	Program bool   `yaml:"program,omitempty"`

	// History records every evaluated line in the store's journal.
	History bool `yaml:"history,omitempty"`

	// Prelude lines are evaluated in order when a session starts.
	Prelude []string `yaml:"prelude,omitempty"`

	// Vars seeds integer variables before the prelude runs.
	Vars map[string]int32 `yaml:"vars,omitempty"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{Color: ColorAuto}
}

// LoadConfig reads and parses a calc.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses calc.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return cfg, nil
}

// FindConfig searches for calc.yaml starting from dir and walking up to
// parent directories. It returns "" and a nil error if none is found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		candidate = filepath.Join(dir, "calc.yml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// VarNames returns the seeded variable names in sorted order.
func (c *Config) VarNames() []string {
	names := make([]string, 0, len(c.Vars))
	for name := range c.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Config) validate(path string) error {
	switch c.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%s: color must be %s, %s or %s, got %q", path, ColorAuto, ColorAlways, ColorNever, c.Color)
	}
	for _, name := range c.VarNames() {
		if !validName(name) {
			return fmt.Errorf("%s: vars: invalid variable name %q", path, name)
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Color == "" {
		c.Color = ColorAuto
	}
	if strings.HasPrefix(c.DB, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			c.DB = filepath.Join(home, c.DB[2:])
		}
	}
}

// validName reports whether name can be written as $name in a program:
// letters and digits, not starting with a digit.
func validName(name string) bool {
	if name == "" || name == token.KeywordReturn {
		return false
	}
	for i, r := range name {
		if token.IsExcluded(r) || !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
		if i == 0 && unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
