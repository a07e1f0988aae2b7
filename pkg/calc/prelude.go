// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package calc

import (
	"fmt"
	"strings"
)

// runPrelude evaluates the prelude lines in expression mode, whatever the
// session's mode. Blank lines and lines starting with # are skipped.
func (s *Session) runPrelude() error {
	for i, line := range s.prelude {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if _, err := s.evaluator.Eval(line); err != nil {
			return fmt.Errorf("prelude line %d: %w", i+1, err)
		}
	}
	return nil
}
