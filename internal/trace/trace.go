// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package trace provides the optional diagnostic sink used by the
// tokenizer, parser and evaluator.
package trace

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Tracer receives diagnostic messages. Implementations must not affect
// evaluation results.
type Tracer interface {
	Print(message string)
}

// Nop discards every message.
var Nop Tracer = nop{}

type nop struct{}

func (nop) Print(string) {}

// Func adapts a plain function to a Tracer.
type Func func(message string)

func (f Func) Print(message string) { f(message) }

// Printf formats a message and sends it to t. A nil tracer is allowed.
func Printf(t Tracer, format string, args ...any) {
	if t == nil || t == Nop {
		return
	}
	t.Print(fmt.Sprintf(format, args...))
}

// Writer writes one line per message, colouring the stage prefix
// ("token:", "ast:", "eval:") when colour is enabled.
type Writer struct {
	mu     sync.Mutex
	w      io.Writer
	prefix *color.Color
}

// NewWriter creates a Writer. When colored is false the output is plain.
func NewWriter(w io.Writer, colored bool) *Writer {
	c := color.New(color.FgCyan)
	if colored {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return &Writer{w: w, prefix: c}
}

// Print writes message followed by a newline.
func (t *Writer) Print(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if stage, rest, ok := strings.Cut(message, ": "); ok && !strings.ContainsAny(stage, " \t") {
		fmt.Fprintf(t.w, "%s %s\n", t.prefix.Sprint(stage+":"), rest)
		return
	}
	fmt.Fprintln(t.w, message)
}

// Recorder keeps every message in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

// Print records message.
func (r *Recorder) Print(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}
