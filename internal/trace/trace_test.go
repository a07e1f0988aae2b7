// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package trace

import (
	"strings"
	"testing"
)

func TestWriterPlain(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb, false)

	w.Print("token: NUM(5)")
	w.Print("free text")

	expected := "token: NUM(5)\nfree text\n"
	if sb.String() != expected {
		t.Errorf("expected %q, got %q", expected, sb.String())
	}
}

func TestWriterColored(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb, true)

	w.Print("eval: push 5")

	out := sb.String()
	if !strings.Contains(out, "\x1b[") {
		t.Errorf("expected ANSI escape in colored output, got %q", out)
	}
	if !strings.HasSuffix(out, " push 5\n") {
		t.Errorf("message body lost: %q", out)
	}
}

func TestPrintfNilAndNop(t *testing.T) {
	// Neither call may panic.
	Printf(nil, "x %d", 1)
	Printf(Nop, "x %d", 1)

	var r Recorder
	Printf(&r, "ast: %s", "(+ 1 2)")
	msgs := r.Messages()
	if len(msgs) != 1 || msgs[0] != "ast: (+ 1 2)" {
		t.Errorf("unexpected messages: %v", msgs)
	}
}

func TestFunc(t *testing.T) {
	var got string
	Func(func(m string) { got = m }).Print("hello")
	if got != "hello" {
		t.Errorf("expected hello, got %q", got)
	}
}
