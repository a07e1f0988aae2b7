package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"nickandperla.net/calc/internal/fault"
	"nickandperla.net/calc/pkg/calc"
)

// printer writes results to out and errors to errOut.
type printer struct {
	out     io.Writer
	errOut  io.Writer
	colored bool
	red     *color.Color
	faint   *color.Color
}

func newPrinter(out, errOut io.Writer, colored bool) *printer {
	p := &printer{
		out:     out,
		errOut:  errOut,
		colored: colored,
		red:     color.New(color.FgRed, color.Bold),
		faint:   color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.red, p.faint} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// evalLine evaluates one line, prints its result or error and returns the
// exit code for it.
func (p *printer) evalLine(session *calc.Session, where, line string) int {
	v, err := session.Eval(line)
	if err != nil {
		p.errorIn(where, line, err)
		return 1
	}
	fmt.Fprintln(p.out, v)
	return 0
}

func (p *printer) error(where string, err error) {
	p.errorIn(where, "", err)
}

// errorIn prints err, then line with a caret under the offending offset
// when err has one.
func (p *printer) errorIn(where, line string, err error) {
	prefix := "Error"
	if where != "" {
		prefix = where + ": Error"
	}
	fmt.Fprintf(p.errOut, "%s %s\n", p.red.Sprint(prefix+":"), describe(err))
	if caret := fault.Caret(line, err); caret != "" {
		fmt.Fprintln(p.errOut, p.faint.Sprint(caret))
	}
}

var kindText = map[fault.Kind]string{
	fault.Untokenized:       "unrecognized character",
	fault.Unexpected:        "unexpected input",
	fault.SyntaxError:       "syntax error",
	fault.InvalidSource:     "nothing to evaluate",
	fault.UndefinedVariable: "undefined variable",
	fault.UndefinedFunction: "undefined function",
	fault.InvalidLVariable:  "only variables can be assigned",
	fault.InvalidRValue:     "missing value",
	fault.TypeMismatch:      "type mismatch",
	fault.ZeroStack:         "internal error: empty operand stack",
	fault.CalculationError:  "calculation error",
}

// describe renders err for a person: the kind in words, then the detail.
func describe(err error) string {
	var e *fault.Error
	if !errors.As(err, &e) || err != error(e) {
		return err.Error()
	}
	text, ok := kindText[e.Kind]
	if !ok {
		return err.Error()
	}
	if e.Msg != "" {
		text += ": " + e.Msg
	}
	if e.Err != nil {
		text += ": " + e.Err.Error()
	}
	return text
}
