// Command calc is the calc interpreter CLI.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"nickandperla.net/calc/internal/config"
	"nickandperla.net/calc/internal/trace"
	"nickandperla.net/calc/internal/value"
	"nickandperla.net/calc/pkg/calc"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is the whole CLI. It returns the process exit code: 0 on success, 1
// if any line failed, 2 on a usage or setup error.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		evalStr    = fs.String("e", "", "Evaluate one line")
		file       = fs.String("f", "", "Evaluate a file, one line at a time")
		dbPath     = fs.String("db", "", "SQLite database path (default: in-memory)")
		configPath = fs.String("config", "", "Config file (default: calc.yaml in this or a parent directory)")
		traceF     = fs.Bool("trace", false, "Trace tokens, trees and evaluation to stderr")
		program    = fs.Bool("program", false, "Treat the leading word of each line as a function")
		history    = fs.Bool("history", false, "Record evaluated lines in the database journal")
		colorF     = fs.String("color", "", "Colour output: auto, always or never")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	// Flags override the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db":
			cfg.DB = *dbPath
		case "trace":
			cfg.Trace = *traceF
		case "program":
			cfg.Program = *program
		case "history":
			cfg.History = *history
		case "color":
			cfg.Color = *colorF
		}
	})

	p := newPrinter(stdout, stderr, useColor(cfg.Color, stderr))

	// Build options
	opts := []calc.Option{calc.WithHistory(cfg.History)}
	if cfg.DB != "" {
		opts = append(opts, calc.WithSQLiteStore(cfg.DB))
	} else {
		opts = append(opts, calc.WithMemoryStore())
	}
	if cfg.Trace {
		opts = append(opts, calc.WithTracer(trace.NewWriter(stderr, p.colored)))
	}
	if cfg.Program {
		opts = append(opts, calc.WithProgramMode())
	}
	for _, name := range cfg.VarNames() {
		opts = append(opts, calc.WithVar(name, value.Int(cfg.Vars[name])))
	}
	opts = append(opts, calc.WithPrelude(cfg.Prelude...))

	session, err := calc.New(opts...)
	if err != nil {
		p.error("", err)
		return 2
	}
	defer session.Close()

	switch {
	case *evalStr != "":
		return p.evalLine(session, "", *evalStr)

	case *file != "":
		f, err := os.Open(*file)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		defer f.Close()
		return evalLines(session, p, f, *file)

	case !isTerminal(stdin):
		// Piped input
		return evalLines(session, p, stdin, "")

	default:
		return runREPL(session, p)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		found, err := config.FindConfig(".")
		if err != nil || found == "" {
			return config.Default(), err
		}
		path = found
	}
	return config.LoadConfig(path)
}

// evalLines evaluates r one line at a time, skipping blank lines and
// # comments. Every line runs; the exit code reports whether any failed.
// name prefixes error messages with file:line when set.
func evalLines(session *calc.Session, p *printer, r io.Reader, name string) int {
	code := 0
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimRight(sc.Text(), "\r")
		if trimmed := strings.TrimSpace(line); trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		where := ""
		if name != "" {
			where = fmt.Sprintf("%s:%d", name, n)
		}
		if c := p.evalLine(session, where, line); c != 0 {
			code = c
		}
	}
	if err := sc.Err(); err != nil {
		p.error("", fmt.Errorf("reading input: %w", err))
		return 2
	}
	return code
}

// useColor resolves a colour mode against the error stream.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(w)
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var errQuit = errors.New("quit")
