package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/term"

	"nickandperla.net/calc/internal/eval"
	"nickandperla.net/calc/pkg/calc"
)

const prompt = "calc> "

// lineReader is satisfied by *term.Terminal and by basicReader.
type lineReader interface {
	ReadLine() (string, error)
}

// basicReader reads lines from a non-TTY stream, echoing the prompt.
type basicReader struct {
	r   *bufio.Reader
	out io.Writer
}

func (b *basicReader) ReadLine() (string, error) {
	fmt.Fprint(b.out, prompt)
	line, err := b.r.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printBanner(w io.Writer) {
	fmt.Fprintln(w, "calc REPL (Ctrl+D to exit, :help for commands)")
}

func runREPL(session *calc.Session, p *printer) int {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		// Not a TTY, fall back to basic mode
		printBanner(p.out)
		return replLoop(session, p, &basicReader{r: bufio.NewReader(os.Stdin), out: p.out})
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(p.errOut, "Failed to set raw mode: %v\n", err)
		printBanner(p.out)
		return replLoop(session, p, &basicReader{r: bufio.NewReader(os.Stdin), out: p.out})
	}
	defer term.Restore(fd, oldState)

	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}, prompt)
	if w, h, err := term.GetSize(fd); err == nil {
		t.SetSize(w, h)
	}
	t.AutoCompleteCallback = func(line string, pos int, key rune) (string, int, bool) {
		if key != '\t' {
			return "", 0, false
		}
		return complete(session, line, pos)
	}

	// The terminal translates \n to \r\n while in raw mode.
	tp := newPrinter(t, t, p.colored)
	printBanner(t)
	return replLoop(session, tp, t)
}

// replLoop reads and evaluates lines until EOF or :quit. The REPL always
// exits 0: errors are reported per line.
func replLoop(session *calc.Session, p *printer, r lineReader) int {
	for {
		line, err := r.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(p.errOut, "Error reading input: %v\n", err)
			}
			fmt.Fprintln(p.out)
			return 0
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, ":") {
			if err := meta(session, p, input); err != nil {
				if errors.Is(err, errQuit) {
					return 0
				}
				p.error("", err)
			}
			continue
		}
		p.evalLine(session, "", line)
	}
}

const helpText = `Commands:
  :vars               list variables
  :history NAME [N]   stored versions of $NAME, newest first
  :journal [N]        recently evaluated lines
  :tokens LINE        show the tokens of LINE
  :tree LINE          show the syntax tree of LINE
  :unset NAME         remove $NAME and its stored versions
  :help               show this help
  :quit               exit`

// meta runs a REPL command.
func meta(session *calc.Session, p *printer, input string) error {
	cmd, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case ":quit", ":q", ":exit":
		return errQuit

	case ":help", ":h", ":?":
		fmt.Fprintln(p.out, helpText)
		fmt.Fprintf(p.out, "Builtins (call as $(name arg)): %s\n", strings.Join(eval.BuiltinNames(), ", "))

	case ":vars":
		vars := session.Vars()
		if len(vars) == 0 {
			fmt.Fprintln(p.out, "(no variables)")
		}
		for _, v := range vars {
			fmt.Fprintf(p.out, "$%s = %s\n", v.Name, v.Value)
		}

	case ":history":
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return fmt.Errorf("usage: :history NAME [N]")
		}
		limit, err := optionalLimit(fields[1:])
		if err != nil {
			return err
		}
		name := strings.TrimPrefix(fields[0], "$")
		versions, err := session.History(name, limit)
		if err != nil {
			return err
		}
		if len(versions) == 0 {
			fmt.Fprintf(p.out, "(no history for $%s)\n", name)
		}
		for _, v := range versions {
			fmt.Fprintf(p.out, "v%d  %s  %s\n", v.Version, v.Value, p.faint.Sprint(v.Ts))
		}

	case ":journal":
		limit, err := optionalLimit(strings.Fields(rest))
		if err != nil {
			return err
		}
		entries, err := session.Journal(limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(p.out, "(journal is empty; enable history to record lines)")
		}
		for _, e := range entries {
			outcome := e.Result
			if e.Error != "" {
				outcome = p.red.Sprint(e.Error)
			}
			fmt.Fprintf(p.out, "%s  => %s\n", e.Input, outcome)
		}

	case ":unset":
		name := strings.TrimPrefix(rest, "$")
		if name == "" {
			return fmt.Errorf("usage: :unset NAME")
		}
		ok, err := session.Unset(name)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(p.out, "$%s was not set\n", name)
		}

	case ":tokens":
		toks, err := session.Tokenize(rest)
		if err != nil {
			p.errorIn("", rest, err)
			return nil
		}
		parts := make([]string, len(toks))
		for i, tok := range toks {
			parts[i] = tok.String()
		}
		fmt.Fprintln(p.out, strings.Join(parts, " "))

	case ":tree":
		prog, err := session.Parse(rest)
		if err != nil {
			p.errorIn("", rest, err)
			return nil
		}
		fmt.Fprintln(p.out, prog)

	default:
		return fmt.Errorf("unknown command %s (try :help)", cmd)
	}
	return nil
}

func optionalLimit(fields []string) (int, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid limit %q", fields[0])
	}
	return n, nil
}

var metaCommands = []string{":help", ":history", ":journal", ":quit", ":tokens", ":tree", ":unset", ":vars"}

// complete expands the word before pos: a meta command at the start of the
// line, or a variable name after $. It completes only unambiguous prefixes.
func complete(session *calc.Session, line string, pos int) (string, int, bool) {
	head := line[:pos]
	start := strings.LastIndexAny(head, " \t$=+-*/();") + 1
	word := head[start:]

	var candidates []string
	switch {
	case start == 0 && strings.HasPrefix(word, ":"):
		candidates = metaCommands
	case start > 0 && head[start-1] == '$':
		for _, v := range session.Vars() {
			candidates = append(candidates, v.Name)
		}
		sort.Strings(candidates)
	default:
		return "", 0, false
	}

	var match string
	for _, c := range candidates {
		if !strings.HasPrefix(c, word) {
			continue
		}
		if match != "" {
			return "", 0, false
		}
		match = c
	}
	if match == "" || match == word {
		return "", 0, false
	}
	return head[:start] + match + line[pos:], start + len(match), true
}
