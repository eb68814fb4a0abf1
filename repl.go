package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"treelox/lox"
	"treelox/value"
)

// Source of REPL entries, one line per entry.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// Reads entries from a stream which is not a terminal, no prompt is shown.
type plainPrompter struct {
	scanner *bufio.Scanner
}

func (p *plainPrompter) Prompt(string) (string, error) {
	if p.scanner.Scan() {
		return p.scanner.Text(), nil
	}
	if err := p.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func startREPL(session *lox.Session) error {
	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return repl(&plainPrompter{scanner: bufio.NewScanner(os.Stdin)}, session, os.Stdout, nil)
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if f, err := os.Open(settings.HistoryFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(settings.HistoryFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	err := repl(line, session, os.Stdout, line.AppendHistory)
	fmt.Fprintln(os.Stderr, "[EXIT]")
	return err
}

// Evaluates entries until the input ends. Errors of an entry are printed
// and the session continues with the next one.
func repl(in prompter, session *lox.Session, out io.Writer, remember func(string)) error {
	for {
		input, err := in.Prompt(settings.Prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			// Ctrl-C discards the line being edited.
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("error reading input: %w", err)
		}

		if strings.TrimSpace(input) == "" {
			continue
		}
		if remember != nil {
			remember(input)
		}

		if cmd := strings.TrimSpace(input); strings.HasPrefix(cmd, ":") {
			handleREPLCommand(cmd, session, out)
			continue
		}

		val, err := session.Eval(input)
		if err != nil {
			report(err)
			continue
		}

		// The value of a top-level return is echoed.
		if _, ok := val.(value.Nil); !ok && val != nil {
			fmt.Fprintf(out, "=> %v\n", val)
		}
	}
}

// Handles REPL meta-commands, no Lox statement starts with ':'.
func handleREPLCommand(cmd string, session *lox.Session, out io.Writer) {
	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(out, "REPL Commands:")
		fmt.Fprintln(out, "  :help, :h, :?     Show this help")
		fmt.Fprintln(out, "  :globals          List the global variables")
	case ":globals":
		fmt.Fprintln(out, strings.Join(session.Globals().Names(), " "))
	default:
		fmt.Fprintf(out, "Unknown command: %v (type :help for commands)\n", cmd)
	}
}
