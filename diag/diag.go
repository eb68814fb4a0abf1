// Package diag holds the positioned diagnostics produced by every phase of
// the interpreter and renders them for humans or tools.
package diag

import (
	"fmt"
	"strings"

	"treelox/token"
)

type Category string

const (
	Lexical    Category = "lexical"
	Syntax     Category = "syntax"
	Resolution Category = "resolution"
	Runtime    Category = "runtime"
)

// A call site crossed while a runtime error unwound, innermost first.
type Frame struct {
	Function string `yaml:"function"`
	Line     int    `yaml:"line"`
}

type Diagnostic struct {
	Category Category `yaml:"category"`
	Line     int      `yaml:"line"`
	Column   int      `yaml:"column"`
	// Rendered location such as "'x'" or "end", empty when not applicable.
	Where   string  `yaml:"where,omitempty"`
	Message string  `yaml:"message"`
	Trace   []Frame `yaml:"trace,omitempty"`

	cause error
}

// Makes a diagnostic located at the token.
func At(category Category, tok token.Token, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Category: category,
		Line:     tok.Line,
		Column:   tok.Column,
		Where:    where(tok),
		Message:  fmt.Sprintf(format, args...),
	}
}

// Makes a diagnostic located at the token carrying the error's message. The
// error stays reachable through errors.Is and errors.As.
func Wrap(category Category, tok token.Token, err error) *Diagnostic {
	d := At(category, tok, "%v", err)
	d.cause = err
	return d
}

func where(tok token.Token) string {
	switch tok.Kind {
	case token.END_OF_FILE:
		return "end"
	case token.INVALID:
		return ""
	default:
		return "'" + tok.Lexeme + "'"
	}
}

func (d *Diagnostic) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[line %v:%v] ", d.Line, d.Column)
	if d.Category == Runtime {
		b.WriteString("Runtime error")
	} else {
		b.WriteString("Error")
	}
	if d.Where != "" {
		b.WriteString(" at " + d.Where)
	}
	b.WriteString(": " + d.Message)

	return b.String()
}

func (d *Diagnostic) Unwrap() error {
	return d.cause
}

// Records the call site through which the error is propagating.
func (d *Diagnostic) PushFrame(function string, line int) {
	d.Trace = append(d.Trace, Frame{Function: function, Line: line})
}

// List collects diagnostics of the phases that recover from errors.
type List []*Diagnostic

func (l List) Error() string {
	msgs := make([]string, len(l))
	for i, d := range l {
		msgs[i] = d.Error()
	}
	return strings.Join(msgs, "\n")
}

// Returns the list as an error, nil if empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
