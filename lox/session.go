package lox

import (
	"io"

	"treelox/interpreter"
	"treelox/object"
	"treelox/value"
)

// Session runs independent pieces of source, one per REPL entry or file,
// against the same global environment.
type Session struct {
	interp *interpreter.Interpreter
}

func NewSession(out io.Writer, opts ...interpreter.Option) *Session {
	return &Session{
		interp: interpreter.New(object.NewGlobals(), out, opts...),
	}
}

func (s *Session) Globals() *object.Environment {
	return s.interp.Globals()
}

// Parses, resolves and executes the source. Returns the value of a
// top-level return, nil otherwise. Lexical and syntax errors come back
// together as a diag.List, other errors as a single *diag.Diagnostic.
func (s *Session) Eval(source string) (value.Value, error) {
	prog, errs := Parse(source)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	table, err := Resolve(prog)
	if err != nil {
		return nil, err
	}

	val, err := s.interp.Interpret(prog, table)
	if err != nil {
		log.Debugf("runtime error: %v", err)
		return nil, err
	}

	log.Debugf("evaluated %d statements", len(prog.Statements))
	return val, nil
}
