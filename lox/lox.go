// Package lox ties the scanner, parser, resolver and interpreter together
// into the pipeline used by the command and the REPL.
package lox

import (
	"errors"
	"io"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple" // Backend for the package logger.

	"treelox/ast"
	"treelox/diag"
	"treelox/interpreter"
	"treelox/object"
	"treelox/parser"
	"treelox/resolver"
	"treelox/token"
	"treelox/value"
)

// Exit codes of the command, following the sysexits convention.
const (
	ExitOK       = 0
	ExitCompile  = 65 // Lexical, syntax or resolution error.
	ExitRuntime  = 70
	ExitIOFailed = 74
)

var log = commonlog.GetLogger("treelox.lox")

// Scans the whole source, lexical errors are kept as INVALID tokens.
func Tokens(source string) []token.Token {
	scn := parser.MakeScanner(source)
	return scn.Tokens()
}

// Parses the source. The program holds every declaration which could be
// parsed, even when errors are returned.
func Parse(source string) (*ast.Program, diag.List) {
	p := parser.MakeParser(source)
	prog, errs := p.Parse()

	log.Debugf("parsed %d statements with %d references, %d errors",
		len(prog.Statements), prog.RefCount, len(errs))
	return prog, errs
}

// Resolves the program, only the first resolution error is returned. The
// table is returned even then.
func Resolve(prog *ast.Program) (*resolver.Table, error) {
	table, err := resolver.Resolve(prog)
	if err != nil {
		log.Debugf("resolution failed: %v", err)
		return table, err
	}

	log.Debugf("resolved %d references", table.Len())
	return table, nil
}

// Executes a resolved program against the globals, printing to out.
func Interpret(prog *ast.Program, table *resolver.Table, globals *object.Environment, out io.Writer, opts ...interpreter.Option) (value.Value, error) {
	val, err := interpreter.New(globals, out, opts...).Interpret(prog, table)
	if err != nil {
		log.Debugf("runtime error: %v", err)
	}
	return val, err
}

// Maps an error of the pipeline to the exit code of the command.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var list diag.List
	if errors.As(err, &list) && len(list) > 0 {
		return categoryExitCode(list[0].Category)
	}

	var d *diag.Diagnostic
	if errors.As(err, &d) {
		return categoryExitCode(d.Category)
	}

	return ExitIOFailed
}

func categoryExitCode(category diag.Category) int {
	if category == diag.Runtime {
		return ExitRuntime
	}
	return ExitCompile
}
