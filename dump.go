package main

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/urfave/cli.v1"

	"treelox/diag"
	"treelox/interpreter"
	"treelox/lox"
	"treelox/token"
)

func dumpTokens(ctx *cli.Context) error {
	source, err := readScript(ctx)
	if err != nil {
		return err
	}

	return report(writeTokens(os.Stdout, source))
}

// Writes one token per line. Lexical errors are returned after every token
// is written.
func writeTokens(w io.Writer, source string) error {
	var errs diag.List

	for _, tok := range lox.Tokens(source) {
		if tok.Kind == token.INVALID {
			errs = append(errs, diag.At(diag.Lexical, tok, "%v", tok.Literal))
			continue
		}

		fmt.Fprintf(w, "%4v:%-4v %-14v %v\n", tok.Line, tok.Column, tok.Kind, tok.Lexeme)
	}

	return errs.Err()
}

func dumpAST(ctx *cli.Context) error {
	source, err := readScript(ctx)
	if err != nil {
		return err
	}

	if ctx.Bool(rawFlag.Name) {
		return report(writeRawAST(os.Stdout, source))
	}
	return report(writeAST(os.Stdout, source))
}

// Writes every statement of the resolved program as an s-expression.
func writeAST(w io.Writer, source string) error {
	prog, errs := lox.Parse(source)
	if err := errs.Err(); err != nil {
		return err
	}

	table, err := lox.Resolve(prog)
	if err != nil {
		return err
	}

	p := interpreter.NewAstPrinter(table)
	for _, stmt := range prog.Statements {
		fmt.Fprintln(w, p.Print(stmt))
	}

	return nil
}

// Settings of the raw dump, stable across runs.
var rawDumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Writes the Go structures of the parsed statements, unresolved.
func writeRawAST(w io.Writer, source string) error {
	prog, errs := lox.Parse(source)
	if err := errs.Err(); err != nil {
		return err
	}

	for _, stmt := range prog.Statements {
		rawDumper.Fdump(w, stmt)
	}

	return nil
}
