package lox

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treelox/diag"
	"treelox/interpreter"
	"treelox/object"
	"treelox/token"
	"treelox/value"
)

func TestSessionPersistsGlobals(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(&out)

	// Each entry has its own reference IDs, closures made by one entry must
	// still resolve their variables when called from a later one.
	entries := []string{
		"fun counter() { var i = 0; return fun () { i = i + 1; return i; }; }",
		"var c = counter();",
		"{ var unrelated = 0; print c(); }",
		"print c();",
	}
	for _, src := range entries {
		_, err := s.Eval(src)
		require.NoError(t, err, src)
	}

	assert.Equal(t, "1\n2\n", out.String())

	_, ok := s.Globals().Get("counter")
	assert.True(t, ok)
}

func TestSessionTopLevelReturn(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(&out)

	val, err := s.Eval("var x = 2; return x * 3; print x;")
	require.NoError(t, err)
	assert.Equal(t, value.Number(6), val)
	assert.Empty(t, out.String())

	// The session continues normally after it.
	_, err = s.Eval("print x;")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out.String())
}

func TestSessionErrors(t *testing.T) {
	s := NewSession(&bytes.Buffer{})

	_, err := s.Eval("print ; var = 1;")
	var list diag.List
	require.ErrorAs(t, err, &list)
	assert.Len(t, list, 2)
	assert.Equal(t, ExitCompile, ExitCode(err))

	_, err = s.Eval("{ var a; var a; }")
	var d *diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.Resolution, d.Category)
	assert.Equal(t, ExitCompile, ExitCode(err))

	_, err = s.Eval("print 1 / 0;")
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.Runtime, d.Category)
	assert.Equal(t, ExitRuntime, ExitCode(err))
}

func TestSessionCallDepth(t *testing.T) {
	s := NewSession(&bytes.Buffer{}, interpreter.WithMaxCallDepth(10))

	_, err := s.Eval("fun down(n) { if (n > 0) down(n - 1); } down(20);")
	var d *diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, "Stack overflow.", d.Message)

	_, err = s.Eval("down(5);")
	assert.NoError(t, err)
}

func TestPipeline(t *testing.T) {
	prog, errs := Parse("var a = 1; { var b = a; print b; }")
	require.NoError(t, errs.Err())

	table, err := Resolve(prog)
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = Interpret(prog, table, object.NewGlobals(), &out)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out.String())
}

func TestResolveKeepsTableOnError(t *testing.T) {
	prog, errs := Parse("print a; print this;")
	require.NoError(t, errs.Err())

	table, err := Resolve(prog)
	require.Error(t, err)
	require.NotNil(t, table)
	assert.Equal(t, prog.RefCount, table.Len())
}

func TestTokens(t *testing.T) {
	toks := Tokens("print 1; @")
	require.Len(t, toks, 5)
	assert.Equal(t, token.INVALID, toks[3].Kind)
	assert.Equal(t, token.END_OF_FILE, toks[4].Kind)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitIOFailed, ExitCode(errors.New("open x.lox: no such file")))
}
