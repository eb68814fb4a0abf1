package resolver

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treelox/ast"
	"treelox/diag"
	"treelox/parser"
)

func parse(t *testing.T, source string) *ast.Program {
	t.Helper()

	p := parser.MakeParser(source)
	prog, errs := p.Parse()
	require.NoError(t, errs.Err())
	return prog
}

func TestResolveDistances(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		distances []int
	}{
		{
			name:      "globals",
			source:    "var a = 1; print a; a = 2;",
			distances: []int{Global, Global},
		},
		{
			name:      "nested blocks",
			source:    "var a = 1; { var b = 2; { print a + b; } }",
			distances: []int{Global, 1},
		},
		{
			name:      "initializer sees enclosing variable",
			source:    "var a = 1; { var a = a + 1; print a; }",
			distances: []int{Global, 0},
		},
		{
			name:      "shadowing",
			source:    "{ var a = 1; { var a = 2; print a; } print a; }",
			distances: []int{0, 0},
		},
		{
			name:      "closure",
			source:    "fun outer() { var x = 1; fun inner() { return x; } return inner; }",
			distances: []int{1, 0},
		},
		{
			name:      "parameters",
			source:    "fun add(a, b) { return a + b; } print add(1, 2);",
			distances: []int{0, 0, Global},
		},
		{
			name:      "this",
			source:    "class A { m() { return this; } }",
			distances: []int{1},
		},
		{
			name:      "super",
			source:    "class A {} class B < A { m() { return super.m; } }",
			distances: []int{Global, 2},
		},
		{
			name:      "function literal",
			source:    "{ var n = 1; var f = fun () { return n; }; }",
			distances: []int{1},
		},
		{
			name:      "closure in initializer sees the new variable",
			source:    "var f = 1; { var f = fun () { return f; }; }",
			distances: []int{1},
		},
		{
			name:      "recursive local function value",
			source:    "fun outer() { var f = fun (n) { return f(n - 1); }; return f; }",
			distances: []int{1, 0, 0},
		},
		{
			name:      "initializer reading itself",
			source:    "{ var a = a; }",
			distances: []int{Global},
		},
		{
			name:      "this in a function inside a method",
			source:    "class A { m() { fun g() { return this; } return g; } }",
			distances: []int{2, 0},
		},
		{
			name:      "super in a function inside a method",
			source:    "class A {} class B < A { m() { fun g() { return super.m; } return g; } }",
			distances: []int{Global, 3, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Resolve(parse(t, tt.source))
			require.NoError(t, err)

			if diff := cmp.Diff(tt.distances, table.Distances()); diff != "" {
				t.Errorf("distances mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	source := `
		fun counter() {
			var i = 0;
			fun count() { i = i + 1; return i; }
			return count;
		}
		var c = counter();
		{ var d = c; print d(); }
	`

	prog := parse(t, source)
	first, err := Resolve(prog)
	require.NoError(t, err)
	second, err := Resolve(prog)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(first.Distances(), second.Distances()))
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		source  string
		message string
	}{
		{"{ var a; var a; }", "Already a variable with this name in this scope."},
		{"fun f(a, a) {}", "Already a variable with this name in this scope."},
		{"print this;", "Can't use 'this' outside of a class."},
		{"fun f() { return super.m; }", "Can't use 'super' outside of a class."},
		{"class A { m() { return super.m; } }", "Can't use 'super' in a class with no superclass."},
		{"class A < A {}", "A class can't inherit from itself."},
		{"class A { init() { return 1; } }", "Can't return a value from an initializer."},
		{"break;", "Can't use 'break' outside of a loop."},
		{"while (true) { fun f() { break; } }", "Can't use 'break' outside of a loop."},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, err := Resolve(parse(t, tt.source))
			require.Error(t, err)

			var d *diag.Diagnostic
			require.ErrorAs(t, err, &d)
			assert.Equal(t, diag.Resolution, d.Category)
			assert.Equal(t, tt.message, d.Message)
		})
	}
}

func TestResolveAllowed(t *testing.T) {
	sources := []string{
		// Redeclaring a global is fine.
		"var a = 1; var a = 2;",
		// Top-level return ends the script.
		"return 1;",
		"class A { init() { return; } }",
		"while (true) { { break; } }",
		"for (;;) { if (true) break; }",
		// Globals may be referenced before their declaration.
		"fun f() { return g(); } fun g() { return 1; }",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			_, err := Resolve(parse(t, src))
			assert.NoError(t, err)
		})
	}
}

func TestResolveReportsFirstError(t *testing.T) {
	prog := parse(t, "print this;\nbreak;")

	r := New(prog.RefCount)
	r.Resolve(prog.Statements)
	require.Len(t, r.Errors(), 2)

	_, err := Resolve(prog)
	require.Error(t, err)
	assert.Equal(t, "[line 1:7] Error at 'this': Can't use 'this' outside of a class.", err.Error())
}

func TestTableOutOfRange(t *testing.T) {
	table := NewTable(1)

	_, ok := table.Distance(0)
	assert.False(t, ok)
	_, ok = table.Distance(5)
	assert.False(t, ok)
	assert.Equal(t, 1, table.Len())
}
