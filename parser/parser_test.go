package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treelox/ast"
	"treelox/diag"
	"treelox/value"
)

func parse(t *testing.T, source string) *ast.Program {
	t.Helper()

	p := MakeParser(source)
	prog, errs := p.Parse()
	require.NoError(t, errs.Err())
	return prog
}

func TestParsePrecedence(t *testing.T) {
	prog := parse(t, "1 + 2 * 3 - 4 % 5;")
	require.Len(t, prog.Statements, 1)

	// ((1 + (2 * 3)) - (4 % 5))
	expr := prog.Statements[0].(*ast.Expression).Expression
	sub := expr.(*ast.Binary)
	assert.Equal(t, "-", sub.Operator.Lexeme)

	add := sub.Left.(*ast.Binary)
	assert.Equal(t, "+", add.Operator.Lexeme)
	assert.Equal(t, value.Number(1), add.Left.(*ast.Literal).Value)
	assert.Equal(t, "*", add.Right.(*ast.Binary).Operator.Lexeme)

	assert.Equal(t, "%", sub.Right.(*ast.Binary).Operator.Lexeme)
}

func TestParseLogical(t *testing.T) {
	prog := parse(t, "a or b and c == d;")

	or := prog.Statements[0].(*ast.Expression).Expression.(*ast.Logical)
	assert.Equal(t, "or", or.Operator.Lexeme)

	and := or.Right.(*ast.Logical)
	assert.Equal(t, "and", and.Operator.Lexeme)
	assert.IsType(t, &ast.Binary{}, and.Right)
}

func TestParseAssignment(t *testing.T) {
	prog := parse(t, "a = b = 1; obj.field = 2;")
	require.Len(t, prog.Statements, 2)

	outer := prog.Statements[0].(*ast.Expression).Expression.(*ast.Assign)
	assert.Equal(t, "a", outer.Name.Lexeme)
	assert.IsType(t, &ast.Assign{}, outer.Value)

	set := prog.Statements[1].(*ast.Expression).Expression.(*ast.Set)
	assert.Equal(t, "field", set.Name.Lexeme)
}

func TestParseRefIDsAreDense(t *testing.T) {
	prog := parse(t, `
		var a = 1;
		fun f(x) { return x + a; }
		class B < A { m() { return this.v + super.m(); } }
		a = f(a);
	`)

	// x, a, A, this, super, a, f, a
	assert.Equal(t, 8, prog.RefCount)
}

func TestParseForDesugaring(t *testing.T) {
	prog := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")

	block := prog.Statements[0].(*ast.Block)
	require.Len(t, block.Statements, 2)
	assert.IsType(t, &ast.Var{}, block.Statements[0])

	loop := block.Statements[1].(*ast.While)
	body := loop.Body.(*ast.Block)
	require.Len(t, body.Statements, 2)
	assert.IsType(t, &ast.Print{}, body.Statements[0])
	assert.IsType(t, &ast.Expression{}, body.Statements[1])

	// Without an initializer there is no enclosing block.
	prog = parse(t, "for (;;) break;")
	loop = prog.Statements[0].(*ast.While)
	assert.Equal(t, value.Boolean(true), loop.Condition.(*ast.Literal).Value)
}

func TestParseFunctionLiteral(t *testing.T) {
	prog := parse(t, "var f = fun (a, b) { return a; }; fun g() {}")
	require.Len(t, prog.Statements, 2)

	lit := prog.Statements[0].(*ast.Var).Initializer.(*ast.FunctionLit)
	assert.Len(t, lit.Function.Params, 2)
	assert.Equal(t, "fun", lit.Function.Name.Lexeme)

	decl := prog.Statements[1].(*ast.Function)
	assert.Equal(t, "g", decl.Name.Lexeme)
}

func TestParseClass(t *testing.T) {
	prog := parse(t, "class A < B { init(x) { this.x = x; } get() { return this.x; } }")

	class := prog.Statements[0].(*ast.Class)
	assert.Equal(t, "A", class.Name.Lexeme)
	require.NotNil(t, class.Superclass)
	assert.Equal(t, "B", class.Superclass.Name.Lexeme)
	require.Len(t, class.Methods, 2)
	assert.Equal(t, "init", class.Methods[0].Name.Lexeme)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		source string
		errors []string
	}{
		{"print 1", []string{"[line 1:8] Error at end: Expect ';' after value."}},
		{"1 = 2;", []string{"[line 1:3] Error at '=': Invalid assignment target."}},
		{"var 1;", []string{"[line 1:5] Error at '1': Expect variable name."}},
		{"print ;", []string{"[line 1:7] Error at ';': Expect expression."}},
		{"super;", []string{"[line 1:6] Error at ';': Expect '.' after 'super'."}},
		{"print @;", []string{
			"[line 1:7] Error: Unexpected character '@'.",
			"[line 1:8] Error at ';': Expect expression.",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			p := MakeParser(tt.source)
			_, errs := p.Parse()

			msgs := make([]string, len(errs))
			for i, d := range errs {
				msgs[i] = d.Error()
			}
			assert.Equal(t, tt.errors, msgs)
		})
	}
}

func TestParseRecovers(t *testing.T) {
	p := MakeParser("var = 1;\nprint 2;\nvar x = ;\nprint 3;")
	prog, errs := p.Parse()

	require.Len(t, errs, 2)
	assert.Equal(t, diag.Syntax, errs[0].Category)
	assert.Equal(t, 3, errs[1].Line)

	// Both print statements survive.
	assert.Len(t, prog.Statements, 2)
}

func TestParseTooManyArguments(t *testing.T) {
	src := "f("
	for i := 0; i < 256; i++ {
		if i > 0 {
			src += ", "
		}
		src += "1"
	}
	src += ");"

	p := MakeParser(src)
	prog, errs := p.Parse()

	require.Len(t, errs, 1)
	assert.Equal(t, "Can't have more than 255 arguments.", errs[0].Message)
	assert.Len(t, prog.Statements, 1)
}
