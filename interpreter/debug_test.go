package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAstPrinter(t *testing.T) {
	tests := []struct {
		source string
		want   []string
	}{
		{
			source: `print "hi" + nil;`,
			want:   []string{`(print (+ "hi" nil))`},
		},
		{
			source: "for (var i = 0; i < 2; i = i + 1) print i;",
			want: []string{
				"(block (var i 0) (while (< lvar:i@0 2) (block (print lvar:i@1) (; (= lvar:i@1 (+ lvar:i@1 1))))))",
			},
		},
		{
			source: "var f = fun (x) { return x; }; f(1);",
			want: []string{
				"(var f (fun (x) (return lvar:x@0)))",
				"(; (() gvar:f: 1))",
			},
		},
		{
			source: "class A {} class B < A { m() { this.v = -1; return super.m; } }",
			want: []string{
				"(class A)",
				"(class B < gvar:A (method m () (; (set lvar:this@1 v (- 1))) (return lvar:super@2.m)))",
			},
		},
		{
			source: "if (!true) { break_me(); } else while (false) break;",
			want: []string{
				"(if (! true) (block (; (() gvar:break_me:))) (while false (break)))",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			prog, table := compile(t, tt.source)
			p := NewAstPrinter(table)

			got := make([]string, len(prog.Statements))
			for i, stmt := range prog.Statements {
				got[i] = p.Print(stmt)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAstPrinterWithoutTable(t *testing.T) {
	prog, _ := compile(t, "{ var a = 1; print a; }")
	assert.Equal(t, "(block (var a 1) (print gvar:a))", NewAstPrinter(nil).Print(prog.Statements[0]))
}
