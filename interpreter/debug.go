package interpreter

import (
	"fmt"
	"strconv"
	"strings"

	"treelox/ast"
	"treelox/resolver"
	"treelox/value"
)

// AstPrinter renders statements and expressions as s-expressions. Variable
// references are annotated with how they were resolved: 'gvar:' for globals
// and 'lvar:' with the scope distance for locals.
type AstPrinter struct {
	locals *resolver.Table
}

// The table may be nil, every reference then prints as global.
func NewAstPrinter(locals *resolver.Table) AstPrinter {
	if locals == nil {
		locals = resolver.NewTable(0)
	}
	return AstPrinter{locals: locals}
}

func (p AstPrinter) Print(stmt ast.Stmt) string {
	switch s := stmt.(type) {
	case *ast.Block:
		return parens(append([]string{"block"}, p.printAll(s.Statements)...)...)

	case *ast.Expression:
		return parens(";", p.PrintExpr(s.Expression))

	case *ast.Print:
		return parens("print", p.PrintExpr(s.Expression))

	case *ast.Var:
		if s.Initializer == nil {
			return parens("var", s.Name.Lexeme)
		}
		return parens("var", s.Name.Lexeme, p.PrintExpr(s.Initializer))

	case *ast.If:
		if s.ElseBranch == nil {
			return parens("if", p.PrintExpr(s.Condition), p.Print(s.ThenBranch))
		}
		return parens("if", p.PrintExpr(s.Condition),
			p.Print(s.ThenBranch), p.Print(s.ElseBranch))

	case *ast.While:
		return parens("while", p.PrintExpr(s.Condition), p.Print(s.Body))

	case *ast.Break:
		return "(break)"

	case *ast.Return:
		if s.Value == nil {
			return "(return)"
		}
		return parens("return", p.PrintExpr(s.Value))

	case *ast.Function:
		return p.function("fun "+s.Name.Lexeme, s)

	case *ast.Class:
		frags := []string{"class", s.Name.Lexeme}
		if s.Superclass != nil {
			frags = append(frags, "<", p.PrintExpr(s.Superclass))
		}
		for _, method := range s.Methods {
			frags = append(frags, p.function("method "+method.Name.Lexeme, method))
		}
		return parens(frags...)

	default:
		panic("Unknown statement type in printer.")
	}
}

func (p AstPrinter) PrintExpr(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Assign:
		return parens("=", p.reference(e.Name.Lexeme, e.Ref), p.PrintExpr(e.Value))

	case *ast.Logical:
		return parens(e.Operator.Lexeme, p.PrintExpr(e.Left), p.PrintExpr(e.Right))

	case *ast.Binary:
		return parens(e.Operator.Lexeme, p.PrintExpr(e.Left), p.PrintExpr(e.Right))

	case *ast.Unary:
		return parens(e.Operator.Lexeme, p.PrintExpr(e.Right))

	case *ast.Call:
		// Put initial content before args
		args := []string{"()", p.PrintExpr(e.Callee) + ":"}
		for _, arg := range e.Arguments {
			args = append(args, p.PrintExpr(arg))
		}
		return parens(args...)

	case *ast.Get:
		return parens("get", p.PrintExpr(e.Object), e.Name.Lexeme)

	case *ast.Set:
		return parens("set", p.PrintExpr(e.Object), e.Name.Lexeme, p.PrintExpr(e.Value))

	case *ast.Super:
		return p.reference("super", e.Ref) + "." + e.Method.Lexeme

	case *ast.This:
		return p.reference("this", e.Ref)

	case *ast.Grouping:
		return parens("group", p.PrintExpr(e.Expr))

	case *ast.Literal:
		if s, ok := e.Value.(value.String); ok {
			return strconv.Quote(string(s))
		}
		return e.Value.String()

	case *ast.Variable:
		return p.reference(e.Name.Lexeme, e.Ref)

	case *ast.FunctionLit:
		return p.function("fun", e.Function)

	default:
		panic("Unknown expression type in printer.")
	}
}

func (p AstPrinter) function(head string, fn *ast.Function) string {
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = param.Lexeme
	}

	frags := []string{head, "(" + strings.Join(params, " ") + ")"}
	return parens(append(frags, p.printAll(fn.Body)...)...)
}

func (p AstPrinter) printAll(stmts []ast.Stmt) []string {
	out := make([]string, len(stmts))
	for i, stmt := range stmts {
		out[i] = p.Print(stmt)
	}
	return out
}

func (p AstPrinter) reference(name string, ref ast.RefID) string {
	if distance, ok := p.locals.Distance(ref); ok {
		return fmt.Sprintf("lvar:%v@%v", name, distance)
	}
	return "gvar:" + name
}

func parens(frags ...string) string {
	return "(" + strings.Join(frags, " ") + ")"
}
