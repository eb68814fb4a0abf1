package object

import (
	"fmt"

	"treelox/ast"
	"treelox/resolver"
	"treelox/token"
	"treelox/value"
)

// Callable is implemented by every value which can appear as a callee.
type Callable interface {
	value.Value
	Arity() int
}

type Function struct {
	Declaration *ast.Function
	Closure     *Environment
	// Table the declaration was resolved with. A function created by one
	// REPL entry can be called from later ones, which have their own tables.
	Locals *resolver.Table
	IsInit bool // Is class constructor?
}

// Implement the value.Value interface
// --------------------------------------------------------
func (*Function) LoxValueMarkerFunc() {}

func (f *Function) String() string {
	if f.IsAnonymous() {
		return "<fn>"
	}
	return fmt.Sprintf("<fn %v>", f.Declaration.Name.Lexeme)
}

// --------------------------------------------------------

func NewFunction(decl *ast.Function, closure *Environment, locals *resolver.Table, is_init bool) *Function {
	return &Function{
		Declaration: decl,
		Closure:     closure,
		Locals:      locals,
		IsInit:      is_init,
	}
}

func (f *Function) Arity() int {
	return len(f.Declaration.Params)
}

// Function literals are named by their 'fun' keyword.
func (f *Function) IsAnonymous() bool {
	return f.Declaration.Name.Kind == token.FUN
}

// Name used in call traces.
func (f *Function) Name() string {
	if f.IsAnonymous() {
		return "<anonymous>"
	}
	return f.Declaration.Name.Lexeme
}

// Creates a new function and binds it to the instance.
func (f *Function) Bind(instance *Instance) *Function {
	// Put the instance in a new scope enclosed by the scope which
	// previously enclosed the function's scope.
	// This way we can bind the instance to the function accessed, thus
	// making the function a bound method.
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)

	return NewFunction(f.Declaration, env, f.Locals, f.IsInit)
}
