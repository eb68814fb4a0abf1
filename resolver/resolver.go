// Package resolver binds every variable reference of a parsed program to the
// lexical scope that declares it, ahead of execution.
package resolver

import (
	"treelox/ast"
	"treelox/diag"
	"treelox/token"
	"treelox/util"
)

type Resolver struct {
	// Local scopes, innermost last. Empty at global scope.
	scopes []localScope
	table  *Table

	// Current function type
	currentFunction functionKind
	// Current class type
	currentClass classKind
	// Number of loops enclosing the current statement in this function.
	loopDepth int

	errors diag.List
}

// Resolves the program and returns its table along with the first
// resolution error, if any. Later errors are only available through
// Resolver.Errors.
func Resolve(prog *ast.Program) (*Table, error) {
	r := New(prog.RefCount)
	r.Resolve(prog.Statements)

	if errs := r.Errors(); len(errs) > 0 {
		return r.Table(), errs[0]
	}
	return r.Table(), nil
}

// Makes a resolver for a program which has refCount reference IDs.
func New(refCount int) *Resolver {
	return &Resolver{
		scopes:          make([]localScope, 0, 8),
		table:           NewTable(refCount),
		currentFunction: kindNoFunction,
		currentClass:    kindNoClass,
	}
}

func (r *Resolver) Table() *Table {
	return r.table
}

// Every resolution error found, in source order.
func (r *Resolver) Errors() diag.List {
	return r.errors
}

func (r *Resolver) Resolve(statements []ast.Stmt) {
	for _, stmt := range statements {
		r.resolveStmt(stmt)
	}
}

// Statement resolution
// --------------------------------------------------------
func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.pushScope()
		r.Resolve(s.Statements)
		r.popScope()

	case *ast.Expression:
		r.resolveExpr(s.Expression)

	case *ast.Print:
		r.resolveExpr(s.Expression)

	case *ast.Var:
		// Closures in the initializer see the new variable, a direct read
		// in it still refers to an enclosing one of the same name.
		r.declareVariable(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.defineVariable(s.Name)

	case *ast.If:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStmt(s.ElseBranch)
		}

	case *ast.While:
		r.resolveExpr(s.Condition)
		r.loopDepth++
		r.resolveStmt(s.Body)
		r.loopDepth--

	case *ast.Break:
		if r.loopDepth == 0 {
			r.error(s.Keyword, "Can't use 'break' outside of a loop.")
		}

	case *ast.Return:
		// A return at the top level ends the script, it is not an error.
		if s.Value != nil {
			if r.currentFunction == kindInitializer {
				r.error(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}

	case *ast.Function:
		// A function can refer to itself inside it.
		r.declareVariable(s.Name)
		r.defineVariable(s.Name)
		r.resolveFunction(s, kindFunction)

	case *ast.Class:
		r.resolveClass(s)

	default:
		panic("Unknown statement type in resolver.")
	}
}

func (r *Resolver) resolveClass(s *ast.Class) {
	// Track if inside a class.
	old_class := r.currentClass
	r.currentClass = kindClass
	defer func() { r.currentClass = old_class }()

	// A class can refer to itself.
	r.declareVariable(s.Name)
	r.defineVariable(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.error(s.Superclass.Name, "A class can't inherit from itself.")
		}

		r.currentClass = kindSubclass
		r.resolveExpr(s.Superclass)

		// 'super' is put in a scope which encloses all the methods' scopes.
		// It is shared among all instances since it only refers to the
		// superclass.
		r.pushScope()
		r.putImplicit("super")
		defer r.popScope()
	}

	// 'this' gets its own scope between the class and each method. At run
	// time binding a method creates the matching environment.
	r.pushScope()
	r.putImplicit("this")
	defer r.popScope()

	for _, method := range s.Methods {
		// Class constructor is named 'init'.
		kind := kindMethod
		if method.Name.Lexeme == "init" {
			kind = kindInitializer
		}
		r.resolveFunction(method, kind)
	}
}

// For functions, methods and initializers, manages its own scope.
func (r *Resolver) resolveFunction(fn *ast.Function, kind functionKind) {
	// Track if inside a function, loops outside of it do not count.
	old_func, old_loop := r.currentFunction, r.loopDepth
	r.currentFunction, r.loopDepth = kind, 0
	defer func() { r.currentFunction, r.loopDepth = old_func, old_loop }()

	// Begin function scope, function parameters reside in it.
	r.pushScope()
	defer r.popScope()

	for _, param := range fn.Params {
		r.declareVariable(param)
		r.defineVariable(param)
	}

	r.Resolve(fn.Body)
}

// Expression resolution
// --------------------------------------------------------
func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Variable:
		r.resolveLocal(e.Ref, e.Name.Lexeme)

	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e.Ref, e.Name.Lexeme)

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Unary:
		r.resolveExpr(e.Right)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpr(arg)
		}

	case *ast.Get:
		r.resolveExpr(e.Object)

	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.This:
		if r.currentClass == kindNoClass {
			r.error(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e.Ref, "this")

	case *ast.Super:
		switch r.currentClass {
		case kindNoClass:
			r.error(e.Keyword, "Can't use 'super' outside of a class.")
			return
		case kindClass:
			r.error(e.Keyword, "Can't use 'super' in a class with no superclass.")
			return
		}
		r.resolveLocal(e.Ref, "super")

	case *ast.Grouping:
		r.resolveExpr(e.Expr)

	case *ast.Literal:
		// Nothing to resolve.

	case *ast.FunctionLit:
		r.resolveFunction(e.Function, kindFunction)

	default:
		panic("Unknown expression type in resolver.")
	}
}

// Records the distance to the innermost scope declaring name. If no local
// scope declares it the reference stays global.
func (r *Resolver) resolveLocal(ref ast.RefID, name string) {
	for i := range r.scopes {
		// Reversed, inside out traversal.
		at := len(r.scopes) - i - 1

		slot := r.scopes[at].getVariable(name)
		if slot < 0 {
			continue
		}

		// Read in its own initializer, look further out.
		if i == 0 && !r.scopes[at].isDefined(slot) {
			continue
		}

		r.table.set(ref, i)
		return
	}
}

// Variable and scope management
// --------------------------------------------------------
func (r *Resolver) pushScope() {
	util.Push(&r.scopes, makeLocalScope())
}

func (r *Resolver) popScope() {
	util.Pop(&r.scopes)
}

// Declares the variable in the current scope. Redeclaring a variable in
// the same local scope is an error, at global scope it is allowed.
func (r *Resolver) declareVariable(name token.Token) {
	// If global then do nothing
	if len(r.scopes) == 0 {
		return
	}

	if util.Last(r.scopes).getVariable(name.Lexeme) < 0 {
		util.Last(r.scopes).putVariable(name.Lexeme)
		return
	}

	r.error(name, "Already a variable with this name in this scope.")
}

// Marks the variable as usable from the scope declaring it.
func (r *Resolver) defineVariable(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}

	util.Last(r.scopes).defineVariable(name.Lexeme)
}

// Declares an implicit variable like 'this' and 'super'.
func (r *Resolver) putImplicit(name string) {
	util.Last(r.scopes).putVariable(name)
	util.Last(r.scopes).defineVariable(name)
}

func (r *Resolver) error(tok token.Token, message string) {
	r.errors = append(r.errors, diag.At(diag.Resolution, tok, "%v", message))
}
