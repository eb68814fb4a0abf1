// Package interpreter executes resolved programs by walking their syntax
// tree.
package interpreter

import (
	"errors"
	"fmt"
	"io"

	"treelox/ast"
	"treelox/diag"
	"treelox/object"
	"treelox/resolver"
	"treelox/token"
	"treelox/util"
	"treelox/value"
)

const DefaultMaxCallDepth = 2048

type Interpreter struct {
	// Global variables
	globals *object.Environment
	// Current scope, the globals at top level.
	env *object.Environment
	// Resolution of the code being executed. Swapped on calls, since each
	// function carries the table it was resolved with.
	locals *resolver.Table
	// Where 'print' writes.
	out io.Writer

	// Functions we are currently inside.
	calledFunctions []string
	maxCallDepth    int
}

type Option func(*Interpreter)

// Limits the number of nested calls, deeper calls fail with a stack
// overflow error.
func WithMaxCallDepth(depth int) Option {
	return func(i *Interpreter) {
		if depth > 0 {
			i.maxCallDepth = depth
		}
	}
}

func New(globals *object.Environment, out io.Writer, opts ...Option) *Interpreter {
	i := &Interpreter{
		globals:      globals,
		env:          globals,
		out:          out,
		maxCallDepth: DefaultMaxCallDepth,
	}

	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Interpreter) Globals() *object.Environment {
	return i.globals
}

// Executes the program resolved into table. Returns the value of a
// top-level return statement, nil otherwise. Execution stops at the first
// runtime error, which is a *diag.Diagnostic.
func (i *Interpreter) Interpret(prog *ast.Program, table *resolver.Table) (value.Value, error) {
	// Discard the state left by an earlier program aborted on an error.
	i.env = i.globals
	i.locals = table
	// The top-level implicit function is named '<script>'.
	i.calledFunctions = []string{"<script>"}

	for _, stmt := range prog.Statements {
		res, err := i.execute(stmt)
		if err != nil {
			return nil, err
		}

		if res.kind == controlReturn {
			return res.value, nil
		}
	}

	return value.Nil{}, nil
}

// Statement execution
// --------------------------------------------------------
func (i *Interpreter) execute(stmt ast.Stmt) (outcome, error) {
	switch s := stmt.(type) {
	case *ast.Block:
		return i.executeBlock(s.Statements, object.NewEnvironment(i.env))

	case *ast.Expression:
		_, err := i.evaluate(s.Expression)
		return normal, err

	case *ast.Print:
		val, err := i.evaluate(s.Expression)
		if err != nil {
			return normal, err
		}
		fmt.Fprintln(i.out, val.String())
		return normal, nil

	case *ast.Var:
		val := value.Value(value.Nil{})
		if s.Initializer != nil {
			v, err := i.evaluate(s.Initializer)
			if err != nil {
				return normal, err
			}
			val = v
		}
		i.env.Define(s.Name.Lexeme, val)
		return normal, nil

	case *ast.If:
		cond, err := i.evaluate(s.Condition)
		if err != nil {
			return normal, err
		}

		if value.Truthiness(cond) {
			return i.execute(s.ThenBranch)
		} else if s.ElseBranch != nil {
			return i.execute(s.ElseBranch)
		}
		return normal, nil

	case *ast.While:
		return i.executeWhile(s)

	case *ast.Break:
		return outcome{kind: controlBreak}, nil

	case *ast.Return:
		val := value.Value(value.Nil{}) // A return with no expression returns nil.
		if s.Value != nil {
			v, err := i.evaluate(s.Value)
			if err != nil {
				return normal, err
			}
			val = v
		}
		return outcome{kind: controlReturn, value: val}, nil

	case *ast.Function:
		fun := object.NewFunction(s, i.env, i.locals, false)
		i.env.Define(s.Name.Lexeme, fun)
		return normal, nil

	case *ast.Class:
		return normal, i.executeClass(s)

	default:
		panic("Unknown statement type in interpreter.")
	}
}

func (i *Interpreter) executeWhile(s *ast.While) (outcome, error) {
	for {
		cond, err := i.evaluate(s.Condition)
		if err != nil {
			return normal, err
		}
		if !value.Truthiness(cond) {
			return normal, nil
		}

		res, err := i.execute(s.Body)
		if err != nil {
			return normal, err
		}

		switch res.kind {
		case controlBreak:
			return normal, nil
		case controlReturn:
			return res, nil
		}
	}
}

func (i *Interpreter) executeClass(s *ast.Class) error {
	superclass := (*object.Class)(nil)
	if s.Superclass != nil {
		val, err := i.evaluate(s.Superclass)
		if err != nil {
			return err
		}

		class, ok := val.(*object.Class)
		if !ok {
			return i.makeError(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = class
	}

	// Methods close over a scope holding 'super', shared by all of them.
	method_env := i.env
	if superclass != nil {
		method_env = object.NewEnvironment(i.env)
		method_env.Define("super", superclass)
	}

	methods := make(map[string]*object.Function, len(s.Methods))
	for _, method := range s.Methods {
		is_init := method.Name.Lexeme == "init"
		methods[method.Name.Lexeme] = object.NewFunction(method, method_env, i.locals, is_init)
	}

	i.env.Define(s.Name.Lexeme, object.NewClass(s.Name.Lexeme, methods, superclass))
	return nil
}

// Expression evaluation
// --------------------------------------------------------
func (i *Interpreter) evaluate(expr ast.Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil

	case *ast.Grouping:
		return i.evaluate(e.Expr)

	case *ast.Variable:
		return i.lookUpVariable(e.Name, e.Ref)

	case *ast.Assign:
		val, err := i.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		return val, i.assignVariable(e.Name, e.Ref, val)

	case *ast.Logical:
		return i.evaluateLogical(e)

	case *ast.Unary:
		return i.evaluateUnary(e)

	case *ast.Binary:
		return i.evaluateBinary(e)

	case *ast.Call:
		return i.evaluateCall(e)

	case *ast.Get:
		obj, err := i.evaluate(e.Object)
		if err != nil {
			return nil, err
		}

		instance, ok := obj.(*object.Instance)
		if !ok {
			return nil, i.makeError(e.Name, "Only instances have properties.")
		}

		if val, ok := instance.Get(e.Name.Lexeme); ok {
			return val, nil
		}
		return nil, i.makeError(e.Name, "Undefined property '%v'.", e.Name.Lexeme)

	case *ast.Set:
		obj, err := i.evaluate(e.Object)
		if err != nil {
			return nil, err
		}

		instance, ok := obj.(*object.Instance)
		if !ok {
			return nil, i.makeError(e.Name, "Only instances have fields.")
		}

		val, err := i.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		instance.Set(e.Name.Lexeme, val)
		return val, nil

	case *ast.This:
		return i.lookUpVariable(e.Keyword, e.Ref)

	case *ast.Super:
		return i.evaluateSuper(e)

	case *ast.FunctionLit:
		return object.NewFunction(e.Function, i.env, i.locals, false), nil

	default:
		panic("Unknown expression type in interpreter.")
	}
}

func (i *Interpreter) evaluateLogical(e *ast.Logical) (value.Value, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return nil, err
	}

	// Return the value of the expression which determines the truth value of
	// the logical expression and not a boolean.
	switch e.Operator.Kind {
	case token.OR:
		if value.Truthiness(left) {
			return left, nil
		}

	case token.AND:
		if !value.Truthiness(left) {
			return left, nil
		}

	default:
		panic("Invalid operator in logical expression.")
	}

	return i.evaluate(e.Right)
}

func (i *Interpreter) evaluateUnary(e *ast.Unary) (value.Value, error) {
	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Kind {
	case token.BANG:
		return !value.Truthiness(right), nil

	case token.MINUS:
		val, err := value.Neg(right)
		if err != nil {
			return nil, i.wrapError(e.Operator, err)
		}
		return val, nil

	default:
		panic("Invalid operator token in unary expression.")
	}
}

var arithmetic = map[token.TokenKind]func(s, t value.Value) (value.Value, error){
	token.PLUS:    value.Add,
	token.MINUS:   value.Sub,
	token.STAR:    value.Mul,
	token.SLASH:   value.Div,
	token.PERCENT: value.Rem,
}

var comparison = map[token.TokenKind]func(s, t value.Value) (value.Boolean, error){
	token.GREATER:       value.GreaterThan,
	token.GREATER_EQUAL: value.GreaterEqual,
	token.LESS:          value.LessThan,
	token.LESS_EQUAL:    value.LessEqual,
}

func (i *Interpreter) evaluateBinary(e *ast.Binary) (value.Value, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Kind {
	case token.EQUAL_EQUAL:
		return value.EqualTo(left, right), nil
	case token.BANG_EQUAL:
		return !value.EqualTo(left, right), nil
	}

	if op, ok := arithmetic[e.Operator.Kind]; ok {
		val, err := op(left, right)
		if err != nil {
			return nil, i.wrapError(e.Operator, err)
		}
		return val, nil
	}

	if op, ok := comparison[e.Operator.Kind]; ok {
		val, err := op(left, right)
		if err != nil {
			return nil, i.wrapError(e.Operator, err)
		}
		return val, nil
	}

	panic("Invalid operator token in binary expression.")
}

func (i *Interpreter) evaluateCall(e *ast.Call) (value.Value, error) {
	callee, err := i.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]value.Value, 0, len(e.Arguments))
	for _, arg := range e.Arguments {
		val, err := i.evaluate(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	fun, ok := callee.(object.Callable)
	if !ok {
		return nil, i.makeError(e.Paren, "Can only call functions and classes.")
	}

	if fun.Arity() != len(args) {
		return nil, i.makeError(e.Paren,
			"Expected %v arguments but got %v.", fun.Arity(), len(args))
	}

	if len(i.calledFunctions) > i.maxCallDepth {
		return nil, i.makeError(e.Paren, "Stack overflow.")
	}

	switch f := fun.(type) {
	case *object.NativeFunction:
		val, err := f.Call(args)
		if err != nil {
			return nil, i.wrapError(e.Paren, err)
		}
		return val, nil

	case *object.Function:
		return i.callFunction(f, args, e.Paren)

	case *object.Class:
		instance := object.NewInstance(f)
		if init := f.FindMethod("init"); init != nil {
			// The return value of the initializer is the instance itself.
			if _, err := i.callFunction(init.Bind(instance), args, e.Paren); err != nil {
				return nil, err
			}
		}
		return instance, nil

	default:
		panic("Unknown callable type in interpreter.")
	}
}

func (i *Interpreter) callFunction(fun *object.Function, args []value.Value, paren token.Token) (value.Value, error) {
	// Push the function name for stack trace generation.
	util.Push(&i.calledFunctions, fun.Name())

	// Put the arguments inside the function's environment.
	fun_env := object.NewEnvironment(fun.Closure)
	for idx, param := range fun.Declaration.Params {
		fun_env.Define(param.Lexeme, args[idx])
	}

	old_locals := i.locals
	if fun.Locals != nil {
		i.locals = fun.Locals
	}
	res, err := i.executeBlock(fun.Declaration.Body, fun_env)
	i.locals = old_locals

	util.Pop(&i.calledFunctions)

	if err != nil {
		// Record the call site(line and caller) of the function.
		var d *diag.Diagnostic
		if errors.As(err, &d) {
			d.PushFrame(*util.Last(i.calledFunctions), paren.Line)
		}
		return nil, err
	}

	// An initializer always returns 'this', even on an early return.
	if fun.IsInit {
		this, _ := fun.Closure.Get("this")
		return this, nil
	}

	if res.kind == controlReturn {
		return res.value, nil
	}
	return value.Nil{}, nil
}

func (i *Interpreter) evaluateSuper(e *ast.Super) (value.Value, error) {
	distance, ok := i.locals.Distance(e.Ref)
	if !ok {
		panic("Unresolved 'super' in interpreter.")
	}

	// 'this' is always bound in the scope right inside the one of 'super'.
	sup, _ := i.env.GetAt(distance, "super")
	this, _ := i.env.GetAt(distance-1, "this")
	superclass := sup.(*object.Class)
	instance := this.(*object.Instance)

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		return nil, i.makeError(e.Method, "Undefined property '%v'.", e.Method.Lexeme)
	}

	return method.Bind(instance), nil
}

// Variable access
// --------------------------------------------------------
func (i *Interpreter) lookUpVariable(name token.Token, ref ast.RefID) (value.Value, error) {
	if distance, ok := i.locals.Distance(ref); ok {
		if val, ok := i.env.GetAt(distance, name.Lexeme); ok {
			return val, nil
		}
	} else if val, ok := i.globals.Get(name.Lexeme); ok {
		return val, nil
	}

	return nil, i.makeError(name, "Undefined variable '%v'.", name.Lexeme)
}

func (i *Interpreter) assignVariable(name token.Token, ref ast.RefID, val value.Value) error {
	var assigned bool
	if distance, ok := i.locals.Distance(ref); ok {
		assigned = i.env.AssignAt(distance, name.Lexeme, val)
	} else {
		assigned = i.globals.Assign(name.Lexeme, val)
	}

	if !assigned {
		return i.makeError(name, "Undefined variable '%v'.", name.Lexeme)
	}
	return nil
}

// Error reporting methods
// --------------------------------------------------------

// Makes a runtime error located at the token, in the current function.
func (i *Interpreter) makeError(tok token.Token, format string, args ...any) *diag.Diagnostic {
	d := diag.At(diag.Runtime, tok, format, args...)
	d.PushFrame(*util.Last(i.calledFunctions), tok.Line)
	return d
}

// Same as makeError but for errors returned by values and natives.
func (i *Interpreter) wrapError(tok token.Token, err error) *diag.Diagnostic {
	d := diag.Wrap(diag.Runtime, tok, err)
	d.PushFrame(*util.Last(i.calledFunctions), tok.Line)
	return d
}

// Utility methods
// --------------------------------------------------------
func (i *Interpreter) executeBlock(statements []ast.Stmt, environ *object.Environment) (outcome, error) {
	// Use supplied environment to execute code and later restore the old one.
	old_env := i.env
	i.env = environ
	defer func() {
		i.env = old_env
	}()

	for _, stmt := range statements {
		res, err := i.execute(stmt)
		if err != nil || res.kind != controlNormal {
			return res, err
		}
	}

	return normal, nil
}
