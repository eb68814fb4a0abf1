package ast

import (
	"treelox/token"
	"treelox/value"
)

// Reference ID stamped by the parser on every syntactic occurrence of a
// variable, 'this' or 'super'. IDs of one parse are dense and start at 0.
type RefID int

// Expr is a closed set of node types, passes switch over them exhaustively.
type Expr interface {
	exprNode()
}

type Assign struct {
	Name  token.Token
	Ref   RefID
	Value Expr
}

type Logical struct {
	Operator    token.Token
	Left, Right Expr
}

type Binary struct {
	Operator    token.Token
	Left, Right Expr
}

type Unary struct {
	Operator token.Token
	Right    Expr
}

type Call struct {
	Callee    Expr
	Paren     token.Token
	Arguments []Expr
}

type Get struct {
	Object Expr
	Name   token.Token
}

type Set struct {
	Object Expr
	Name   token.Token
	Value  Expr
}

// super, this, grouping, variable, literal and function literals are
// primary expressions.

type Super struct {
	Keyword token.Token
	Method  token.Token
	Ref     RefID
}

type This struct {
	Keyword token.Token
	Ref     RefID
}

type Grouping struct {
	Expr Expr
}

type Variable struct {
	Name token.Token
	Ref  RefID
}

type Literal struct {
	Value value.Value
}

// An anonymous function, its Name token is the 'fun' keyword.
type FunctionLit struct {
	Function *Function
}

func (*Assign) exprNode()      {}
func (*Logical) exprNode()     {}
func (*Binary) exprNode()      {}
func (*Unary) exprNode()       {}
func (*Call) exprNode()        {}
func (*Get) exprNode()         {}
func (*Set) exprNode()         {}
func (*Super) exprNode()       {}
func (*This) exprNode()        {}
func (*Grouping) exprNode()    {}
func (*Variable) exprNode()    {}
func (*Literal) exprNode()     {}
func (*FunctionLit) exprNode() {}
