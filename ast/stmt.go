package ast

import (
	"treelox/token"
)

type Stmt interface {
	stmtNode()
}

// Program is the result of one parse.
type Program struct {
	Statements []Stmt
	// Number of reference IDs handed out while parsing.
	RefCount int
}

type Block struct {
	Statements []Stmt
}

type Expression struct {
	Expression Expr
}

type Print struct {
	Expression Expr
}

type Break struct {
	Keyword token.Token
}

type Return struct {
	Keyword token.Token
	Value   Expr // Can be nil
}

type If struct {
	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt // Can be nil
}

// A 'for' loop is desugared by the parser into:
//
//	{ initializer; while (condition) { body; increment; } }
type While struct {
	Condition Expr
	Body      Stmt
}

type Var struct {
	Name        token.Token
	Initializer Expr // Can be nil
}

type Function struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

type Class struct {
	Name       token.Token
	Superclass *Variable // Can be nil
	// In declaration order, a later method with the same name wins.
	Methods []*Function
}

func (*Block) stmtNode()      {}
func (*Expression) stmtNode() {}
func (*Print) stmtNode()      {}
func (*Break) stmtNode()      {}
func (*Return) stmtNode()     {}
func (*If) stmtNode()         {}
func (*While) stmtNode()      {}
func (*Var) stmtNode()        {}
func (*Function) stmtNode()   {}
func (*Class) stmtNode()      {}

// Makes a block from a list of statements, nil statements are dropped.
func MakeBlock(statements ...Stmt) *Block {
	stmts := make([]Stmt, 0, len(statements))
	for _, s := range statements {
		if s != nil {
			stmts = append(stmts, s)
		}
	}
	return &Block{Statements: stmts}
}
