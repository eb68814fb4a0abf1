package parser

import "treelox/token"

// Binding power of binary operators, higher binds tighter.
type precedence uint8

const (
	precNone precedence = iota
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
)

type binaryRule struct {
	prec    precedence
	logical bool // 'and' and 'or' short-circuit.
}

var binaryRules = map[token.TokenKind]binaryRule{
	token.OR:  {precOr, true},
	token.AND: {precAnd, true},

	token.EQUAL_EQUAL: {precEquality, false},
	token.BANG_EQUAL:  {precEquality, false},

	token.LESS:          {precComparison, false},
	token.LESS_EQUAL:    {precComparison, false},
	token.GREATER:       {precComparison, false},
	token.GREATER_EQUAL: {precComparison, false},

	token.PLUS:  {precTerm, false},
	token.MINUS: {precTerm, false},

	token.STAR:    {precFactor, false},
	token.SLASH:   {precFactor, false},
	token.PERCENT: {precFactor, false},
}
