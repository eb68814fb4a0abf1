package parser

import (
	"treelox/ast"
	"treelox/diag"
	"treelox/token"
	"treelox/value"
)

const MAX_CALL_PARAMS = 255

type Parser struct {
	// Scanning information
	scn      Scanner
	previous token.Token
	current  token.Token
	// One token of lookahead past current, valid if hasNext.
	next    token.Token
	hasNext bool

	// Next reference ID to hand out.
	refCount int

	// Lexical and syntax errors detected so far.
	errors diag.List
}

// Panicked with to unwind to the enclosing declaration on malformed syntax.
type SyntaxError struct{}

func MakeParser(source string) Parser {
	return Parser{
		scn:      MakeScanner(source),
		previous: token.Token{},
		current:  token.Token{},
	}
}

// Parses the whole source. The program is returned even if errors were
// found, it then holds every declaration that could be parsed.
func (p *Parser) Parse() (*ast.Program, diag.List) {
	// Prime the parser: take in first token.
	p.advance()

	stmts := make([]ast.Stmt, 0)
	for !p.check(token.END_OF_FILE) {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	return &ast.Program{Statements: stmts, RefCount: p.refCount}, p.errors
}

// Statement parsing methods
// --------------------------------------------------------

// Returns nil if the declaration was malformed, the token stream is then
// synchronized to the start of the next statement.
func (p *Parser) declaration() (stmt ast.Stmt) {
	defer func() {
		if v := recover(); v != nil {
			if _, ok := v.(SyntaxError); !ok {
				panic(v)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	switch {
	case p.match(token.CLASS):
		return p.classDeclaration()
	case p.check(token.FUN) && p.peekNext().Kind == token.IDENTIFIER:
		p.advance()
		return p.function("function")
	case p.match(token.VAR):
		return p.varDeclaration()

	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect class name.")

	superclass := (*ast.Variable)(nil)
	if p.match(token.LESS) {
		sname := p.consume(token.IDENTIFIER, "Expect superclass name.")
		superclass = p.variable(sname)
	}

	p.consume(token.LEFT_BRACE, "Expect '{' before class body.")

	methods := make([]*ast.Function, 0)
	for !p.check(token.RIGHT_BRACE) && !p.check(token.END_OF_FILE) {
		methods = append(methods, p.function("method"))
	}

	p.consume(token.RIGHT_BRACE, "Expect '}' after class body.")
	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}
}

// Parses a named function or method, kind is used in error messages.
func (p *Parser) function(kind string) *ast.Function {
	name := p.consume(token.IDENTIFIER, "Expect "+kind+" name.")
	return p.functionBody(name, kind)
}

// Parses: '(' parameters? ')' block
func (p *Parser) functionBody(name token.Token, kind string) *ast.Function {
	p.consume(token.LEFT_PAREN, "Expect '(' after "+kind+" name.")
	params := make([]token.Token, 0)

	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= MAX_CALL_PARAMS {
				p.errorAt(p.current,
					"Can't have more than %v parameters.", MAX_CALL_PARAMS)
			}
			// Continue ever after the error as the syntax is well formed.

			params = append(params,
				p.consume(token.IDENTIFIER, "Expect parameter name."))

			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")

	p.consume(token.LEFT_BRACE, "Expect '{' before "+kind+" body.")
	body := p.bareBlock()

	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect variable name.")

	init_value := ast.Expr(nil)
	if p.match(token.EQUAL) {
		init_value = p.expression()
	}

	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Initializer: init_value}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.PRINT):
		return p.printStatement()

	case p.match(token.BREAK):
		return p.breakStatement()
	case p.match(token.RETURN):
		return p.returnStatement()

	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()

	case p.match(token.LEFT_BRACE):
		return ast.MakeBlock(p.bareBlock()...)

	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after value.")

	return &ast.Print{Expression: expr}
}

func (p *Parser) breakStatement() ast.Stmt {
	kw := p.previous
	p.consume(token.SEMICOLON, "Expect ';' after 'break'.")

	return &ast.Break{Keyword: kw}
}

func (p *Parser) returnStatement() ast.Stmt {
	kw := p.previous
	value := ast.Expr(nil) // A return with no expression returns nil.

	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after return value.")

	return &ast.Return{Keyword: kw, Value: value}
}

func (p *Parser) ifStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after if condition.")

	then_branch := p.statement()
	else_branch := ast.Stmt(nil)
	if p.match(token.ELSE) {
		else_branch = p.statement()
	}

	return &ast.If{
		Condition:  condition,
		ThenBranch: then_branch,
		ElseBranch: else_branch,
	}
}

func (p *Parser) whileStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	body := p.statement()

	return &ast.While{Condition: condition, Body: body}
}

func (p *Parser) forStatement() ast.Stmt {
	// The 'for' loop has a seperate scope for the variable(if any)
	// in its initializer clause. We do the following construction:
	// { initializer; while (condition) { body_stmt; increment; } }
	p.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")

	init := ast.Stmt(nil)
	switch {
	case p.match(token.SEMICOLON):
		init = nil
	case p.match(token.VAR):
		init = p.varDeclaration()
	default:
		init = p.expressionStatement()
	}

	cond := ast.Expr(&ast.Literal{Value: value.Boolean(true)})
	if !p.check(token.SEMICOLON) {
		cond = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after loop condition.")

	increment := ast.Expr(nil)
	if !p.check(token.RIGHT_PAREN) {
		increment = p.expression()
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

	body := p.statement()
	if increment != nil {
		body = ast.MakeBlock(body, &ast.Expression{Expression: increment})
	}

	loop := &ast.While{Condition: cond, Body: body}
	if init == nil {
		return loop
	}
	return ast.MakeBlock(init, loop)
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")

	return &ast.Expression{Expression: expr}
}

// Expression parsing methods
// --------------------------------------------------------
func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	// Since the '=' can be any number of tokens ahead,
	// parse the LHS first and then check for equal sign and verify that the
	// assingment target valid.
	expr := p.binary(precOr)

	if p.match(token.EQUAL) {
		equals := p.previous
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			// Same syntactic occurrence, so the reference ID is kept.
			return &ast.Assign{Name: target.Name, Ref: target.Ref, Value: value}
		case *ast.Get:
			// If Get(like: expr.name) then transform it into Set.
			// Where the name is the property to be set.
			return &ast.Set{
				Object: target.Object,
				Name:   target.Name,
				Value:  value,
			}
		default:
			p.errorAt(equals, "Invalid assignment target.")
			// Continue after the error as the syntax is well formed.
		}
	}

	return expr
}

// Parses binary and logical operators of precedence min_prec and above.
// Each level is handled by the same loop, the table decides binding.
func (p *Parser) binary(min_prec precedence) ast.Expr {
	left := p.unary()

	for {
		rule, ok := binaryRules[p.current.Kind]
		if !ok || rule.prec < min_prec {
			return left
		}

		op := p.advance()
		// All binary operators are left-associative.
		right := p.binary(rule.prec + 1)

		if rule.logical {
			left = &ast.Logical{Operator: op, Left: left, Right: right}
		} else {
			left = &ast.Binary{Operator: op, Left: left, Right: right}
		}
	}
}

func (p *Parser) unary() ast.Expr {
	if p.match_any(token.BANG, token.MINUS) {
		op := p.previous
		right := p.unary()
		return &ast.Unary{Operator: op, Right: right}
	}

	return p.call()
}

func (p *Parser) call() ast.Expr {
	// This parses function calls and get(property access),
	// both are left-associative.
	expr := p.primary()

	for {
		if p.match(token.DOT) {
			name := p.consume(token.IDENTIFIER, "Expect property name after '.'.")
			expr = &ast.Get{Object: expr, Name: name}
		} else if p.match(token.LEFT_PAREN) {
			expr = p.finish_call(expr)
		} else {
			break
		}
	}

	return expr
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Value: value.Boolean(false)}
	case p.match(token.TRUE):
		return &ast.Literal{Value: value.Boolean(true)}
	case p.match(token.NIL):
		return &ast.Literal{Value: value.Nil{}}

	case p.match(token.NUMBER):
		return &ast.Literal{Value: value.Number(p.previous.Literal.(float64))}
	case p.match(token.STRING):
		return &ast.Literal{Value: value.String(p.previous.Literal.(string))}

	case p.match(token.THIS):
		return &ast.This{Keyword: p.previous, Ref: p.newRef()}

	case p.match(token.SUPER):
		return p.super()

	case p.match(token.IDENTIFIER):
		return p.variable(p.previous)

	case p.match(token.FUN):
		return &ast.FunctionLit{Function: p.functionBody(p.previous, "function")}

	case p.match(token.LEFT_PAREN):
		expr := p.expression()
		p.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
		return &ast.Grouping{Expr: expr}
	}

	p.errorAt(p.current, "Expect expression.")
	panic(SyntaxError{})
}

func (p *Parser) super() ast.Expr {
	keyword := p.previous
	ref := p.newRef()
	p.consume(token.DOT, "Expect '.' after 'super'.")

	// Any usage of 'super' must access a method of the superclass.
	method := p.consume(token.IDENTIFIER, "Expect superclass method name.")
	return &ast.Super{Keyword: keyword, Method: method, Ref: ref}
}

// Parsing helpers
// --------------------------------------------------------

// Parses: declaration* '}'
func (p *Parser) bareBlock() []ast.Stmt {
	stmts := make([]ast.Stmt, 0)

	for !p.check(token.RIGHT_BRACE) && !p.check(token.END_OF_FILE) {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	p.consume(token.RIGHT_BRACE, "Expect '}' after block.")

	return stmts
}

// Parses call arguments: (expr (',' expr)*)? ')'
func (p *Parser) finish_call(callee ast.Expr) ast.Expr {
	args := make([]ast.Expr, 0)

	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= MAX_CALL_PARAMS {
				p.errorAt(p.current,
					"Can't have more than %v arguments.", MAX_CALL_PARAMS)
			}
			// Continue after the error as the syntax is well formed.

			args = append(args, p.expression())

			if !p.match(token.COMMA) {
				break
			}
		}
	}

	paren := p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}
}

// Makes a variable reference stamped with a fresh reference ID.
func (p *Parser) variable(name token.Token) *ast.Variable {
	return &ast.Variable{Name: name, Ref: p.newRef()}
}

func (p *Parser) newRef() ast.RefID {
	ref := ast.RefID(p.refCount)
	p.refCount++
	return ref
}

// Error reporting and recovery methods
// --------------------------------------------------------
func (p *Parser) errorAt(tok token.Token, format string, args ...any) {
	p.errors = append(p.errors, diag.At(diag.Syntax, tok, format, args...))
}

// Synchronize the token stream after seeing malformed syntax to prevent
// cascading errors and parse as much correct synytax as possible.
func (p *Parser) synchronize() {
	// Discard token on whic error happened and continue to do so until we
	// find a token which might be the begining of a new statement/declaration.
	p.advance()

	for p.current.Kind != token.END_OF_FILE {
		// If a statement or block has ended then we might see a new statement.
		switch p.previous.Kind {
		case token.SEMICOLON, token.RIGHT_BRACE:
			return
		}

		// If we see a token which is begining of a statement.
		switch p.current.Kind {
		case token.CLASS, token.FUN, token.VAR,
			token.FOR, token.IF, token.WHILE,
			token.RETURN, token.PRINT, token.BREAK:
			return

		default:
			p.advance()
		}
	}
}

// Parser token matching and processing methods
// --------------------------------------------------------
func (p *Parser) consume(kind token.TokenKind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}

	p.errorAt(p.current, "%v", message)
	panic(SyntaxError{})
}

func (p *Parser) match_any(kinds ...token.TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}

	return false
}

func (p *Parser) match(kind token.TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}

	return false
}

func (p *Parser) check(kind token.TokenKind) bool {
	return p.current.Kind == kind
}

func (p *Parser) advance() token.Token {
	p.previous = p.current
	if p.hasNext {
		p.current, p.hasNext = p.next, false
	} else {
		p.current = p.scan()
	}
	return p.previous
}

func (p *Parser) peekNext() token.Token {
	if !p.hasNext {
		p.next, p.hasNext = p.scan(), true
	}
	return p.next
}

// Returns the next valid token, lexical errors are recorded and skipped.
func (p *Parser) scan() token.Token {
	for {
		tok := p.scn.NextToken()
		if tok.Kind != token.INVALID {
			return tok
		}
		p.errors = append(p.errors, diag.At(diag.Lexical, tok, "%v", tok.Literal))
	}
}
