package parser

import (
	"fmt"

	"github.com/xirelogy/go-lox/internal/ast"
	"github.com/xirelogy/go-lox/internal/lexer"
	"github.com/xirelogy/go-lox/internal/token"
)

const maxArgs = 255

// Error is a syntax error anchored at the offending token.
type Error struct {
	Token   token.Token
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Token.Pos.Line, e.where(), e.Message)
}

// Line returns the source line of the error.
func (e *Error) Line() int { return e.Token.Pos.Line }

func (e *Error) where() string {
	switch e.Token.Type {
	case token.EOF:
		return " at end"
	case token.Illegal:
		return ""
	default:
		return fmt.Sprintf(" at '%s'", e.Token.Lexeme)
	}
}

type Parser struct {
	l         *lexer.Lexer
	curToken  token.Token
	prevToken token.Token
	errors    []*Error
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	return p
}

// Errors returns every syntax error collected so far.
func (p *Parser) Errors() []*Error {
	return p.errors
}

// Incomplete reports whether parsing failed because input ended early, as
// happens with an unclosed block typed into a REPL.
func (p *Parser) Incomplete() bool {
	for _, err := range p.errors {
		if err.Token.Type == token.EOF {
			return true
		}
	}
	return false
}

// nextToken advances, reporting and skipping lexer errors.
func (p *Parser) nextToken() token.Token {
	p.prevToken = p.curToken
	for {
		tok := p.l.NextToken()
		if tok.Type != token.Illegal {
			p.curToken = tok
			break
		}
		msg, _ := tok.Literal.(string)
		p.errors = append(p.errors, &Error{Token: tok, Message: msg})
		if msg == "Unterminated string." {
			// the string swallowed the rest of the input
			tok.Type = token.EOF
			p.curToken = tok
			break
		}
	}
	return p.prevToken
}

func (p *Parser) ParseProgram() []ast.Stmt {
	var stmts []ast.Stmt
	for p.curToken.Type != token.EOF {
		if stmt := p.parseDeclaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// parseDeclaration returns nil after a syntax error, having resynchronized
// at the next statement boundary.
func (p *Parser) parseDeclaration() ast.Stmt {
	var stmt ast.Stmt
	switch {
	case p.match(token.Class):
		stmt = p.parseClass()
	case p.match(token.Fun):
		if fn := p.parseFunction("function"); fn != nil {
			stmt = fn
		}
	case p.match(token.Var):
		stmt = p.parseVar()
	default:
		stmt = p.parseStatement()
	}
	if stmt == nil {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) parseClass() ast.Stmt {
	name, ok := p.consume(token.Ident, "Expect class name.")
	if !ok {
		return nil
	}
	class := &ast.Class{Name: name}
	if p.match(token.Less) {
		super, ok := p.consume(token.Ident, "Expect superclass name.")
		if !ok {
			return nil
		}
		class.Superclass = &ast.Variable{Name: super}
	}
	if _, ok := p.consume(token.LBrace, "Expect '{' before class body."); !ok {
		return nil
	}
	for !p.check(token.RBrace) && p.curToken.Type != token.EOF {
		method := p.parseFunction("method")
		if method == nil {
			return nil
		}
		class.Methods = append(class.Methods, method)
	}
	if _, ok := p.consume(token.RBrace, "Expect '}' after class body."); !ok {
		return nil
	}
	return class
}

func (p *Parser) parseFunction(kind string) *ast.Function {
	name, ok := p.consume(token.Ident, fmt.Sprintf("Expect %s name.", kind))
	if !ok {
		return nil
	}
	if _, ok := p.consume(token.LParen, fmt.Sprintf("Expect '(' after %s name.", kind)); !ok {
		return nil
	}
	fn := &ast.Function{Name: name}
	if !p.check(token.RParen) {
		for {
			if len(fn.Params) >= maxArgs {
				p.errorAt(p.curToken, "Can't have more than 255 parameters.")
			}
			param, ok := p.consume(token.Ident, "Expect parameter name.")
			if !ok {
				return nil
			}
			fn.Params = append(fn.Params, param)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, ok := p.consume(token.RParen, "Expect ')' after parameters."); !ok {
		return nil
	}
	if _, ok := p.consume(token.LBrace, fmt.Sprintf("Expect '{' before %s body.", kind)); !ok {
		return nil
	}
	body, ok := p.parseBlockBody()
	if !ok {
		return nil
	}
	fn.Body = body
	return fn
}

func (p *Parser) parseVar() ast.Stmt {
	name, ok := p.consume(token.Ident, "Expect variable name.")
	if !ok {
		return nil
	}
	stmt := &ast.Var{Name: name}
	if p.match(token.Assign) {
		if stmt.Initializer = p.parseExpression(); stmt.Initializer == nil {
			return nil
		}
	}
	if _, ok := p.consume(token.Semicolon, "Expect ';' after variable declaration."); !ok {
		return nil
	}
	return stmt
}

func (p *Parser) parseStatement() ast.Stmt {
	switch {
	case p.match(token.For):
		return p.parseFor()
	case p.match(token.If):
		return p.parseIf()
	case p.match(token.Print):
		return p.parsePrint()
	case p.match(token.Return):
		return p.parseReturn()
	case p.match(token.While):
		return p.parseWhile()
	case p.match(token.Break):
		return p.parseJump(&ast.Break{Keyword: p.prevToken}, "break")
	case p.match(token.Continue):
		return p.parseJump(&ast.Continue{Keyword: p.prevToken}, "continue")
	case p.match(token.LBrace):
		block := &ast.Block{LBrace: p.prevToken.Pos}
		body, ok := p.parseBlockBody()
		if !ok {
			return nil
		}
		block.Statements = body
		return block
	default:
		return p.parseExprStatement()
	}
}

// parseFor desugars `for (init; cond; incr) body` into
// Block{init, While{cond, body, incr}}.
func (p *Parser) parseFor() ast.Stmt {
	keyword := p.prevToken
	if _, ok := p.consume(token.LParen, "Expect '(' after 'for'."); !ok {
		return nil
	}

	var init ast.Stmt
	switch {
	case p.match(token.Semicolon):
	case p.match(token.Var):
		if init = p.parseVar(); init == nil {
			return nil
		}
	default:
		if init = p.parseExprStatement(); init == nil {
			return nil
		}
	}

	var cond ast.Expr
	if !p.check(token.Semicolon) {
		if cond = p.parseExpression(); cond == nil {
			return nil
		}
	}
	if _, ok := p.consume(token.Semicolon, "Expect ';' after loop condition."); !ok {
		return nil
	}

	var incr ast.Expr
	if !p.check(token.RParen) {
		if incr = p.parseExpression(); incr == nil {
			return nil
		}
	}
	if _, ok := p.consume(token.RParen, "Expect ')' after for clauses."); !ok {
		return nil
	}

	body := p.parseStatement()
	if body == nil {
		return nil
	}
	if cond == nil {
		cond = &ast.Literal{Value: true, PosT: keyword.Pos}
	}
	var loop ast.Stmt = &ast.While{Keyword: keyword, Condition: cond, Body: body, Increment: incr}
	if init != nil {
		loop = &ast.Block{LBrace: keyword.Pos, Statements: []ast.Stmt{init, loop}}
	}
	return loop
}

func (p *Parser) parseIf() ast.Stmt {
	stmt := &ast.If{Keyword: p.prevToken}
	if _, ok := p.consume(token.LParen, "Expect '(' after 'if'."); !ok {
		return nil
	}
	if stmt.Condition = p.parseExpression(); stmt.Condition == nil {
		return nil
	}
	if _, ok := p.consume(token.RParen, "Expect ')' after if condition."); !ok {
		return nil
	}
	if stmt.Then = p.parseStatement(); stmt.Then == nil {
		return nil
	}
	if p.match(token.Else) {
		if stmt.Else = p.parseStatement(); stmt.Else == nil {
			return nil
		}
	}
	return stmt
}

func (p *Parser) parsePrint() ast.Stmt {
	stmt := &ast.Print{Keyword: p.prevToken}
	if stmt.Expression = p.parseExpression(); stmt.Expression == nil {
		return nil
	}
	if _, ok := p.consume(token.Semicolon, "Expect ';' after value."); !ok {
		return nil
	}
	return stmt
}

func (p *Parser) parseReturn() ast.Stmt {
	stmt := &ast.Return{Keyword: p.prevToken}
	if !p.check(token.Semicolon) {
		if stmt.Value = p.parseExpression(); stmt.Value == nil {
			return nil
		}
	}
	if _, ok := p.consume(token.Semicolon, "Expect ';' after return value."); !ok {
		return nil
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	stmt := &ast.While{Keyword: p.prevToken}
	if _, ok := p.consume(token.LParen, "Expect '(' after 'while'."); !ok {
		return nil
	}
	if stmt.Condition = p.parseExpression(); stmt.Condition == nil {
		return nil
	}
	if _, ok := p.consume(token.RParen, "Expect ')' after condition."); !ok {
		return nil
	}
	if stmt.Body = p.parseStatement(); stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseJump(stmt ast.Stmt, keyword string) ast.Stmt {
	if _, ok := p.consume(token.Semicolon, fmt.Sprintf("Expect ';' after '%s'.", keyword)); !ok {
		return nil
	}
	return stmt
}

// parseBlockBody parses declarations up to and including the closing brace.
func (p *Parser) parseBlockBody() ([]ast.Stmt, bool) {
	stmts := []ast.Stmt{}
	for !p.check(token.RBrace) && p.curToken.Type != token.EOF {
		if stmt := p.parseDeclaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if _, ok := p.consume(token.RBrace, "Expect '}' after block."); !ok {
		return nil, false
	}
	return stmts, true
}

func (p *Parser) parseExprStatement() ast.Stmt {
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	if _, ok := p.consume(token.Semicolon, "Expect ';' after expression."); !ok {
		return nil
	}
	return &ast.Expression{Expression: expr}
}

func (p *Parser) consume(t token.Type, msg string) (token.Token, bool) {
	if p.check(t) {
		return p.nextToken(), true
	}
	p.errorAt(p.curToken, msg)
	return token.Token{}, false
}

func (p *Parser) check(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.nextToken()
			return true
		}
	}
	return false
}

func (p *Parser) errorAt(tok token.Token, msg string) {
	p.errors = append(p.errors, &Error{Token: tok, Message: msg})
}

// synchronize discards tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	if p.curToken.Type == token.EOF {
		return
	}
	p.nextToken()
	for p.curToken.Type != token.EOF {
		if p.prevToken.Type == token.Semicolon {
			return
		}
		switch p.curToken.Type {
		case token.Class, token.Fun, token.Var, token.For, token.If,
			token.While, token.Print, token.Return:
			return
		}
		p.nextToken()
	}
}
