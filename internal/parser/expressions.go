package parser

import (
	"github.com/xirelogy/go-lox/internal/ast"
	"github.com/xirelogy/go-lox/internal/token"
)

// Expression parsers return nil after recording an error.

func (p *Parser) parseExpression() ast.Expr {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() ast.Expr {
	expr := p.parseOr()
	if expr == nil {
		return nil
	}
	if !p.match(token.Assign) {
		return expr
	}
	equals := p.prevToken
	value := p.parseAssignment()
	if value == nil {
		return nil
	}
	switch target := expr.(type) {
	case *ast.Variable:
		return &ast.Assign{Name: target.Name, Value: value}
	case *ast.Get:
		return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
	}
	// reported but not fatal: the parser is not confused
	p.errorAt(equals, "Invalid assignment target.")
	return expr
}

func (p *Parser) parseOr() ast.Expr {
	return p.parseLogical(p.parseAnd, token.Or)
}

func (p *Parser) parseAnd() ast.Expr {
	return p.parseLogical(p.parseEquality, token.And)
}

func (p *Parser) parseLogical(operand func() ast.Expr, op token.Type) ast.Expr {
	left := operand()
	for left != nil && p.match(op) {
		operator := p.prevToken
		right := operand()
		if right == nil {
			return nil
		}
		left = &ast.Logical{Left: left, Operator: operator, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	return p.parseBinary(p.parseComparison, token.NotEqual, token.Equal)
}

func (p *Parser) parseComparison() ast.Expr {
	return p.parseBinary(p.parseTerm, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *Parser) parseTerm() ast.Expr {
	return p.parseBinary(p.parseFactor, token.Minus, token.Plus)
}

func (p *Parser) parseFactor() ast.Expr {
	return p.parseBinary(p.parseUnary, token.Slash, token.Star)
}

// parseBinary parses a left-associative chain of operators at one
// precedence level.
func (p *Parser) parseBinary(operand func() ast.Expr, ops ...token.Type) ast.Expr {
	left := operand()
	for left != nil && p.match(ops...) {
		operator := p.prevToken
		right := operand()
		if right == nil {
			return nil
		}
		left = &ast.Binary{Left: left, Operator: operator, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.match(token.Bang, token.Minus) {
		operator := p.prevToken
		right := p.parseUnary()
		if right == nil {
			return nil
		}
		return &ast.Unary{Operator: operator, Right: right}
	}
	return p.parseCall()
}

func (p *Parser) parseCall() ast.Expr {
	expr := p.parsePrimary()
	for expr != nil {
		switch {
		case p.match(token.LParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name, ok := p.consume(token.Ident, "Expect property name after '.'.")
			if !ok {
				return nil
			}
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
	return nil
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RParen) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.curToken, "Can't have more than 255 arguments.")
			}
			arg := p.parseExpression()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren, ok := p.consume(token.RParen, "Expect ')' after arguments.")
	if !ok {
		return nil
	}
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.curToken
	switch tok.Type {
	case token.False:
		p.nextToken()
		return &ast.Literal{Value: false, PosT: tok.Pos}
	case token.True:
		p.nextToken()
		return &ast.Literal{Value: true, PosT: tok.Pos}
	case token.Nil:
		p.nextToken()
		return &ast.Literal{Value: nil, PosT: tok.Pos}
	case token.Number, token.String:
		p.nextToken()
		return &ast.Literal{Value: tok.Literal, PosT: tok.Pos}
	case token.This:
		p.nextToken()
		return &ast.This{Keyword: tok}
	case token.Super:
		p.nextToken()
		if _, ok := p.consume(token.Dot, "Expect '.' after 'super'."); !ok {
			return nil
		}
		method, ok := p.consume(token.Ident, "Expect superclass method name.")
		if !ok {
			return nil
		}
		return &ast.Super{Keyword: tok, Method: method}
	case token.Ident:
		p.nextToken()
		return &ast.Variable{Name: tok}
	case token.LParen:
		p.nextToken()
		inner := p.parseExpression()
		if inner == nil {
			return nil
		}
		if _, ok := p.consume(token.RParen, "Expect ')' after expression."); !ok {
			return nil
		}
		return &ast.Grouping{Expression: inner}
	}
	p.errorAt(tok, "Expect expression.")
	return nil
}
