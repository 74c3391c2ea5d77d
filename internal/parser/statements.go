package parser

import (
	"github.com/flowlang/flo/internal/ast"
	"github.com/flowlang/flo/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Type {
	case token.LET, token.MAYBE:
		return p.parseLetStatement()
	case token.AND:
		return p.parseAndStatement()
	case token.CONTEXT:
		return p.parseContextDefStatement()
	case token.PROVIDE:
		return p.parseProvideStatement()
	case token.DECORATOR:
		return p.parseDecoratorDefStatement()
	case token.LBRACE:
		return p.parseCodeblockStatement()
	case token.IDENT:
		if p.peek().Type == token.ASSIGN {
			return p.parseAssignStatement()
		}
		return p.parseExprStatement()
	default:
		return p.parseExprStatement()
	}
}

// parseAssignStatement handles bare `name = value` reassignment of an
// already-bound `maybe` name. Distinguished from
// `let`/`and` by the absence of a leading keyword.
func (p *Parser) parseAssignStatement() ast.Statement {
	tok := p.cur()
	name := p.advance().Lexeme
	p.expect(token.ASSIGN)
	value := p.parseExpression(LOWEST)
	return &ast.AssignStmt{Token: tok, Name: name, Value: value}
}

// parseLetStatement handles `let name = value`, `maybe name = value`,
// `let (a, b) = value` destructuring, and — when the value is followed by
// `in` — reparses as the expression-position LetInExpr wrapped in an
// ExprStmt, since `let x = v in body` is itself an expression.
func (p *Parser) parseLetStatement() ast.Statement {
	tok := p.cur()
	mutable := tok.Type == token.MAYBE
	p.advance() // consume let/maybe

	if p.curIs(token.LPAREN) {
		return p.parseDestructureLet(tok, mutable)
	}

	name := p.expect(token.IDENT).Lexeme
	p.expect(token.ASSIGN)
	value := p.parseExpression(LOWEST)

	if p.curIs(token.IN) {
		p.advance()
		body := p.parseExpression(LOWEST)
		return &ast.ExprStmt{
			Token: tok,
			Expression: &ast.LetInExpr{
				Token: tok, Name: name, Mutable: mutable, Value: value, Body: body,
			},
		}
	}

	stmt := &ast.LetStmt{Token: tok, Name: name, Mutable: mutable, Value: value}
	stmt.Decorators = p.parseTrailingDecorators()
	return stmt
}

func (p *Parser) parseDestructureLet(tok token.Token, mutable bool) ast.Statement {
	p.expect(token.LPAREN)
	var names []string
	for !p.curIs(token.RPAREN) {
		names = append(names, p.expect(token.IDENT).Lexeme)
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	p.expect(token.ASSIGN)
	value := p.parseExpression(LOWEST)
	return &ast.LetStmt{Token: tok, Pattern: names, Mutable: mutable, Value: value}
}

func (p *Parser) parseAndStatement() ast.Statement {
	tok := p.advance()
	name := p.expect(token.IDENT).Lexeme
	p.expect(token.ASSIGN)
	value := p.parseExpression(LOWEST)
	return &ast.AndStmt{Token: tok, Name: name, Value: value}
}

func (p *Parser) parseContextDefStatement() ast.Statement {
	tok := p.advance()
	name := p.expect(token.IDENT).Lexeme
	var def ast.Expression
	if p.curIs(token.ASSIGN) {
		p.advance()
		def = p.parseExpression(LOWEST)
	}
	return &ast.ContextDefStmt{Token: tok, Name: name, Default: def}
}

func (p *Parser) parseProvideStatement() ast.Statement {
	tok := p.advance()
	name := p.expect(token.IDENT).Lexeme
	p.expect(token.ASSIGN)
	value := p.parseExpression(LOWEST)
	return &ast.ProvideStmt{Token: tok, Name: name, Value: value}
}

func (p *Parser) parseDecoratorDefStatement() ast.Statement {
	tok := p.advance()
	name := p.expect(token.IDENT).Lexeme
	p.expect(token.ASSIGN)
	value := p.parseExpression(LOWEST)
	return &ast.DecoratorDefStmt{Token: tok, Name: name, Value: value}
}

func (p *Parser) parseCodeblockStatement() ast.Statement {
	tok := p.advance()
	var stmts []ast.Statement
	p.skipNewlines()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmts = append(stmts, p.parseStatement())
		p.skipStatementEnd()
	}
	p.expect(token.RBRACE)
	return &ast.CodeblockStmt{Token: tok, Statements: stmts}
}

func (p *Parser) parseExprStatement() ast.Statement {
	tok := p.cur()
	expr := p.parseExpression(LOWEST)
	return &ast.ExprStmt{Token: tok, Expression: expr}
}

// parseTrailingDecorators consumes zero or more `#name` / `#name(args)`
// annotations following a let-bound function/pipeline literal.
func (p *Parser) parseTrailingDecorators() []*ast.DecoratorUse {
	var out []*ast.DecoratorUse
	for p.curIs(token.HASH) {
		p.advance()
		name := p.expect(token.IDENT).Lexeme
		var args []ast.Expression
		if p.curIs(token.LPAREN) {
			p.advance()
			for !p.curIs(token.RPAREN) {
				args = append(args, p.parseExpression(LOWEST))
				if p.curIs(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RPAREN)
		}
		out = append(out, &ast.DecoratorUse{Name: name, Args: args})
	}
	return out
}
