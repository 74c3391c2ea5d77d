package parser

import (
	"github.com/flowlang/flo/internal/ast"
	"github.com/flowlang/flo/internal/token"
)

func (p *Parser) registerParseFns() {
	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.NUMBER:    p.parseNumberLiteral,
		token.STRING:    p.parseStringLiteral,
		token.TEMPLATE:  p.parseTemplateString,
		token.BOOLEAN:   p.parseBooleanLiteral,
		token.NULL:      p.parseNullLiteral,
		token.IDENT:     p.parseIdentifier,
		token.PLACEHOLD: p.parsePlaceholder,
		token.MINUS:     p.parseUnaryExpr,
		token.BANG:      p.parseUnaryExpr,
		token.LPAREN:    p.parseParenOrFunctionLiteral,
		token.LBRACKET:  p.parseListLiteral,
		token.LBRACE:    p.parseRecordLiteral,
		token.AWAIT:     p.parseAwaitExpr,
		token.RETURN:    p.parseReturnExpr,
		token.MATCH:     p.parseMatchExpr,
		token.PIPE_FWD:  p.parsePipelineLiteral,
	}

	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS:        p.parseBinaryExpr,
		token.MINUS:       p.parseBinaryExpr,
		token.STAR:        p.parseBinaryExpr,
		token.SLASH:       p.parseBinaryExpr,
		token.PERCENT:     p.parseBinaryExpr,
		token.EQ:          p.parseBinaryExpr,
		token.NOT_EQ:      p.parseBinaryExpr,
		token.LT:          p.parseBinaryExpr,
		token.GT:          p.parseBinaryExpr,
		token.LT_EQ:       p.parseBinaryExpr,
		token.GT_EQ:       p.parseBinaryExpr,
		token.AMP_AMP:     p.parseBinaryExpr,
		token.PIPE_PIPE:   p.parseBinaryExpr,
		token.QUESTION:    p.parseTernaryExpr,
		token.PIPE_FWD:    p.parsePipeExpr,
		token.PIPE_SPREAD: p.parseSpreadPipeExpr,
		token.PIPE_PAR:    p.parseParallelPipeExpr,
		token.PIPE_REV:    p.parseReversePipeExpr,
		token.DOT:         p.parseMemberExpr,
		token.LBRACKET:    p.parseIndexExpr,
		token.LPAREN:      p.parseCallExpr,
	}
}

// parseExpression is the Pratt loop: parse a prefix production, then keep
// folding in infix operators whose precedence beats the floor passed in.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix, ok := p.prefixParseFns[p.cur().Type]
	if !ok {
		p.errorf("no prefix parse function for %s (%q) at line %d", p.cur().Type, p.cur().Lexeme, p.cur().Line)
		return nil
	}
	left := prefix()

	p.skipContinuationNewlines()
	for !p.curIs(token.NEWLINE) && precedence < p.curPrecedence() {
		infix, ok := p.infixParseFns[p.cur().Type]
		if !ok {
			return left
		}
		left = infix(left)
		p.skipContinuationNewlines()
	}
	return left
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	tok := p.advance()
	switch v := tok.Literal.(type) {
	case int64:
		return &ast.NumberLiteral{Token: tok, Value: float64(v), IsInt: true}
	case float64:
		return &ast.NumberLiteral{Token: tok, Value: v, IsInt: false}
	default:
		return &ast.NumberLiteral{Token: tok}
	}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.advance()
	return &ast.StringLiteral{Token: tok, Value: tok.Literal.(string)}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	tok := p.advance()
	return &ast.BooleanLiteral{Token: tok, Value: tok.Literal.(bool)}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.NullLiteral{Token: p.advance()}
}

func (p *Parser) parseIdentifier() ast.Expression {
	tok := p.advance()
	if tok.Lexeme == "input" {
		return &ast.PlaceholderExpr{Token: tok}
	}
	return &ast.Identifier{Token: tok, Value: tok.Lexeme}
}

func (p *Parser) parsePlaceholder() ast.Expression {
	return &ast.PlaceholderExpr{Token: p.advance()}
}

func (p *Parser) parseUnaryExpr() ast.Expression {
	tok := p.advance()
	right := p.parseExpression(PREFIX)
	return &ast.UnaryExpr{Token: tok, Operator: tok.Lexeme, Right: right}
}

func (p *Parser) parseBinaryExpr(left ast.Expression) ast.Expression {
	tok := p.cur()
	precedence := p.curPrecedence()
	p.advance()
	right := p.parseExpression(precedence)
	return &ast.BinaryExpr{Token: tok, Operator: tok.Lexeme, Left: left, Right: right}
}

func (p *Parser) parseTernaryExpr(cond ast.Expression) ast.Expression {
	tok := p.cur() // the '?'
	p.advance()
	then := p.parseExpression(LOWEST)
	p.expect(token.COLON)
	els := p.parseExpression(TERNARY)
	return &ast.TernaryExpr{Token: tok, Condition: cond, Then: then, Else: els}
}

// parsePipeExpr handles `left /> right`. The right side is parsed at PIPE
// precedence so it absorbs everything that binds tighter than a pipe (a
// call, a ternary-bodied lambda, arithmetic) but stops before a further
// sibling pipe operator, letting this same loop iteration continue
// chaining them left-associatively.
func (p *Parser) parsePipeExpr(left ast.Expression) ast.Expression {
	tok := p.cur()
	p.advance()
	right := p.parseExpression(PIPE)
	return &ast.PipeExpr{Token: tok, Left: left, Right: right}
}

func (p *Parser) parseSpreadPipeExpr(left ast.Expression) ast.Expression {
	tok := p.cur()
	p.advance()
	right := p.parseExpression(PIPE)
	return &ast.SpreadPipeExpr{Token: tok, Left: left, Right: right}
}

// parseParallelPipeExpr handles `\>`: if left is already a ParallelPipeExpr
// (from a previous `\>` in this chain) the new branch is appended;
// otherwise a new group is started with left as Input.
func (p *Parser) parseParallelPipeExpr(left ast.Expression) ast.Expression {
	tok := p.cur()
	p.advance()
	branch := p.parseExpression(PIPE)
	if group, ok := left.(*ast.ParallelPipeExpr); ok {
		group.Branches = append(group.Branches, branch)
		return group
	}
	return &ast.ParallelPipeExpr{Token: tok, Input: left, Branches: []ast.Expression{branch}}
}

func (p *Parser) parseReversePipeExpr(left ast.Expression) ast.Expression {
	tok := p.cur()
	p.advance()
	target := p.parseExpression(PIPE)
	return &ast.ReversePipeExpr{Token: tok, Value: left, Target: target}
}

func (p *Parser) parseMemberExpr(left ast.Expression) ast.Expression {
	tok := p.cur()
	p.advance()
	prop := p.expect(token.IDENT).Lexeme
	return &ast.MemberExpr{Token: tok, Object: left, Property: prop}
}

func (p *Parser) parseIndexExpr(left ast.Expression) ast.Expression {
	tok := p.cur()
	p.advance()
	idx := p.parseExpression(LOWEST)
	p.expect(token.RBRACKET)
	return &ast.IndexExpr{Token: tok, Left: left, Index: idx}
}

func (p *Parser) parseCallExpr(callee ast.Expression) ast.Expression {
	tok := p.cur()
	p.advance()
	var args []ast.Expression
	for !p.curIs(token.RPAREN) {
		args = append(args, p.parseExpression(LOWEST))
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return &ast.CallExpr{Token: tok, Callee: callee, Args: args}
}

func (p *Parser) parseAwaitExpr() ast.Expression {
	tok := p.advance()
	val := p.parseExpression(PREFIX)
	return &ast.AwaitExpr{Token: tok, Value: val}
}

func (p *Parser) parseReturnExpr() ast.Expression {
	tok := p.advance()
	if p.curIs(token.NEWLINE) || p.curIs(token.SEMICOLON) || p.curIs(token.RBRACE) || p.curIs(token.EOF) {
		return &ast.ReturnExpr{Token: tok}
	}
	val := p.parseExpression(LOWEST)
	return &ast.ReturnExpr{Token: tok, Value: val}
}

func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.advance()
	var elems []ast.Expression
	for !p.curIs(token.RBRACKET) {
		elems = append(elems, p.parseExpression(LOWEST))
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACKET)
	return &ast.ListExpr{Token: tok, Elements: elems}
}

func (p *Parser) parseRecordLiteral() ast.Expression {
	tok := p.advance()
	var fields []*ast.RecordField
	p.skipNewlines()
	for !p.curIs(token.RBRACE) {
		name := p.expect(token.IDENT).Lexeme
		p.expect(token.COLON)
		val := p.parseExpression(LOWEST)
		fields = append(fields, &ast.RecordField{Name: name, Value: val})
		if p.curIs(token.COMMA) {
			p.advance()
			p.skipNewlines()
		}
	}
	p.expect(token.RBRACE)
	return &ast.RecordExpr{Token: tok, Fields: fields}
}
