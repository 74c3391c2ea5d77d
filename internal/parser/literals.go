package parser

import (
	"strings"

	"github.com/flowlang/flo/internal/ast"
	"github.com/flowlang/flo/internal/token"
)

// parseParenOrFunctionLiteral resolves the `(` ambiguity by scanning ahead
// to the matching `)` and inspecting what follows it: `->`/`<-` (and the
// optional `with Name, ...` clause before them) mean this is a function
// literal's parameter list; otherwise it is a parenthesized expression or,
// with more than one comma-separated element, a tuple literal.
func (p *Parser) parseParenOrFunctionLiteral() ast.Expression {
	start := p.pos
	close := p.matchingParen(start)
	after := close + 1

	if p.looksLikeFunctionHead(after) {
		return p.parseFunctionLiteral()
	}

	tok := p.advance() // consume '('
	if p.curIs(token.RPAREN) {
		p.advance()
		return &ast.TupleExpr{Token: tok}
	}
	var elems []ast.Expression
	sawComma := false
	elems = append(elems, p.parseExpression(LOWEST))
	for p.curIs(token.COMMA) {
		sawComma = true
		p.advance()
		if p.curIs(token.RPAREN) {
			break
		}
		elems = append(elems, p.parseExpression(LOWEST))
	}
	p.expect(token.RPAREN)
	if !sawComma {
		return elems[0]
	}
	return &ast.TupleExpr{Token: tok, Elements: elems}
}

func (p *Parser) looksLikeFunctionHead(afterParenIdx int) bool {
	after := p.peekAt(afterParenIdx - p.pos)
	switch after.Type {
	case token.ARROW, token.REVARROW:
		return true
	case token.IDENT:
		return after.Lexeme == "with"
	}
	return false
}

// parseFunctionLiteral parses `(params) [with Ctx, ...] -> body` or the
// reverse-bodied `<-` form, then trailing `#decorator` annotations.
func (p *Parser) parseFunctionLiteral() ast.Expression {
	tok := p.cur()
	p.expect(token.LPAREN)

	var params []*ast.Parameter
	for !p.curIs(token.RPAREN) {
		var name string
		if p.curIs(token.PLACEHOLD) {
			name = p.advance().Lexeme
		} else {
			name = p.expect(token.IDENT).Lexeme
		}
		param := &ast.Parameter{Name: name}
		if p.curIs(token.COLON) {
			p.advance()
			param.Type = p.expect(token.IDENT).Lexeme
		}
		if p.curIs(token.ASSIGN) {
			p.advance()
			param.Default = p.parseExpression(LOWEST)
		}
		params = append(params, param)
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)

	var attachments []string
	if p.curIs(token.IDENT) && p.cur().Lexeme == "with" {
		p.advance()
		for {
			attachments = append(attachments, p.expect(token.IDENT).Lexeme)
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}

	isReverse := false
	if p.curIs(token.ARROW) {
		p.advance()
	} else if p.curIs(token.REVARROW) {
		isReverse = true
		p.advance()
	} else {
		p.expect(token.ARROW)
	}

	fn := &ast.FunctionExpr{Token: tok, Parameters: params, Attachments: attachments, IsReverse: isReverse}

	if p.curIs(token.LBRACE) {
		fn.BlockBody = p.parseBlockExpr()
	} else {
		// A bare-lambda body is parsed with the PIPE floor so it does not
		// swallow a sibling pipe stage/branch when this literal itself is
		// used unparenthesized as one (see precedence comment in parser.go).
		fn.Body = p.parseExpression(PIPE)
	}

	fn.Decorators = p.parseTrailingDecorators()
	return fn
}

func (p *Parser) parseBlockExpr() *ast.BlockExpr {
	tok := p.advance() // consume '{'
	block := &ast.BlockExpr{Token: tok}
	p.skipNewlines()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		p.skipStatementEnd()
		if p.curIs(token.RBRACE) {
			if es, ok := stmt.(*ast.ExprStmt); ok {
				block.Result = es.Expression
				break
			}
		}
		block.Statements = append(block.Statements, stmt)
	}
	p.expect(token.RBRACE)
	return block
}

// parsePipelineLiteral parses a standalone `/> stage /> stage ...` rvalue.
// A `[a, b]` stage is a parallel branch group; a
// `spread(expr)` stage marks a spread stage.
func (p *Parser) parsePipelineLiteral() ast.Expression {
	tok := p.cur()
	var stages []*ast.PipelineStage
	for p.curIs(token.PIPE_FWD) {
		p.advance()
		stages = append(stages, p.parsePipelineStage())
	}
	if p.curIs(token.PIPE_REV) {
		forward := make([]ast.Expression, len(stages))
		for i, s := range stages {
			forward[i] = s.Expr
		}
		var reverse []ast.Expression
		for p.curIs(token.PIPE_REV) {
			p.advance()
			reverse = append(reverse, p.parseExpression(PIPE))
		}
		bp := &ast.BidirectionalPipelineLit{Token: tok, Forward: forward, Reverse: reverse}
		bp.Decorators = p.parseTrailingDecorators()
		return bp
	}
	pl := &ast.PipelineLiteral{Token: tok, Stages: stages}
	pl.Decorators = p.parseTrailingDecorators()
	return pl
}

func (p *Parser) parsePipelineStage() *ast.PipelineStage {
	if p.curIs(token.LBRACKET) {
		p.advance()
		var branches []ast.Expression
		for !p.curIs(token.RBRACKET) {
			branches = append(branches, p.parseExpression(LOWEST))
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RBRACKET)
		return &ast.PipelineStage{Kind: "parallel", Branches: branches}
	}
	expr := p.parseExpression(PIPE)
	if call, ok := expr.(*ast.CallExpr); ok {
		if ident, ok := call.Callee.(*ast.Identifier); ok && ident.Value == "spread" && len(call.Args) == 1 {
			return &ast.PipelineStage{Kind: "spread", Expr: call.Args[0]}
		}
	}
	return &ast.PipelineStage{Kind: "regular", Expr: expr}
}

// parseMatchExpr parses `match value | pattern -> body | if guard -> body
// | default_body`. Each case after the scrutinee starts
// with `|`, on the same line or a following one; a case is a guard if it
// begins with `if`, otherwise an expression is parsed and classified as a
// pattern (if followed by `->`) or the default (if not).
func (p *Parser) parseMatchExpr() ast.Expression {
	tok := p.advance() // consume 'match'
	value := p.parseExpression(PIPE)

	var cases []*ast.MatchCase
	for {
		i := p.pos
		for i < len(p.tokens)-1 && p.tokens[i].Type == token.NEWLINE {
			i++
		}
		if p.tokens[i].Type != token.CASE_SEP {
			break
		}
		p.pos = i
		p.advance()
		cases = append(cases, p.parseMatchCase())
	}
	return &ast.MatchExpr{Token: tok, Value: value, Cases: cases}
}

func (p *Parser) parseMatchCase() *ast.MatchCase {
	if p.curIs(token.IF) {
		p.advance()
		guard := p.parseExpression(LOWEST)
		p.expect(token.ARROW)
		body := p.parseExpression(PIPE)
		return &ast.MatchCase{Guard: guard, Body: body}
	}
	expr := p.parseExpression(LOWEST)
	if p.curIs(token.ARROW) {
		p.advance()
		body := p.parseExpression(PIPE)
		return &ast.MatchCase{Pattern: expr, Body: body}
	}
	return &ast.MatchCase{Body: expr}
}

// parseTemplateString splits a raw backtick literal's text on `${...}`
// boundaries and parses each interpolated segment as its own expression
// via a nested Parser.
func (p *Parser) parseTemplateString() ast.Expression {
	tok := p.advance()
	raw := tok.Literal.(string)

	var literals []string
	var exprs []ast.Expression
	var buf strings.Builder
	i := 0
	for i < len(raw) {
		if raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{' {
			depth := 1
			j := i + 2
			for j < len(raw) && depth > 0 {
				switch raw[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth == 0 {
					break
				}
				j++
			}
			literals = append(literals, buf.String())
			buf.Reset()
			exprSrc := raw[i+2 : j]
			sub := New(exprSrc)
			exprs = append(exprs, sub.parseExpression(LOWEST))
			i = j + 1
			continue
		}
		buf.WriteByte(raw[i])
		i++
	}
	literals = append(literals, buf.String())

	return &ast.TemplateStringExpr{Token: tok, Literals: literals, Exprs: exprs}
}
