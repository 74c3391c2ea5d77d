// Package parser implements a Pratt (operator-precedence) recursive
// descent parser that turns a Flo token stream into an *ast.Program.
package parser

import (
	"fmt"

	"github.com/flowlang/flo/internal/ast"
	"github.com/flowlang/flo/internal/lexer"
	"github.com/flowlang/flo/internal/token"
)

// Precedence levels, lowest to highest. Pipe sits below ternary/boolean/
// comparison/arithmetic operators so that a bare lambda used as a pipe
// stage or parallel-pipe branch (no enclosing parens) does not swallow a
// sibling stage: its body is parsed with the PIPE floor, which lets it
// consume everything that binds tighter than a pipe while still handing
// control back to the enclosing pipe chain.
const (
	_ int = iota
	LOWEST
	PIPE
	TERNARY
	OR
	AND
	EQUALITY
	COMPARISON
	SUM
	PRODUCT
	PREFIX
	CALL
)

var precedences = map[token.Type]int{
	token.PIPE_FWD:    PIPE,
	token.PIPE_SPREAD:  PIPE,
	token.PIPE_PAR:    PIPE,
	token.PIPE_REV:    PIPE,
	token.QUESTION:    TERNARY,
	token.PIPE_PIPE:   OR,
	token.AMP_AMP:     AND,
	token.EQ:          EQUALITY,
	token.NOT_EQ:      EQUALITY,
	token.LT:          COMPARISON,
	token.GT:          COMPARISON,
	token.LT_EQ:       COMPARISON,
	token.GT_EQ:       COMPARISON,
	token.PLUS:        SUM,
	token.MINUS:       SUM,
	token.STAR:        PRODUCT,
	token.SLASH:       PRODUCT,
	token.PERCENT:     PRODUCT,
	token.DOT:         CALL,
	token.LBRACKET:    CALL,
	token.LPAREN:      CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser consumes a pre-tokenized buffer (rather than a lazily pulled
// stream) so that ambiguous forms — chiefly "(" starting either a
// parenthesized/tuple expression or a function literal's parameter list —
// can be resolved by scanning ahead to the matching ")" before committing
// to a grammar production.
type Parser struct {
	tokens []token.Token
	pos    int

	Errors []string

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New tokenizes input in full and returns a Parser ready to produce a
// Program from it.
func New(input string) *Parser {
	l := lexer.New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	p := &Parser{tokens: toks}
	p.registerParseFns()
	return p
}

func (p *Parser) cur() token.Token  { return p.tokens[p.pos] }
func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}
func (p *Parser) peekAt(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}
func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur().Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek().Type == t }

func (p *Parser) expect(t token.Type) token.Token {
	if p.curIs(t) {
		return p.advance()
	}
	p.errorf("expected %s, got %s (%q) at line %d", t, p.cur().Type, p.cur().Lexeme, p.cur().Line)
	return p.cur()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.Errors = append(p.Errors, fmt.Sprintf(format, args...))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek().Type]; ok {
		return pr
	}
	return LOWEST
}
func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur().Type]; ok {
		return pr
	}
	return LOWEST
}

// skipNewlines consumes statement-separating newlines.
func (p *Parser) skipNewlines() {
	for p.curIs(token.NEWLINE) {
		p.advance()
	}
}

// skipContinuationNewlines consumes newlines when the next non-newline
// token is an operator that continues the current expression (chiefly a
// pipe stage written on its own line), so that
//
//	value
//	  /> f
//	  /> g
//
// parses the same as `value /> f /> g`. A line that starts with `(` or `[`
// begins a new statement rather than a call or index on the previous line.
func (p *Parser) skipContinuationNewlines() {
	if !p.curIs(token.NEWLINE) {
		return
	}
	i := p.pos
	for i < len(p.tokens) && p.tokens[i].Type == token.NEWLINE {
		i++
	}
	if i >= len(p.tokens) {
		return
	}
	if t := p.tokens[i].Type; t == token.LPAREN || t == token.LBRACKET {
		return
	}
	if _, ok := precedences[p.tokens[i].Type]; ok {
		p.pos = i
	}
}

// matchingParen returns the index of the ")" matching the "(" at
// position start.
func (p *Parser) matchingParen(start int) int {
	depth := 0
	for i := start; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(p.tokens) - 1
}

// ParseProgram parses the entire token buffer into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	p.skipNewlines()
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.skipStatementEnd()
	}
	return prog
}

func (p *Parser) skipStatementEnd() {
	for p.curIs(token.NEWLINE) || p.curIs(token.SEMICOLON) {
		p.advance()
	}
}
