package ast

import "github.com/flowlang/flo/internal/token"

func (*LetStmt) statementNode()         {}
func (*AndStmt) statementNode()         {}
func (*ExprStmt) statementNode()        {}
func (*ContextDefStmt) statementNode()  {}
func (*ProvideStmt) statementNode()     {}
func (*DecoratorDefStmt) statementNode() {}
func (*CodeblockStmt) statementNode()   {}
func (*AssignStmt) statementNode()      {}

// LetStmt binds Name (or destructures Pattern) to Value as a plain
// definition in the current scope; overload and reverse composition
// happen only for AndStmt. Mutable is true for `maybe` bindings.
type LetStmt struct {
	Token      token.Token
	Name       string
	Pattern    []string // non-nil for tuple-destructuring `let (a, b) = ...`
	Mutable    bool
	Value      Expression
	Decorators []*DecoratorUse
}

func (l *LetStmt) TokenLiteral() string  { return l.Token.Lexeme }
func (l *LetStmt) GetToken() token.Token { return l.Token }

// AndStmt is the `and name = ...` extension form: the name must already
// exist.
type AndStmt struct {
	Token token.Token
	Name  string
	Value Expression
}

func (a *AndStmt) TokenLiteral() string  { return a.Token.Lexeme }
func (a *AndStmt) GetToken() token.Token { return a.Token }

type ExprStmt struct {
	Token      token.Token
	Expression Expression
}

func (e *ExprStmt) TokenLiteral() string  { return e.Token.Lexeme }
func (e *ExprStmt) GetToken() token.Token { return e.Token }

// ContextDefStmt declares a process-wide context slot with a default
// value.
type ContextDefStmt struct {
	Token   token.Token
	Name    string
	Default Expression
}

func (c *ContextDefStmt) TokenLiteral() string  { return c.Token.Lexeme }
func (c *ContextDefStmt) GetToken() token.Token { return c.Token }

// ProvideStmt overwrites a context's current value.
type ProvideStmt struct {
	Token token.Token
	Name  string
	Value Expression
}

func (p *ProvideStmt) TokenLiteral() string  { return p.Token.Lexeme }
func (p *ProvideStmt) GetToken() token.Token { return p.Token }

// DecoratorDefStmt registers a custom decorator: a function from executor
// to executor, looked up by name when `#name` is used.
type DecoratorDefStmt struct {
	Token token.Token
	Name  string
	Value Expression // a FunctionExpr taking (fn) -> wrappedFn
}

func (d *DecoratorDefStmt) TokenLiteral() string  { return d.Token.Lexeme }
func (d *DecoratorDefStmt) GetToken() token.Token { return d.Token }

// CodeblockStmt groups statements that should execute as one unit (no new
// scope beyond the enclosing one), e.g. a top-level `{ ... }` block.
type CodeblockStmt struct {
	Token      token.Token
	Statements []Statement
}

func (c *CodeblockStmt) TokenLiteral() string  { return c.Token.Lexeme }
func (c *CodeblockStmt) GetToken() token.Token { return c.Token }

// AssignStmt reassigns an already-bound name. Bare `name = value`, distinct from `let`/`and`.
type AssignStmt struct {
	Token token.Token
	Name  string
	Value Expression
}

func (a *AssignStmt) TokenLiteral() string  { return a.Token.Lexeme }
func (a *AssignStmt) GetToken() token.Token { return a.Token }
