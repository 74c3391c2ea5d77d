package evaluator

import (
	"fmt"
	"io"
	"sync"

	"github.com/flowlang/flo/internal/ast"
)

// Evaluator holds everything shared across one program run: where output
// goes, the
// process-wide context/decorator registries, and the global scope.
type Evaluator struct {
	Out        io.Writer
	Contexts   *ContextRegistry
	Decorators *DecoratorRegistry
	Global     *Environment

	memoMu     sync.Mutex
	memoCaches map[*ast.DecoratorUse]map[string]Object
}

func New(out io.Writer) *Evaluator {
	ev := &Evaluator{
		Out:        out,
		Contexts:   NewContextRegistry(),
		Decorators: NewDecoratorRegistry(),
		Global:     NewEnvironment(),
		memoCaches: make(map[*ast.DecoratorUse]map[string]Object),
	}
	ev.RegisterKernelBuiltins()
	return ev
}

// memoCacheFor returns the per-call-site memo cache for d, creating it on
// first use. Keying by the *ast.DecoratorUse node (rather than by function
// name) means two differently-named functions can never collide and a
// single recursive function keeps one cache across all its calls.
func (ev *Evaluator) memoCacheFor(d *ast.DecoratorUse) map[string]Object {
	ev.memoMu.Lock()
	defer ev.memoMu.Unlock()
	if c, ok := ev.memoCaches[d]; ok {
		return c
	}
	c := make(map[string]Object)
	ev.memoCaches[d] = c
	return c
}

// returnSignal carries a non-local `return` up to the nearest enclosing
// function-call boundary; it is never exposed to
// user code, only unwrapped by ApplyFunction. Pipe stages and decorator
// wrappers must NOT catch it — it passes through them as an ordinary
// Object until ApplyFunction sees it.
type returnSignal struct {
	Value Object
}

func (r *returnSignal) Type() ObjectType { return RETURN_OBJ }
func (r *returnSignal) Inspect() string  { return "<return " + r.Value.Inspect() + ">" }

// Eval is the synchronous dispatch entry point: every expression/
// statement kind in the AST contract is handled here, delegating the
// harder subsystems (function application, overload resolution, the pipe
// family, pipeline values, decorators, match) to their own files.
func (ev *Evaluator) Eval(node ast.Node, env *Environment) Object {
	switch n := node.(type) {

	case *ast.Program:
		return ev.evalStatements(n.Statements, env)
	case *ast.CodeblockStmt:
		return ev.evalStatements(n.Statements, env)

	case *ast.ExprStmt:
		return ev.Eval(n.Expression, env)

	case *ast.LetStmt:
		return ev.evalLetStmt(n, env)
	case *ast.AndStmt:
		return ev.evalAndStmt(n, env)
	case *ast.AssignStmt:
		val := ev.Eval(n.Value, env)
		if isError(val) {
			return val
		}
		if !env.Update(n.Name, val) {
			tok := n.GetToken()
			return newError(tok.Line, tok.Column, "cannot assign to %q: not declared with maybe, or not declared at all", n.Name)
		}
		return NULL
	case *ast.ContextDefStmt:
		def := Object(NULL)
		if n.Default != nil {
			def = ev.Eval(n.Default, env)
			if isError(def) {
				return def
			}
		}
		ev.Contexts.Define(n.Name, def)
		return NULL
	case *ast.ProvideStmt:
		val := ev.Eval(n.Value, env)
		if isError(val) {
			return val
		}
		ev.Contexts.Provide(n.Name, val)
		return NULL
	case *ast.DecoratorDefStmt:
		fn := ev.Eval(n.Value, env)
		if isError(fn) {
			return fn
		}
		ev.Decorators.Define(n.Name, fn)
		return NULL

	case *ast.NumberLiteral:
		return &Int{Value: n.Value, IsFloatSyntax: !n.IsInt}
	case *ast.StringLiteral:
		return &String{Value: n.Value}
	case *ast.BooleanLiteral:
		return NativeBool(n.Value)
	case *ast.NullLiteral:
		return NULL
	case *ast.TemplateStringExpr:
		return ev.evalTemplateString(n, env)

	case *ast.Identifier:
		if val, ok := env.Get(n.Value); ok {
			return val
		}
		return newError(n.Token.Line, n.Token.Column, "identifier not found: %s", n.Value)
	case *ast.PlaceholderExpr:
		if val, ok := env.Get("input"); ok {
			return val
		}
		if val, ok := env.Get("_"); ok {
			return val
		}
		return newError(n.Token.Line, n.Token.Column, "placeholder used outside of a pipe stage")

	case *ast.ListExpr:
		elems, err := ev.evalExpressions(n.Elements, env)
		if err != nil {
			return err
		}
		return &List{Elements: elems}
	case *ast.TupleExpr:
		elems, err := ev.evalExpressions(n.Elements, env)
		if err != nil {
			return err
		}
		return &Tuple{Elements: elems}
	case *ast.RecordExpr:
		return ev.evalRecordExpr(n, env)

	case *ast.IndexExpr:
		return ev.evalIndexExpr(n, env)
	case *ast.MemberExpr:
		return ev.evalMemberExpr(n, env)

	case *ast.UnaryExpr:
		return ev.evalUnaryExpr(n, env)
	case *ast.BinaryExpr:
		return ev.evalBinaryExpr(n, env)
	case *ast.TernaryExpr:
		cond := ev.Eval(n.Condition, env)
		if isError(cond) {
			return cond
		}
		if isTruthy(cond) {
			return ev.Eval(n.Then, env)
		}
		return ev.Eval(n.Else, env)

	case *ast.FunctionExpr:
		return ev.evalFunctionLiteral(n, env)
	case *ast.CallExpr:
		return ev.evalCallExpr(n, env)

	case *ast.BlockExpr:
		return ev.evalBlockExpr(n, env)
	case *ast.ReturnExpr:
		var val Object = NULL
		if n.Value != nil {
			val = ev.Eval(n.Value, env)
			if isError(val) {
				return val
			}
		}
		return &returnSignal{Value: val}

	case *ast.LetInExpr:
		return ev.evalLetInExpr(n, env)

	case *ast.PipeExpr:
		return ev.evalPipeExpr(n, env)
	case *ast.SpreadPipeExpr:
		return ev.evalSpreadPipeExpr(n, env)
	case *ast.ParallelPipeExpr:
		return ev.evalParallelPipeExpr(n, env)
	case *ast.ReversePipeExpr:
		return ev.evalReversePipeExpr(n, env)

	case *ast.PipelineLiteral:
		return ev.evalPipelineLiteral(n, env)
	case *ast.BidirectionalPipelineLit:
		return ev.evalBidirectionalPipelineLit(n, env)

	case *ast.MatchExpr:
		return ev.evalMatchExpr(n, env)

	case *ast.AwaitExpr:
		val := ev.Eval(n.Value, env)
		if isError(val) {
			return val
		}
		if p, ok := val.(*Promise); ok {
			resolved, err := p.Await()
			if err != nil {
				return err
			}
			return resolved
		}
		return val

	default:
		return newError(0, 0, "eval: unsupported node type %T", node)
	}
}

func (ev *Evaluator) evalStatements(stmts []ast.Statement, env *Environment) Object {
	var result Object = NULL
	for _, stmt := range stmts {
		result = ev.Eval(stmt, env)
		switch result.(type) {
		case *Error, *returnSignal:
			return result
		}
	}
	return result
}

func (ev *Evaluator) evalExpressions(exprs []ast.Expression, env *Environment) ([]Object, *Error) {
	out := make([]Object, 0, len(exprs))
	for _, e := range exprs {
		val := ev.Eval(e, env)
		if err, ok := val.(*Error); ok {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

func (ev *Evaluator) evalRecordExpr(n *ast.RecordExpr, env *Environment) Object {
	rec := NewRecord()
	for _, f := range n.Fields {
		val := ev.Eval(f.Value, env)
		if isError(val) {
			return val
		}
		rec.Set(f.Name, val)
	}
	return rec
}

func (ev *Evaluator) evalMemberExpr(n *ast.MemberExpr, env *Environment) Object {
	obj := ev.Eval(n.Object, env)
	if isError(obj) {
		return obj
	}
	if rec, ok := obj.(*Record); ok {
		if v, ok := rec.Fields[n.Property]; ok {
			return v
		}
		return newError(n.Token.Line, n.Token.Column, "record has no field %q", n.Property)
	}
	if member := pipelineMember(obj, n.Property); member != nil {
		return member
	}
	return newError(n.Token.Line, n.Token.Column, "%s has no member %q", obj.Type(), n.Property)
}

func (ev *Evaluator) evalIndexExpr(n *ast.IndexExpr, env *Environment) Object {
	left := ev.Eval(n.Left, env)
	if isError(left) {
		return left
	}
	idx := ev.Eval(n.Index, env)
	if isError(idx) {
		return idx
	}
	idxInt, ok := idx.(*Int)
	if !ok {
		return newError(n.Token.Line, n.Token.Column, "index must be Int, got %s", idx.Type())
	}
	i := int(idxInt.Value)
	switch coll := left.(type) {
	case *List:
		if i < 0 || i >= len(coll.Elements) {
			return newError(n.Token.Line, n.Token.Column, "list index %d out of range (len %d)", i, len(coll.Elements))
		}
		return coll.Elements[i]
	case *Tuple:
		if i < 0 || i >= len(coll.Elements) {
			return newError(n.Token.Line, n.Token.Column, "tuple index %d out of range (len %d)", i, len(coll.Elements))
		}
		return coll.Elements[i]
	case *String:
		runes := []rune(coll.Value)
		if i < 0 || i >= len(runes) {
			return newError(n.Token.Line, n.Token.Column, "string index %d out of range", i)
		}
		return &String{Value: string(runes[i])}
	default:
		return newError(n.Token.Line, n.Token.Column, "%s is not indexable", left.Type())
	}
}

func (ev *Evaluator) evalTemplateString(n *ast.TemplateStringExpr, env *Environment) Object {
	out := n.Literals[0]
	for i, expr := range n.Exprs {
		val := ev.Eval(expr, env)
		if isError(val) {
			return val
		}
		out += val.Inspect()
		if i+1 < len(n.Literals) {
			out += n.Literals[i+1]
		}
	}
	return &String{Value: out}
}

func (ev *Evaluator) evalLetInExpr(n *ast.LetInExpr, env *Environment) Object {
	val := ev.Eval(n.Value, env)
	if isError(val) {
		return val
	}
	inner := NewEnclosedEnvironment(env)
	inner.Define(n.Name, val, n.Mutable)
	return ev.Eval(n.Body, inner)
}

func (ev *Evaluator) evalBlockExpr(n *ast.BlockExpr, env *Environment) Object {
	inner := NewEnclosedEnvironment(env)
	for _, stmt := range n.Statements {
		result := ev.Eval(stmt, inner)
		switch result.(type) {
		case *Error, *returnSignal:
			return result
		}
	}
	if n.Result == nil {
		return NULL
	}
	return ev.Eval(n.Result, inner)
}

func isTruthy(obj Object) bool {
	switch v := obj.(type) {
	case *Bool:
		return v.Value
	case *Null:
		return false
	default:
		return true
	}
}

// fmtInspect is a small helper so print-like builtins render the same way
// errors do.
func fmtInspect(objs []Object) string {
	parts := make([]string, len(objs))
	for i, o := range objs {
		parts[i] = o.Inspect()
	}
	return fmt.Sprint(parts)
}
