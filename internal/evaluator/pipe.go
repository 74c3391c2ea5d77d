package evaluator

import (
	"sync"

	"github.com/flowlang/flo/internal/ast"
)

// resolveValue implements promise-lifting: a pipe stage that receives a
// still-pending computation blocks until it settles before the next stage
// runs, so ordinary pipe chains compose transparently with `async`/
// `parallel`-decorated functions without every stage needing an explicit
// `await`.
func (ev *Evaluator) resolveValue(obj Object) Object {
	if p, ok := obj.(*Promise); ok {
		val, err := p.Await()
		if err != nil {
			return err
		}
		return val
	}
	return obj
}

// evalPipeExpr implements the forward pipe `left /> right`.
func (ev *Evaluator) evalPipeExpr(n *ast.PipeExpr, env *Environment) Object {
	left := ev.Eval(n.Left, env)
	if isError(left) {
		return left
	}
	left = ev.resolveValue(left)
	if isError(left) {
		return left
	}
	tok := n.GetToken()
	return ev.pipeApply(n.Right, env, left, false, tok.Line, tok.Column)
}

// evalSpreadPipeExpr implements `left />>> right`: left must evaluate to
// a List or Tuple, whose elements become individual leading arguments to
// right rather than one collection argument.
func (ev *Evaluator) evalSpreadPipeExpr(n *ast.SpreadPipeExpr, env *Environment) Object {
	left := ev.Eval(n.Left, env)
	if isError(left) {
		return left
	}
	left = ev.resolveValue(left)
	if isError(left) {
		return left
	}
	tok := n.GetToken()
	switch left.(type) {
	case *List, *Tuple:
	default:
		return newError(tok.Line, tok.Column, "spread pipe requires a List or Tuple, got %s", left.Type())
	}
	return ev.pipeApply(n.Right, env, left, true, tok.Line, tok.Column)
}

// evalParallelPipeExpr runs every branch concurrently against the shared
// Input value and materializes a ParallelResult in branch order. The
// parser builds the group for any run of `\>` branches; when a forward
// pipe follows, the ParallelResult becomes that pipe's upstream value,
// and otherwise it is the value of the expression.
func (ev *Evaluator) evalParallelPipeExpr(n *ast.ParallelPipeExpr, env *Environment) Object {
	input := ev.Eval(n.Input, env)
	if isError(input) {
		return input
	}
	input = ev.resolveValue(input)
	if isError(input) {
		return input
	}

	results := make([]Object, len(n.Branches))
	var wg sync.WaitGroup
	tok := n.GetToken()
	for i, branch := range n.Branches {
		wg.Add(1)
		go func(i int, branch ast.Expression) {
			defer wg.Done()
			results[i] = ev.pipeApply(branch, env, input, false, tok.Line, tok.Column)
		}(i, branch)
	}
	wg.Wait()

	for _, r := range results {
		if isError(r) {
			return r
		}
	}
	return &ParallelResult{Values: results}
}

// evalReversePipeExpr implements `value </ target`: if
// target is a ReversibleFunction, its Reverse side runs; if it is a
// BidirectionalPipeline, its reverse chain runs; otherwise target is
// applied directly, letting the operator be used stylistically on any
// callable.
func (ev *Evaluator) evalReversePipeExpr(n *ast.ReversePipeExpr, env *Environment) Object {
	val := ev.Eval(n.Value, env)
	if isError(val) {
		return val
	}
	val = ev.resolveValue(val)
	if isError(val) {
		return val
	}
	target := ev.Eval(n.Target, env)
	if isError(target) {
		return target
	}
	tok := n.GetToken()
	switch t := target.(type) {
	case *ReversibleFunction:
		return ev.ApplyFunction(t.Reverse, []Object{val}, tok.Line, tok.Column)
	case *BidirectionalPipeline:
		return ev.runBidiPipelineReverse(t, []Object{val}, tok.Line, tok.Column)
	default:
		return ev.ApplyFunction(target, []Object{val}, tok.Line, tok.Column)
	}
}

// pipeApply evaluates rightExpr as a pipe target against an upstream
// value. If rightExpr (or any argument within it) contains an explicit
// placeholder (`_`/`input`), that placeholder is bound to upstream and
// rightExpr is evaluated as-is. Otherwise upstream is prepended as the
// leading argument(s): a ParallelResult spreads into multiple leading
// args, a spread-pipe upstream (forceSpread) spreads its List/Tuple
// elements, and any other value is a single leading argument placed
// ahead of whatever explicit arguments the call already carries.
func (ev *Evaluator) pipeApply(rightExpr ast.Expression, env *Environment, upstream Object, forceSpread bool, line, col int) Object {
	if containsPlaceholder(rightExpr) {
		pipeEnv := NewEnclosedEnvironment(env)
		pipeEnv.Define("input", upstream, false)
		pipeEnv.Define("_", upstream, false)
		return ev.Eval(rightExpr, pipeEnv)
	}

	leading := ev.leadingArgsFor(upstream, forceSpread)

	if call, ok := rightExpr.(*ast.CallExpr); ok {
		callee := ev.Eval(call.Callee, env)
		if isError(callee) {
			return callee
		}
		explicit, err := ev.evalExpressions(call.Args, env)
		if err != nil {
			return err
		}
		args := append(append([]Object{}, leading...), explicit...)
		return ev.ApplyFunction(callee, args, line, col)
	}

	callee := ev.Eval(rightExpr, env)
	if isError(callee) {
		return callee
	}
	return ev.ApplyFunction(callee, leading, line, col)
}

func (ev *Evaluator) leadingArgsFor(upstream Object, forceSpread bool) []Object {
	if pr, ok := upstream.(*ParallelResult); ok {
		return pr.Values
	}
	if forceSpread {
		switch v := upstream.(type) {
		case *List:
			return v.Elements
		case *Tuple:
			return v.Elements
		}
	}
	return []Object{upstream}
}

// containsPlaceholder reports whether expr references the pipe
// placeholder anywhere in its (shallow) argument/operand tree.
func containsPlaceholder(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.PlaceholderExpr:
		return true
	case *ast.CallExpr:
		if containsPlaceholder(e.Callee) {
			return true
		}
		for _, a := range e.Args {
			if containsPlaceholder(a) {
				return true
			}
		}
		return false
	case *ast.BinaryExpr:
		return containsPlaceholder(e.Left) || containsPlaceholder(e.Right)
	case *ast.UnaryExpr:
		return containsPlaceholder(e.Right)
	case *ast.TernaryExpr:
		return containsPlaceholder(e.Condition) || containsPlaceholder(e.Then) || containsPlaceholder(e.Else)
	case *ast.MemberExpr:
		return containsPlaceholder(e.Object)
	case *ast.IndexExpr:
		return containsPlaceholder(e.Left) || containsPlaceholder(e.Index)
	case *ast.ListExpr:
		for _, el := range e.Elements {
			if containsPlaceholder(el) {
				return true
			}
		}
		return false
	case *ast.TupleExpr:
		for _, el := range e.Elements {
			if containsPlaceholder(el) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
