package evaluator

import "github.com/flowlang/flo/internal/ast"

// evalFunctionLiteral turns an *ast.FunctionExpr into a runtime *Function,
// capturing env as its closure.
func (ev *Evaluator) evalFunctionLiteral(n *ast.FunctionExpr, env *Environment) Object {
	return &Function{
		Parameters:  n.Parameters,
		Attachments: n.Attachments,
		Body:        n.Body,
		BlockBody:   n.BlockBody,
		Env:         env,
		Decorators:  n.Decorators,
		IsReverse:   n.IsReverse,
		Typed:       n.HasTypeSignature(),
	}
}

// evalCallExpr evaluates the callee and argument list and applies them.
func (ev *Evaluator) evalCallExpr(n *ast.CallExpr, env *Environment) Object {
	callee := ev.Eval(n.Callee, env)
	if isError(callee) {
		return callee
	}
	args, err := ev.evalExpressions(n.Args, env)
	if err != nil {
		return err
	}
	tok := n.GetToken()
	return ev.ApplyFunction(callee, args, tok.Line, tok.Column)
}

// ApplyFunction dispatches on the callee's runtime kind: a plain Function
// (bind params, inject context attachments, wrap decorators, eval body), a
// Builtin (call straight through), an OverloadSet (resolve then recurse),
// or a ReversibleFunction (use its forward side for ordinary calls —
// the Reverse side is reserved for the `</` operator).
func (ev *Evaluator) ApplyFunction(fn Object, args []Object, line, col int) Object {
	switch f := fn.(type) {
	case *Function:
		return ev.applyUserFunction(f, args, line, col)
	case *Builtin:
		return f.Fn(args)
	case *OverloadSet:
		chosen, rerr := ResolveOverload(f, args)
		if rerr != nil {
			return newError(line, col, "%s", rerr.Error())
		}
		return ev.ApplyFunction(chosen, args, line, col)
	case *ReversibleFunction:
		return ev.ApplyFunction(f.Forward, args, line, col)
	case *Pipeline:
		base := func(callArgs []Object) Object {
			return ev.runPipeline(f, callArgs, line, col)
		}
		executor := ev.wrapDecorators(f.Decorators, base, "pipeline", f.Env)
		return executor(args)
	case *BidirectionalPipeline:
		return ev.runBidiPipeline(f, args, line, col)
	default:
		return newError(line, col, "%s is not callable", fn.Type())
	}
}

// applyUserFunction wraps f's decorator stack (if any) around a base
// executor that binds parameters and evaluates the body, then invokes it.
// Decorator wrappers receive a returnSignal sentinel as an ordinary
// result and pass it through; only this function unwraps it.
func (ev *Evaluator) applyUserFunction(f *Function, args []Object, line, col int) Object {
	base := func(callArgs []Object) Object {
		return ev.runBody(f, callArgs, line, col)
	}
	executor := ev.wrapDecorators(f.Decorators, base, f.Name, f.Env)
	result := executor(args)
	if rs, ok := result.(*returnSignal); ok {
		return rs.Value
	}
	return result
}

// runBody binds parameters positionally: a present, non-null argument
// wins, else a declared default is evaluated in the call scope, else the
// parameter binds null. A parameter named `_` is skipped entirely (its
// argument is still consumed, just never bound). Context attachments are
// looked up and bound before parameters; a missing context fails the
// call outright. The body then runs in a fresh scope enclosed by the
// function's captured environment. When exactly one argument arrives
// beyond the declared parameters, that last argument is also bound as
// `input` so a lambda body can reference it without declaring it.
func (ev *Evaluator) runBody(f *Function, args []Object, line, col int) Object {
	callEnv := NewEnclosedEnvironment(f.Env)

	for _, ctxName := range f.Attachments {
		val, ok := ev.Contexts.Get(ctxName)
		if !ok {
			return newError(line, col, "Context '%s' is not defined", ctxName)
		}
		callEnv.Define(ctxName, val, false)
	}

	for i, param := range f.Parameters {
		var val Object
		switch {
		case i < len(args) && args[i] != NULL:
			val = args[i]
		case param.Default != nil:
			val = ev.Eval(param.Default, callEnv)
			if isError(val) {
				return val
			}
		default:
			val = NULL
		}
		if param.Name == "_" {
			continue
		}
		callEnv.Define(param.Name, val, false)
	}

	if len(args) == len(f.Parameters)+1 {
		callEnv.Define("input", args[len(args)-1], false)
	}

	if f.BlockBody != nil {
		return ev.evalBlockExpr(f.BlockBody, callEnv)
	}
	return ev.Eval(f.Body, callEnv)
}
