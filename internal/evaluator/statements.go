package evaluator

import "github.com/flowlang/flo/internal/ast"

// evalLetStmt binds n.Name (or destructures n.Pattern) to the evaluated
// value in env. A plain `let` always (re)binds fresh in the current
// scope — the overload-set / reversible-function composites only form
// when a later `and` extends an existing binding.
func (ev *Evaluator) evalLetStmt(n *ast.LetStmt, env *Environment) Object {
	val := ev.Eval(n.Value, env)
	if isError(val) {
		return val
	}
	if fn, ok := val.(*Function); ok && n.Name != "" {
		fn.Name = n.Name
	}
	for _, d := range n.Decorators {
		if fn, ok := val.(*Function); ok {
			fn.Decorators = append(fn.Decorators, d)
		}
	}

	if len(n.Pattern) > 0 {
		tuple, ok := val.(*Tuple)
		if !ok || len(tuple.Elements) != len(n.Pattern) {
			return newError(n.Token.Line, n.Token.Column, "destructuring pattern of %d names does not match value %s", len(n.Pattern), val.Inspect())
		}
		for i, name := range n.Pattern {
			env.Define(name, tuple.Elements[i], n.Mutable)
		}
		return NULL
	}

	env.Define(n.Name, val, n.Mutable)
	return NULL
}

// evalAndStmt extends an existing same-named binding. Two user functions
// sharing a name compose into either a ReversibleFunction (one forward,
// one reverse-bodied) or an OverloadSet (differing arity/typed
// parameters), matching however the existing binding already looks.
func (ev *Evaluator) evalAndStmt(n *ast.AndStmt, env *Environment) Object {
	newVal := ev.Eval(n.Value, env)
	if isError(newVal) {
		return newVal
	}
	if fn, ok := newVal.(*Function); ok {
		fn.Name = n.Name
	}

	existing, ok := env.Get(n.Name)
	if !ok {
		return newError(n.Token.Line, n.Token.Column, "and: %q is not defined", n.Name)
	}

	composed, err := composeBinding(n.Name, existing, newVal)
	if err != nil {
		return newError(n.Token.Line, n.Token.Column, "%s", err.Error())
	}
	env.Define(n.Name, composed, false)
	return NULL
}

func composeBinding(name string, existing, next Object) (Object, error) {
	switch e := existing.(type) {
	case *ReversibleFunction:
		nf, ok := next.(*Function)
		if !ok {
			return nil, fmtErr(name, "reversible function can only be extended with another function")
		}
		if nf.IsReverse {
			e.Reverse = nf
		} else {
			e.Forward = nf
		}
		return e, nil

	case *OverloadSet:
		e.Overloads = append(e.Overloads, next)
		return e, nil

	case *Function:
		nf, ok := next.(*Function)
		if !ok {
			return nil, fmtErr(name, "function can only be extended with another function")
		}
		if e.IsReverse != nf.IsReverse {
			forward, reverse := e, nf
			if !nf.IsReverse {
				forward, reverse = nf, e
			}
			return &ReversibleFunction{Name: name, Forward: forward, Reverse: reverse}, nil
		}
		if e.Typed || nf.Typed || len(e.Parameters) != len(nf.Parameters) {
			return &OverloadSet{Name: name, Overloads: []Object{e, nf}}, nil
		}
		// Neither typed, same arity, same direction: the newer definition
		// simply supersedes the older one.
		return nf, nil

	default:
		return next, nil
	}
}

func fmtErr(name, msg string) error {
	return &compositionError{name: name, msg: msg}
}

type compositionError struct{ name, msg string }

func (c *compositionError) Error() string { return c.name + ": " + c.msg }
