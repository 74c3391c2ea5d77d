package evaluator

import "github.com/flowlang/flo/internal/ast"

// EvalAsync evaluates node with Eval and, if the final result is a
// Promise, awaits it and returns the settled value (or the rejection
// error). It has no dispatch of its own: a Promise produced inside a
// sub-expression is awaited only where Eval itself awaits it (a pipe's
// upstream value, an `await` expression). Nothing in this module calls it.
func (ev *Evaluator) EvalAsync(node ast.Node, env *Environment) Object {
	return ev.resolveValue(ev.Eval(node, env))
}

// awaitAll resolves every Promise in objs concurrently, preserving order,
// and returns the first error in index order if any Promise rejected.
func awaitAll(objs []Object) ([]Object, *Error) {
	type settled struct {
		val Object
		err *Error
	}
	results := make([]settled, len(objs))
	done := make(chan int, len(objs))
	for i, o := range objs {
		go func(i int, o Object) {
			if p, ok := o.(*Promise); ok {
				val, err := p.Await()
				results[i] = settled{val: val, err: err}
			} else {
				results[i] = settled{val: o}
			}
			done <- i
		}(i, o)
	}
	for range objs {
		<-done
	}
	out := make([]Object, len(objs))
	for i, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		out[i] = r.val
	}
	return out, nil
}
