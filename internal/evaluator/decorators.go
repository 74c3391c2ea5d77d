package evaluator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/flowlang/flo/internal/ast"
)

// wrapDecorators builds the executor stack for a function or pipeline
// literal's `#name`/`#name(args)` annotations. Decorators
// apply outside-in in source order: the first-listed decorator is the
// outermost wrapper, so it sees the call first and the result last.
// env is the defining closure, used to evaluate decorator arguments
// (e.g. `#retry(3)`, `#timeout(500)`) once per application.
func (ev *Evaluator) wrapDecorators(decorators []*ast.DecoratorUse, base BuiltinFn, name string, env *Environment) BuiltinFn {
	executor := base
	for i := len(decorators) - 1; i >= 0; i-- {
		executor = ev.wrapOneDecorator(decorators[i], executor, name, env)
	}
	return executor
}

func (ev *Evaluator) wrapOneDecorator(d *ast.DecoratorUse, next BuiltinFn, name string, env *Environment) BuiltinFn {
	switch d.Name {

	case "log":
		return func(args []Object) Object {
			fmt.Fprintf(ev.Out, "[log] %s(%s)\n", name, serializeArgsForMemoKey(args))
			result := next(args)
			fmt.Fprintf(ev.Out, "[log] %s -> %s\n", name, inspectOrNil(result))
			return result
		}

	case "log_verbose":
		return func(args []Object) Object {
			fmt.Fprintf(ev.Out, "[log] entering %s with %s\n", name, argsInspect(args))
			result := next(args)
			fmt.Fprintf(ev.Out, "[log] leaving %s = %s\n", name, inspectOrNil(result))
			return result
		}

	case "trace":
		return func(args []Object) Object {
			fmt.Fprintf(ev.Out, "[trace] -> %s(%s)\n", name, argsInspect(args))
			result := next(args)
			fmt.Fprintf(ev.Out, "[trace] <- %s\n", name)
			return result
		}

	case "debug":
		return func(args []Object) Object {
			fmt.Fprintf(ev.Out, "[debug] %s args=%s\n", name, argsInspect(args))
			return next(args)
		}

	case "memo":
		// Open Question 2: the sync path caches whatever next(args) hands
		// back, promise or not; once a cached Promise settles, the cache
		// entry is overwritten with its resolved value in the background,
		// so any lookup from the async path (which always awaits before
		// reading) only ever observes resolved values.
		cache := ev.memoCacheFor(d)
		var mu sync.Mutex
		return func(args []Object) Object {
			key := serializeArgsForMemoKey(args)
			mu.Lock()
			if cached, ok := cache[key]; ok {
				mu.Unlock()
				return cached
			}
			mu.Unlock()
			result := next(args)
			if isError(result) {
				return result
			}
			mu.Lock()
			cache[key] = result
			mu.Unlock()
			if p, ok := result.(*Promise); ok {
				go func() {
					resolved, perr := p.Await()
					if perr == nil {
						mu.Lock()
						cache[key] = resolved
						mu.Unlock()
					}
				}()
			}
			return result
		}

	case "time":
		return func(args []Object) Object {
			start := time.Now()
			result := next(args)
			fmt.Fprintf(ev.Out, "[time] %s took %s\n", name, time.Since(start))
			return result
		}

	case "profile":
		var calls int
		var total time.Duration
		var mu sync.Mutex
		return func(args []Object) Object {
			start := time.Now()
			result := next(args)
			mu.Lock()
			calls++
			total += time.Since(start)
			fmt.Fprintf(ev.Out, "[profile] %s call #%d, total %s\n", name, calls, total)
			mu.Unlock()
			return result
		}

	case "retry":
		n := decoratorIntArg(ev, d, 0, env, 3)
		return func(args []Object) Object {
			var last Object
			for i := 0; i < n+1; i++ {
				last = next(args)
				if !isError(last) {
					return last
				}
			}
			return last
		}

	case "timeout":
		ms := decoratorIntArg(ev, d, 0, env, 0)
		return func(args []Object) Object {
			if ms <= 0 {
				return next(args)
			}
			done := make(chan Object, 1)
			go func() { done <- next(args) }()
			select {
			case result := <-done:
				return result
			case <-time.After(time.Duration(ms) * time.Millisecond):
				return newError(0, 0, "%s timed out after %dms", name, ms)
			}
		}

	case "validate":
		preds := d.Args
		return func(args []Object) Object {
			for i, predExpr := range preds {
				if i >= len(args) {
					break
				}
				pred := ev.Eval(predExpr, env)
				if isError(pred) {
					return pred
				}
				ok := ev.ApplyFunction(pred, []Object{args[i]}, 0, 0)
				if isError(ok) {
					return ok
				}
				if !isTruthy(ok) {
					return newError(0, 0, "%s: validation failed for argument %d", name, i)
				}
			}
			return next(args)
		}

	case "coerce", "parse":
		target := decoratorStringArg(d, 0, "")
		return func(args []Object) Object {
			coerced := make([]Object, len(args))
			for i, a := range args {
				coerced[i] = coerceTo(target, a)
			}
			return next(coerced)
		}

	case "stringify", "tease":
		target := decoratorStringArg(d, 0, "String")
		return func(args []Object) Object {
			result := next(args)
			if isError(result) {
				return result
			}
			return coerceTo(target, result)
		}

	case "tap":
		sideEffect := d.Args
		return func(args []Object) Object {
			result := next(args)
			if isError(result) {
				return result
			}
			if len(sideEffect) == 1 {
				fn := ev.Eval(sideEffect[0], env)
				if !isError(fn) {
					ev.ApplyFunction(fn, []Object{result}, 0, 0)
				}
			}
			return result
		}

	case "export":
		return func(args []Object) Object {
			result := next(args)
			if !isError(result) && name != "" {
				ev.Global.Define(name, result, false)
			}
			return result
		}

	case "autoparallel":
		// Documents that the function's branches are safe to run
		// concurrently; already honored structurally since parallel
		// pipe/decorator execution never depends on this marker to decide
		// safety.
		return next

	case "pure":
		return func(args []Object) Object {
			prior, hadPrior := ev.Global.Get("print")
			ev.Global.Define("print", &Builtin{Name: "print", Fn: func(args []Object) Object {
				fmt.Fprintf(ev.Out, "Warning: print called inside #pure function %s\n", name)
				return NULL
			}}, false)
			defer func() {
				if hadPrior {
					ev.Global.Define("print", prior, false)
				}
			}()
			return next(args)
		}

	case "async":
		return func(args []Object) Object {
			return spawnPromise(func() Object { return next(args) })
		}

	case "batch":
		size := decoratorIntArg(ev, d, 0, env, 1)
		return func(args []Object) Object {
			if len(args) != 1 {
				return next(args)
			}
			list, ok := args[0].(*List)
			if !ok {
				return next(args)
			}
			var out []Object
			for i := 0; i < len(list.Elements); i += size {
				end := i + size
				if end > len(list.Elements) {
					end = len(list.Elements)
				}
				chunk := next([]Object{&List{Elements: list.Elements[i:end]}})
				if isError(chunk) {
					return chunk
				}
				if chunkList, ok := chunk.(*List); ok {
					out = append(out, chunkList.Elements...)
				} else {
					out = append(out, chunk)
				}
			}
			return &List{Elements: out}
		}

	case "parallel", "prefetch":
		limit := decoratorIntArg(ev, d, 0, env, 4)
		return func(args []Object) Object {
			if len(args) != 1 {
				return next(args)
			}
			list, ok := args[0].(*List)
			if !ok {
				return next(args)
			}
			sem := semaphore.NewWeighted(int64(limit))
			results := make([]Object, len(list.Elements))
			var wg sync.WaitGroup
			ctx := context.Background()
			for i, el := range list.Elements {
				wg.Add(1)
				sem.Acquire(ctx, 1)
				go func(i int, el Object) {
					defer wg.Done()
					defer sem.Release(1)
					results[i] = next([]Object{el})
				}(i, el)
			}
			wg.Wait()
			for _, r := range results {
				if isError(r) {
					return r
				}
			}
			return &List{Elements: results}
		}

	default:
		if custom, ok := ev.Decorators.Get(d.Name); ok {
			wrapped := ev.ApplyFunction(custom, []Object{&Builtin{Name: "base", Fn: next}}, 0, 0)
			if isError(wrapped) {
				return func(args []Object) Object { return wrapped }
			}
			return func(args []Object) Object {
				return ev.ApplyFunction(wrapped, args, 0, 0)
			}
		}
		// Unknown decorator: pass through rather than failing the whole
		// call, so a typo in a rarely-exercised annotation doesn't break
		// otherwise-working code.
		return next
	}
}

func inspectOrNil(obj Object) string {
	if obj == nil {
		return "null"
	}
	return obj.Inspect()
}

func argsInspect(args []Object) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Inspect()
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

func decoratorIntArg(ev *Evaluator, d *ast.DecoratorUse, i int, env *Environment, def int) int {
	if i >= len(d.Args) {
		return def
	}
	val := ev.Eval(d.Args[i], env)
	if n, ok := val.(*Int); ok {
		return int(n.Value)
	}
	return def
}

func decoratorStringArg(d *ast.DecoratorUse, i int, def string) string {
	if i >= len(d.Args) {
		return def
	}
	if ident, ok := d.Args[i].(*ast.Identifier); ok {
		return ident.Value
	}
	return def
}

// coerceTo converts obj to the named type where the conversion is
// well-defined; an
// unsupported or already-matching conversion returns obj unchanged.
func coerceTo(target string, obj Object) Object {
	switch target {
	case "String":
		if _, ok := obj.(*String); ok {
			return obj
		}
		return &String{Value: obj.Inspect()}
	case "Int":
		if s, ok := obj.(*String); ok {
			var f float64
			if _, err := fmt.Sscanf(s.Value, "%g", &f); err == nil {
				return &Int{Value: f}
			}
		}
		return obj
	case "Bool":
		if _, ok := obj.(*Bool); ok {
			return obj
		}
		return NativeBool(isTruthy(obj))
	default:
		return obj
	}
}
