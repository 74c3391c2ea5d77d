package evaluator

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RegisterKernelBuiltins installs the kernel built-ins every Flo program
// can call without an explicit import: __identity__,
// print, delay, parallel, race, then, map, filter, reduce, plus the
// Pipeline namespace record.
// Non-kernel built-ins (math/string/date/json/yaml/sql/http) are wired in
// separately by internal/builtinreg.
func (ev *Evaluator) RegisterKernelBuiltins() {
	define := func(name string, fn BuiltinFn) {
		ev.Global.Define(name, &Builtin{Name: name, Fn: fn}, false)
	}

	define("__identity__", func(args []Object) Object {
		if len(args) == 0 {
			return NULL
		}
		return args[0]
	})

	define("print", func(args []Object) Object {
		parts := make([]string, len(args))
		for i, a := range args {
			if s, ok := a.(*String); ok {
				parts[i] = s.Value
			} else {
				parts[i] = a.Inspect()
			}
		}
		for i, p := range parts {
			if i > 0 {
				fmt.Fprint(ev.Out, " ")
			}
			fmt.Fprint(ev.Out, p)
		}
		fmt.Fprintln(ev.Out)
		return NULL
	})

	// delay(ms, value) resolves to value after ms milliseconds; if value is
	// callable it is invoked (with no arguments) once the delay elapses
	// rather than being returned verbatim, so `delay(100, () -> compute())`
	// defers the work itself, not just the hand-off.
	define("delay", func(args []Object) Object {
		if len(args) != 2 {
			return newError(0, 0, "delay(ms, value) requires exactly 2 arguments")
		}
		ms, ok := args[0].(*Int)
		if !ok {
			return newError(0, 0, "delay: first argument must be Int milliseconds")
		}
		value := args[1]
		return spawnPromise(func() Object {
			time.Sleep(time.Duration(ms.Value) * time.Millisecond)
			switch value.(type) {
			case *Function, *Builtin, *OverloadSet, *ReversibleFunction:
				return ev.ApplyFunction(value, nil, 0, 0)
			default:
				return value
			}
		})
	})

	// parallel(list, fn, {limit}) applies fn(input[i], i) to every element
	// with at most limit in-flight calls (unlimited when no limit is
	// given or limit <= 0), and resolves to the List of results in input
	// index order regardless of completion order.
	define("parallel", func(args []Object) Object {
		if len(args) != 2 && len(args) != 3 {
			return newError(0, 0, "parallel(list, fn, limit?) requires 2 or 3 arguments")
		}
		list, ok := args[0].(*List)
		if !ok {
			return newError(0, 0, "parallel: first argument must be a List")
		}
		fn := args[1]
		limit := len(list.Elements)
		if len(args) == 3 {
			opts, ok := args[2].(*Record)
			if !ok {
				return newError(0, 0, "parallel: third argument must be a Record")
			}
			if v, ok := opts.Fields["limit"]; ok {
				n, ok := v.(*Int)
				if !ok {
					return newError(0, 0, "parallel: limit must be an Int")
				}
				if int(n.Value) > 0 {
					limit = int(n.Value)
				}
			}
		}
		if limit <= 0 {
			limit = len(list.Elements)
		}
		return spawnPromise(func() Object {
			results := make([]Object, len(list.Elements))
			sem := make(chan struct{}, limit)
			var wg sync.WaitGroup
			for i, el := range list.Elements {
				wg.Add(1)
				sem <- struct{}{}
				go func(i int, el Object) {
					defer wg.Done()
					defer func() { <-sem }()
					results[i] = ev.ApplyFunction(fn, []Object{el, &Int{Value: float64(i)}}, 0, 0)
				}(i, el)
			}
			wg.Wait()
			for _, r := range results {
				if isError(r) {
					return r
				}
			}
			return &List{Elements: results}
		})
	})

	// race(thunks) resolves to the first thunk to settle. If every thunk
	// rejects, the returned promise rejects with the last error observed.
	define("race", func(args []Object) Object {
		if len(args) != 1 {
			return newError(0, 0, "race(thunks) requires exactly 1 argument")
		}
		list, ok := args[0].(*List)
		if !ok || len(list.Elements) == 0 {
			return newError(0, 0, "race: argument must be a non-empty List of thunks")
		}
		return spawnPromise(func() Object {
			type settled struct {
				val Object
				id  string
			}
			resultCh := make(chan settled, len(list.Elements))
			for _, thunk := range list.Elements {
				go func(thunk Object) {
					resultCh <- settled{val: ev.ApplyFunction(thunk, nil, 0, 0), id: uuid.NewString()}
				}(thunk)
			}
			var lastErr Object
			for i := 0; i < len(list.Elements); i++ {
				r := <-resultCh
				if isError(r.val) {
					lastErr = r.val
					continue
				}
				return r.val
			}
			return lastErr
		})
	})

	// then(promise, fn) chains onto a Promise, applying fn to its resolved
	// value; if fn itself returns a Promise the chain flattens rather than
	// nesting.
	define("then", func(args []Object) Object {
		if len(args) != 2 {
			return newError(0, 0, "then(promise, fn) requires exactly 2 arguments")
		}
		p, ok := args[0].(*Promise)
		if !ok {
			return newError(0, 0, "then: first argument must be a Promise")
		}
		fn := args[1]
		return spawnPromise(func() Object {
			val, err := p.Await()
			if err != nil {
				return err
			}
			result := ev.ApplyFunction(fn, []Object{val}, 0, 0)
			if inner, ok := result.(*Promise); ok {
				innerVal, innerErr := inner.Await()
				if innerErr != nil {
					return innerErr
				}
				return innerVal
			}
			return result
		})
	})

	// map/filter/reduce take the data argument first, matching how the
	// forward pipe operator prepends an upstream value as the leading
	// argument of its target call: `list /> map(f)` calls map(list, f).
	define("map", func(args []Object) Object {
		if len(args) != 2 {
			return newError(0, 0, "map(list, fn) requires exactly 2 arguments")
		}
		list, ok := args[0].(*List)
		if !ok {
			return newError(0, 0, "map: first argument must be a List")
		}
		fn := args[1]
		out := make([]Object, len(list.Elements))
		for i, el := range list.Elements {
			r := ev.ApplyFunction(fn, []Object{el}, 0, 0)
			if isError(r) {
				return r
			}
			out[i] = r
		}
		return &List{Elements: out}
	})

	define("filter", func(args []Object) Object {
		if len(args) != 2 {
			return newError(0, 0, "filter(list, predicate) requires exactly 2 arguments")
		}
		list, ok := args[0].(*List)
		if !ok {
			return newError(0, 0, "filter: first argument must be a List")
		}
		pred := args[1]
		var out []Object
		for _, el := range list.Elements {
			r := ev.ApplyFunction(pred, []Object{el}, 0, 0)
			if isError(r) {
				return r
			}
			if isTruthy(r) {
				out = append(out, el)
			}
		}
		return &List{Elements: out}
	})

	define("reduce", func(args []Object) Object {
		if len(args) != 3 {
			return newError(0, 0, "reduce(list, initial, fn) requires exactly 3 arguments")
		}
		list, ok := args[0].(*List)
		if !ok {
			return newError(0, 0, "reduce: first argument must be a List")
		}
		acc := args[1]
		fn := args[2]
		for _, el := range list.Elements {
			r := ev.ApplyFunction(fn, []Object{acc, el}, 0, 0)
			if isError(r) {
				return r
			}
			acc = r
		}
		return acc
	})

	ev.Global.Define("Pipeline", newPipelineNamespace(), false)
}
