package builtinreg

import (
	"math"

	"github.com/flowlang/flo/internal/evaluator"
)

// mathModule wraps the stdlib math package (no pack example ships a
// richer numeric library, and Flo has a single Int value kind, so these
// are thin float64 wrappers).
type mathModule struct{}

func (mathModule) Name() string { return "math" }

func (mathModule) Register(out map[string]*evaluator.Builtin) {
	unary := func(name string, fn func(float64) float64) {
		out[name] = &evaluator.Builtin{Name: name, Fn: func(args []evaluator.Object) evaluator.Object {
			n, err := requireInt(name, args, 1)
			if err != nil {
				return err
			}
			return &evaluator.Int{Value: fn(n[0])}
		}}
	}

	unary("sqrt", math.Sqrt)
	unary("abs", math.Abs)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("round", math.Round)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("log", math.Log)
	unary("log2", math.Log2)
	unary("log10", math.Log10)
	unary("exp", math.Exp)

	out["pow"] = &evaluator.Builtin{Name: "pow", Fn: func(args []evaluator.Object) evaluator.Object {
		n, err := requireInt("pow", args, 2)
		if err != nil {
			return err
		}
		return &evaluator.Int{Value: math.Pow(n[0], n[1])}
	}}

	out["max"] = &evaluator.Builtin{Name: "max", Fn: func(args []evaluator.Object) evaluator.Object {
		n, err := requireInt("max", args, 2)
		if err != nil {
			return err
		}
		return &evaluator.Int{Value: math.Max(n[0], n[1])}
	}}

	out["min"] = &evaluator.Builtin{Name: "min", Fn: func(args []evaluator.Object) evaluator.Object {
		n, err := requireInt("min", args, 2)
		if err != nil {
			return err
		}
		return &evaluator.Int{Value: math.Min(n[0], n[1])}
	}}

	out["pi"] = &evaluator.Builtin{Name: "pi", Fn: func(args []evaluator.Object) evaluator.Object {
		return &evaluator.Int{Value: math.Pi, IsFloatSyntax: true}
	}}
}

func requireInt(name string, args []evaluator.Object, n int) ([]float64, *evaluator.Error) {
	if len(args) != n {
		return nil, evaluator.NewError("%s: requires exactly %d argument(s)", name, n)
	}
	out := make([]float64, n)
	for i, a := range args {
		v, ok := a.(*evaluator.Int)
		if !ok {
			return nil, evaluator.NewError("%s: argument %d must be Int, got %s", name, i+1, a.Type())
		}
		out[i] = v.Value
	}
	return out, nil
}
