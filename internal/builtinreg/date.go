package builtinreg

import (
	"time"

	"github.com/flowlang/flo/internal/evaluator"
)

// dateModule wraps stdlib time; Flo has no dedicated Date value kind, so
// instants are represented as an Int (Unix milliseconds) and formatted
// on demand, the same "no bespoke value kind for a stdlib concept" choice
// mathModule and stringModule make.
type dateModule struct{}

func (dateModule) Name() string { return "date" }

func (dateModule) Register(out map[string]*evaluator.Builtin) {
	out["now"] = &evaluator.Builtin{Name: "now", Fn: func(args []evaluator.Object) evaluator.Object {
		return &evaluator.Int{Value: float64(time.Now().UnixMilli())}
	}}

	out["format"] = &evaluator.Builtin{Name: "format", Fn: func(args []evaluator.Object) evaluator.Object {
		if len(args) != 2 {
			return evaluator.NewError("format: requires exactly 2 arguments")
		}
		ms, ok := args[0].(*evaluator.Int)
		if !ok {
			return evaluator.NewError("format: first argument must be Int (unix millis)")
		}
		layout, ok := args[1].(*evaluator.String)
		if !ok {
			return evaluator.NewError("format: second argument must be a String layout")
		}
		t := time.UnixMilli(int64(ms.Value)).UTC()
		return &evaluator.String{Value: t.Format(layout.Value)}
	}}

	out["parse"] = &evaluator.Builtin{Name: "parse", Fn: func(args []evaluator.Object) evaluator.Object {
		if len(args) != 2 {
			return evaluator.NewError("parse: requires exactly 2 arguments")
		}
		layout, ok := args[0].(*evaluator.String)
		if !ok {
			return evaluator.NewError("parse: first argument must be a String layout")
		}
		value, ok := args[1].(*evaluator.String)
		if !ok {
			return evaluator.NewError("parse: second argument must be a String")
		}
		t, err := time.Parse(layout.Value, value.Value)
		if err != nil {
			return evaluator.NewError("parse: %v", err)
		}
		return &evaluator.Int{Value: float64(t.UnixMilli())}
	}}

	out["addMillis"] = &evaluator.Builtin{Name: "addMillis", Fn: func(args []evaluator.Object) evaluator.Object {
		if len(args) != 2 {
			return evaluator.NewError("addMillis: requires exactly 2 arguments")
		}
		ms, ok1 := args[0].(*evaluator.Int)
		delta, ok2 := args[1].(*evaluator.Int)
		if !ok1 || !ok2 {
			return evaluator.NewError("addMillis: both arguments must be Int")
		}
		return &evaluator.Int{Value: ms.Value + delta.Value}
	}}
}
