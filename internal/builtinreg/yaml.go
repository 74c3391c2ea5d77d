package builtinreg

import (
	"github.com/flowlang/flo/internal/evaluator"
	"gopkg.in/yaml.v3"
)

// yamlModule parses into a Go interface{} tree via yaml.v3, then infers
// Flo Objects from it. yaml.v3
// decodes integers as Go `int` (unlike encoding/json's float64), so
// inferFromYAML has its own int case rather than reusing inferFromJSON.
type yamlModule struct{}

func (yamlModule) Name() string { return "yaml" }

func (yamlModule) Register(out map[string]*evaluator.Builtin) {
	out["parse"] = &evaluator.Builtin{Name: "parse", Fn: func(args []evaluator.Object) evaluator.Object {
		if len(args) != 1 {
			return evaluator.NewError("parse: requires exactly 1 argument")
		}
		s, ok := args[0].(*evaluator.String)
		if !ok {
			return evaluator.NewError("parse: argument must be a String")
		}
		var data interface{}
		if err := yaml.Unmarshal([]byte(s.Value), &data); err != nil {
			return evaluator.NewError("yaml parse error: %v", err)
		}
		return inferFromYAML(data)
	}}

	out["stringify"] = &evaluator.Builtin{Name: "stringify", Fn: func(args []evaluator.Object) evaluator.Object {
		if len(args) != 1 {
			return evaluator.NewError("stringify: requires exactly 1 argument")
		}
		goVal, err := toGoValue(args[0])
		if err != nil {
			return err
		}
		bytes, yerr := yaml.Marshal(goVal)
		if yerr != nil {
			return evaluator.NewError("yaml stringify error: %v", yerr)
		}
		return &evaluator.String{Value: string(bytes)}
	}}
}

func inferFromYAML(data interface{}) evaluator.Object {
	switch v := data.(type) {
	case nil:
		return evaluator.NULL
	case bool:
		return evaluator.NativeBool(v)
	case int:
		return &evaluator.Int{Value: float64(v)}
	case float64:
		return &evaluator.Int{Value: v, IsFloatSyntax: v != float64(int64(v))}
	case string:
		return &evaluator.String{Value: v}
	case []interface{}:
		elems := make([]evaluator.Object, len(v))
		for i, el := range v {
			elems[i] = inferFromYAML(el)
		}
		return &evaluator.List{Elements: elems}
	case map[string]interface{}:
		rec := evaluator.NewRecord()
		for k, el := range v {
			rec.Set(k, inferFromYAML(el))
		}
		return rec
	default:
		return evaluator.NULL
	}
}
