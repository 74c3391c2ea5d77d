package builtinreg

import (
	"encoding/json"

	"github.com/flowlang/flo/internal/evaluator"
)

// jsonModule wraps stdlib encoding/json, parsing into a Go interface{}
// tree and then inferring Flo Objects from it (inferFromJSON below).
type jsonModule struct{}

func (jsonModule) Name() string { return "json" }

func (jsonModule) Register(out map[string]*evaluator.Builtin) {
	out["parse"] = &evaluator.Builtin{Name: "parse", Fn: func(args []evaluator.Object) evaluator.Object {
		if len(args) != 1 {
			return evaluator.NewError("parse: requires exactly 1 argument")
		}
		s, ok := args[0].(*evaluator.String)
		if !ok {
			return evaluator.NewError("parse: argument must be a String")
		}
		var data interface{}
		if err := json.Unmarshal([]byte(s.Value), &data); err != nil {
			return evaluator.NewError("json parse error: %v", err)
		}
		return inferFromJSON(data)
	}}

	out["stringify"] = &evaluator.Builtin{Name: "stringify", Fn: func(args []evaluator.Object) evaluator.Object {
		if len(args) != 1 {
			return evaluator.NewError("stringify: requires exactly 1 argument")
		}
		goVal, err := toGoValue(args[0])
		if err != nil {
			return err
		}
		bytes, jerr := json.Marshal(goVal)
		if jerr != nil {
			return evaluator.NewError("json stringify error: %v", jerr)
		}
		return &evaluator.String{Value: string(bytes)}
	}}
}

func inferFromJSON(data interface{}) evaluator.Object {
	switch v := data.(type) {
	case nil:
		return evaluator.NULL
	case bool:
		return evaluator.NativeBool(v)
	case float64:
		return &evaluator.Int{Value: v, IsFloatSyntax: v != float64(int64(v))}
	case string:
		return &evaluator.String{Value: v}
	case []interface{}:
		elems := make([]evaluator.Object, len(v))
		for i, el := range v {
			elems[i] = inferFromJSON(el)
		}
		return &evaluator.List{Elements: elems}
	case map[string]interface{}:
		rec := evaluator.NewRecord()
		for k, el := range v {
			rec.Set(k, inferFromJSON(el))
		}
		return rec
	default:
		return evaluator.NULL
	}
}

func toGoValue(obj evaluator.Object) (interface{}, *evaluator.Error) {
	switch v := obj.(type) {
	case *evaluator.Null:
		return nil, nil
	case *evaluator.Bool:
		return v.Value, nil
	case *evaluator.Int:
		if v.IsFloatSyntax {
			return v.Value, nil
		}
		return int64(v.Value), nil
	case *evaluator.String:
		return v.Value, nil
	case *evaluator.List:
		out := make([]interface{}, len(v.Elements))
		for i, el := range v.Elements {
			goVal, err := toGoValue(el)
			if err != nil {
				return nil, err
			}
			out[i] = goVal
		}
		return out, nil
	case *evaluator.Tuple:
		out := make([]interface{}, len(v.Elements))
		for i, el := range v.Elements {
			goVal, err := toGoValue(el)
			if err != nil {
				return nil, err
			}
			out[i] = goVal
		}
		return out, nil
	case *evaluator.Record:
		out := make(map[string]interface{})
		for _, k := range v.Keys {
			goVal, err := toGoValue(v.Fields[k])
			if err != nil {
				return nil, err
			}
			out[k] = goVal
		}
		return out, nil
	default:
		return nil, evaluator.NewError("stringify: cannot serialize %s to JSON", obj.Type())
	}
}
