package builtinreg

import (
	"strings"

	"github.com/flowlang/flo/internal/evaluator"
)

// stringModule wraps stdlib strings: thin functional wrappers over
// strings.* rather than a bespoke string library.
type stringModule struct{}

func (stringModule) Name() string { return "string" }

func (stringModule) Register(out map[string]*evaluator.Builtin) {
	def := func(name string, fn evaluator.BuiltinFn) {
		out[name] = &evaluator.Builtin{Name: name, Fn: fn}
	}

	def("upper", func(args []evaluator.Object) evaluator.Object {
		s, err := requireString("upper", args, 1)
		if err != nil {
			return err
		}
		return &evaluator.String{Value: strings.ToUpper(s[0])}
	})
	def("lower", func(args []evaluator.Object) evaluator.Object {
		s, err := requireString("lower", args, 1)
		if err != nil {
			return err
		}
		return &evaluator.String{Value: strings.ToLower(s[0])}
	})
	def("trim", func(args []evaluator.Object) evaluator.Object {
		s, err := requireString("trim", args, 1)
		if err != nil {
			return err
		}
		return &evaluator.String{Value: strings.TrimSpace(s[0])}
	})
	def("split", func(args []evaluator.Object) evaluator.Object {
		s, err := requireString("split", args, 2)
		if err != nil {
			return err
		}
		parts := strings.Split(s[0], s[1])
		elems := make([]evaluator.Object, len(parts))
		for i, p := range parts {
			elems[i] = &evaluator.String{Value: p}
		}
		return &evaluator.List{Elements: elems}
	})
	def("join", func(args []evaluator.Object) evaluator.Object {
		if len(args) != 2 {
			return evaluator.NewError("join: requires exactly 2 arguments")
		}
		list, ok := args[0].(*evaluator.List)
		if !ok {
			return evaluator.NewError("join: first argument must be a List")
		}
		sep, ok := args[1].(*evaluator.String)
		if !ok {
			return evaluator.NewError("join: second argument must be a String")
		}
		parts := make([]string, len(list.Elements))
		for i, el := range list.Elements {
			s, ok := el.(*evaluator.String)
			if !ok {
				return evaluator.NewError("join: list element %d is not a String", i)
			}
			parts[i] = s.Value
		}
		return &evaluator.String{Value: strings.Join(parts, sep.Value)}
	})
	def("contains", func(args []evaluator.Object) evaluator.Object {
		s, err := requireString("contains", args, 2)
		if err != nil {
			return err
		}
		return evaluator.NativeBool(strings.Contains(s[0], s[1]))
	})
	def("replace", func(args []evaluator.Object) evaluator.Object {
		s, err := requireString("replace", args, 3)
		if err != nil {
			return err
		}
		return &evaluator.String{Value: strings.ReplaceAll(s[0], s[1], s[2])}
	})
}

func requireString(name string, args []evaluator.Object, n int) ([]string, *evaluator.Error) {
	if len(args) != n {
		return nil, evaluator.NewError("%s: requires exactly %d argument(s)", name, n)
	}
	out := make([]string, n)
	for i, a := range args {
		v, ok := a.(*evaluator.String)
		if !ok {
			return nil, evaluator.NewError("%s: argument %d must be String, got %s", name, i+1, a.Type())
		}
		out[i] = v.Value
	}
	return out, nil
}
