package builtinreg_test

import (
	"testing"

	"github.com/flowlang/flo/internal/builtinreg"
	"github.com/flowlang/flo/internal/evaluator"
)

func call(t *testing.T, rec *evaluator.Record, name string, args ...evaluator.Object) evaluator.Object {
	t.Helper()
	fn, ok := rec.Fields[name]
	if !ok {
		t.Fatalf("no such built-in %q", name)
	}
	b, ok := fn.(*evaluator.Builtin)
	if !ok {
		t.Fatalf("%q is not a *Builtin", name)
	}
	return b.Fn(args)
}

func namespace(t *testing.T, env *evaluator.Environment, name string) *evaluator.Record {
	t.Helper()
	val, ok := env.Get(name)
	if !ok {
		t.Fatalf("module namespace %q was not registered", name)
	}
	rec, ok := val.(*evaluator.Record)
	if !ok {
		t.Fatalf("module namespace %q is not a Record", name)
	}
	return rec
}

func TestRegisterAllInstallsEveryModule(t *testing.T) {
	env := evaluator.NewEnvironment()
	builtinreg.RegisterAll(env)

	for _, name := range []string{"math", "string", "date", "json", "yaml", "sql", "http", "grpc"} {
		namespace(t, env, name)
	}
}

func TestMathSqrt(t *testing.T) {
	env := evaluator.NewEnvironment()
	builtinreg.RegisterAll(env)
	math := namespace(t, env, "math")

	result := call(t, math, "sqrt", &evaluator.Int{Value: 16})
	i, ok := result.(*evaluator.Int)
	if !ok || i.Value != 4 {
		t.Fatalf("expected 4, got %#v", result)
	}
}

func TestStringUpperAndJoin(t *testing.T) {
	env := evaluator.NewEnvironment()
	builtinreg.RegisterAll(env)
	str := namespace(t, env, "string")

	upper := call(t, str, "upper", &evaluator.String{Value: "abc"})
	if s, ok := upper.(*evaluator.String); !ok || s.Value != "ABC" {
		t.Fatalf("expected ABC, got %#v", upper)
	}

	joined := call(t, str, "join", &evaluator.List{Elements: []evaluator.Object{
		&evaluator.String{Value: "a"}, &evaluator.String{Value: "b"},
	}}, &evaluator.String{Value: "-"})
	if s, ok := joined.(*evaluator.String); !ok || s.Value != "a-b" {
		t.Fatalf("expected a-b, got %#v", joined)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	env := evaluator.NewEnvironment()
	builtinreg.RegisterAll(env)
	j := namespace(t, env, "json")

	str := call(t, j, "stringify", &evaluator.Record{
		Keys:   []string{"a"},
		Fields: map[string]evaluator.Object{"a": &evaluator.Int{Value: 1}},
	})
	s, ok := str.(*evaluator.String)
	if !ok {
		t.Fatalf("expected String, got %#v", str)
	}

	parsed := call(t, j, "parse", s)
	rec, ok := parsed.(*evaluator.Record)
	if !ok {
		t.Fatalf("expected Record, got %#v", parsed)
	}
	v, ok := rec.Fields["a"].(*evaluator.Int)
	if !ok || v.Value != 1 {
		t.Fatalf("expected field a == 1, got %#v", rec.Fields["a"])
	}
}

func TestYAMLParse(t *testing.T) {
	env := evaluator.NewEnvironment()
	builtinreg.RegisterAll(env)
	y := namespace(t, env, "yaml")

	result := call(t, y, "parse", &evaluator.String{Value: "a: 1\nb: two\n"})
	rec, ok := result.(*evaluator.Record)
	if !ok {
		t.Fatalf("expected Record, got %#v", result)
	}
	if v, ok := rec.Fields["a"].(*evaluator.Int); !ok || v.Value != 1 {
		t.Fatalf("expected a == 1, got %#v", rec.Fields["a"])
	}
	if v, ok := rec.Fields["b"].(*evaluator.String); !ok || v.Value != "two" {
		t.Fatalf("expected b == \"two\", got %#v", rec.Fields["b"])
	}
}

func TestGrpcStubReportsNotImplemented(t *testing.T) {
	env := evaluator.NewEnvironment()
	builtinreg.RegisterAll(env)
	g := namespace(t, env, "grpc")

	result := call(t, g, "connect", &evaluator.String{Value: "localhost:50051"})
	if _, ok := result.(*evaluator.Error); !ok {
		t.Fatalf("expected *Error from the grpc stub, got %#v", result)
	}
}
