package evaluator

import (
	"fmt"
	"strings"

	"github.com/flowlang/flo/internal/ast"
)

// Function is a user-defined closure: parameters (with optional type
// annotations/defaults), captured environment, injected context
// attachments, and the decorator stack applied at call time.
type Function struct {
	Name        string // empty for anonymous lambdas
	Parameters  []*ast.Parameter
	Attachments []string
	Body        ast.Expression // non-nil for a single-expression body
	BlockBody   *ast.BlockExpr // non-nil for a { ... } body
	Env         *Environment
	Decorators  []*ast.DecoratorUse
	IsReverse   bool
	Typed       bool // true if any parameter/return type was annotated
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	names := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		names[i] = p.Name
	}
	name := f.Name
	if name == "" {
		name = "lambda"
	}
	return fmt.Sprintf("<function %s(%s)>", name, strings.Join(names, ", "))
}

// Arity returns the number of declared parameters.
func (f *Function) Arity() int { return len(f.Parameters) }

// BuiltinFn is the Go-side implementation behind a Builtin value.
type BuiltinFn func(args []Object) Object

// Builtin wraps a kernel or registry-provided native function.
type Builtin struct {
	Name string
	Fn   BuiltinFn
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return fmt.Sprintf("<builtin %s>", b.Name) }

// OverloadSet is a binding-time composite formed when an `and` statement
// extends a function of the same name and either side carries a type
// signature or the two parameter counts differ. A plain `let` never forms
// one: it replaces the existing binding. The resolver in overload.go
// scores each candidate against the call's argument types; ties go to
// the earlier declaration.
type OverloadSet struct {
	Name      string
	Overloads []Object // each a *Function or *Builtin
}

func (o *OverloadSet) Type() ObjectType { return OVERLOAD_OBJ }
func (o *OverloadSet) Inspect() string {
	return fmt.Sprintf("<overload-set %s (%d variants)>", o.Name, len(o.Overloads))
}

// ReversibleFunction is formed when an `and` statement extends a forward
// (`->`) function with a reverse (`<-`) bodied one of the same name, or
// the other way round; a plain `let` never forms one.
// Forward calls use
// Forward; the reverse pipe operator `</` calls Reverse.
type ReversibleFunction struct {
	Name    string
	Forward Object
	Reverse Object
}

func (r *ReversibleFunction) Type() ObjectType { return REVERSIBLE_OBJ }
func (r *ReversibleFunction) Inspect() string {
	return fmt.Sprintf("<reversible-function %s>", r.Name)
}
