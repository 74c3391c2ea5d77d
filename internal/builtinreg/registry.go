// Package builtinreg wires the non-kernel built-ins (math/string/date/
// json/yaml/sql/http, plus a grpc stub) into an evaluator's Global
// environment. The kernel built-ins every program gets for free
// (print, map, filter, reduce, delay, parallel, race, then, the Pipeline
// namespace) live in evaluator.RegisterKernelBuiltins instead; everything
// here is reached through a global namespace Record per module (`math`,
// `json`, ...), one file per concern.
package builtinreg

import "github.com/flowlang/flo/internal/evaluator"

// Module is one built-in package: Name is the global name its namespace
// Record is bound to, Register installs its functions.
type Module interface {
	Name() string
	Register(out map[string]*evaluator.Builtin)
}

// All returns every registry module in a fixed registration order.
func All() []Module {
	return []Module{
		mathModule{},
		stringModule{},
		dateModule{},
		jsonModule{},
		yamlModule{},
		sqlModule{},
		httpModule{},
		grpcModule{},
	}
}

// RegisterAll installs every module's functions into env under its Name,
// as a Record namespace (so `math.sqrt(x)` works with no import statement,
// the same way the Pipeline namespace in builtins_kernel.go does).
func RegisterAll(env *evaluator.Environment) {
	for _, mod := range All() {
		fns := make(map[string]*evaluator.Builtin)
		mod.Register(fns)
		rec := evaluator.NewRecord()
		for name, b := range fns {
			rec.Set(name, b)
		}
		env.Define(mod.Name(), rec, false)
	}
}
