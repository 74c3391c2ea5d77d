package builtinreg

import "github.com/flowlang/flo/internal/evaluator"

// grpcModule is a registry-interface stub: it documents the shape a real gRPC
// built-in module would take — connect/call/close — without importing
// a protoreflect/grpc/protobuf stack (see DESIGN.md for why those are
// not wired: this repo has no .proto descriptors to compile against,
// so there is nothing concrete for them to serve yet).
// Every function reports a clear "not implemented" error rather than
// silently returning a placeholder value.
type grpcModule struct{}

func (grpcModule) Name() string { return "grpc" }

func (grpcModule) Register(out map[string]*evaluator.Builtin) {
	notImplemented := func(name string) *evaluator.Builtin {
		return &evaluator.Builtin{Name: name, Fn: func(args []evaluator.Object) evaluator.Object {
			return evaluator.NewError("grpc.%s: not implemented (no proto descriptors registered)", name)
		}}
	}
	out["connect"] = notImplemented("connect")
	out["call"] = notImplemented("call")
	out["close"] = notImplemented("close")
}
