package evaluator

import (
	"strings"

	"github.com/flowlang/flo/internal/ast"
)

// pipelineMember resolves a member-access property against a Pipeline
// value, implementing its composition algebra: append,
// prepend, reverse, slice, union, intersection, without, difference,
// concat, visualize. Stage identity for the set-like operations is
// pointer identity on the originating *ast.PipelineStage — two pipelines
// only share a stage when one was literally built from the other's
// stages, which is the only notion of "same stage" the grammar provides.
// Returns nil (not a *Record/etc.) if obj isn't a Pipeline or property
// isn't one of the algebra operations, letting the caller report "no such
// member".
func pipelineMember(obj Object, property string) Object {
	p, ok := obj.(*Pipeline)
	if !ok {
		return nil
	}

	switch property {
	case "append", "concat":
		return &Builtin{Name: "Pipeline." + property, Fn: func(args []Object) Object {
			other, ok := requirePipeline(args)
			if ok != nil {
				return ok
			}
			return &Pipeline{Stages: concatStages(p.Stages, other.Stages), Env: p.Env, Decorators: p.Decorators}
		}}

	case "prepend":
		return &Builtin{Name: "Pipeline.prepend", Fn: func(args []Object) Object {
			other, errObj := requirePipeline(args)
			if errObj != nil {
				return errObj
			}
			return &Pipeline{Stages: concatStages(other.Stages, p.Stages), Env: p.Env, Decorators: p.Decorators}
		}}

	case "reverse":
		return &Builtin{Name: "Pipeline.reverse", Fn: func(args []Object) Object {
			n := len(p.Stages)
			rev := make([]*ast.PipelineStage, n)
			for i, s := range p.Stages {
				rev[n-1-i] = s
			}
			return &Pipeline{Stages: rev, Env: p.Env, Decorators: p.Decorators}
		}}

	case "slice":
		return &Builtin{Name: "Pipeline.slice", Fn: func(args []Object) Object {
			if len(args) != 2 {
				return newError(0, 0, "Pipeline.slice requires (start, end)")
			}
			start, ok1 := asInt(args[0])
			end, ok2 := asInt(args[1])
			if !ok1 || !ok2 {
				return newError(0, 0, "Pipeline.slice requires Int bounds")
			}
			if start < 0 {
				start = 0
			}
			if end > len(p.Stages) {
				end = len(p.Stages)
			}
			if start > end {
				start = end
			}
			return &Pipeline{Stages: p.Stages[start:end], Env: p.Env, Decorators: p.Decorators}
		}}

	case "union":
		return &Builtin{Name: "Pipeline.union", Fn: func(args []Object) Object {
			other, errObj := requirePipeline(args)
			if errObj != nil {
				return errObj
			}
			seen := make(map[*ast.PipelineStage]bool, len(p.Stages))
			var out []*ast.PipelineStage
			for _, s := range concatStages(p.Stages, other.Stages) {
				if !seen[s] {
					seen[s] = true
					out = append(out, s)
				}
			}
			return &Pipeline{Stages: out, Env: p.Env, Decorators: p.Decorators}
		}}

	case "intersection":
		return &Builtin{Name: "Pipeline.intersection", Fn: func(args []Object) Object {
			other, errObj := requirePipeline(args)
			if errObj != nil {
				return errObj
			}
			otherSet := stageSet(other.Stages)
			var out []*ast.PipelineStage
			for _, s := range p.Stages {
				if otherSet[s] {
					out = append(out, s)
				}
			}
			return &Pipeline{Stages: out, Env: p.Env, Decorators: p.Decorators}
		}}

	case "without":
		return &Builtin{Name: "Pipeline.without", Fn: func(args []Object) Object {
			other, errObj := requirePipeline(args)
			if errObj != nil {
				return errObj
			}
			removeSet := stageSet(other.Stages)
			var out []*ast.PipelineStage
			for _, s := range p.Stages {
				if !removeSet[s] {
					out = append(out, s)
				}
			}
			return &Pipeline{Stages: out, Env: p.Env, Decorators: p.Decorators}
		}}

	case "difference":
		return &Builtin{Name: "Pipeline.difference", Fn: func(args []Object) Object {
			other, errObj := requirePipeline(args)
			if errObj != nil {
				return errObj
			}
			mine, theirs := stageSet(p.Stages), stageSet(other.Stages)
			var out []*ast.PipelineStage
			for _, s := range p.Stages {
				if !theirs[s] {
					out = append(out, s)
				}
			}
			for _, s := range other.Stages {
				if !mine[s] {
					out = append(out, s)
				}
			}
			return &Pipeline{Stages: out, Env: p.Env, Decorators: p.Decorators}
		}}

	case "length":
		return &Builtin{Name: "Pipeline.length", Fn: func(args []Object) Object {
			return &Int{Value: float64(len(p.Stages))}
		}}

	case "isEmpty":
		return &Builtin{Name: "Pipeline.isEmpty", Fn: func(args []Object) Object {
			return NativeBool(len(p.Stages) == 0)
		}}

	case "stages":
		return &Builtin{Name: "Pipeline.stages", Fn: func(args []Object) Object {
			elems := make([]Object, len(p.Stages))
			for i, s := range p.Stages {
				elems[i] = &String{Value: stageKindLabel(s)}
			}
			return &List{Elements: elems}
		}}

	case "first":
		return &Builtin{Name: "Pipeline.first", Fn: func(args []Object) Object {
			if len(p.Stages) == 0 {
				return newError(0, 0, "Pipeline.first called on an empty pipeline")
			}
			return &Pipeline{Stages: p.Stages[:1], Env: p.Env, Decorators: p.Decorators}
		}}

	case "last":
		return &Builtin{Name: "Pipeline.last", Fn: func(args []Object) Object {
			if len(p.Stages) == 0 {
				return newError(0, 0, "Pipeline.last called on an empty pipeline")
			}
			return &Pipeline{Stages: p.Stages[len(p.Stages)-1:], Env: p.Env, Decorators: p.Decorators}
		}}

	case "at":
		return &Builtin{Name: "Pipeline.at", Fn: func(args []Object) Object {
			if len(args) != 1 {
				return newError(0, 0, "Pipeline.at requires an index")
			}
			i, ok := asInt(args[0])
			if !ok || i < 0 || i >= len(p.Stages) {
				return newError(0, 0, "Pipeline.at: index out of range")
			}
			return &Pipeline{Stages: p.Stages[i : i+1], Env: p.Env, Decorators: p.Decorators}
		}}

	case "equals":
		return &Builtin{Name: "Pipeline.equals", Fn: func(args []Object) Object {
			other, errObj := requirePipeline(args)
			if errObj != nil {
				return errObj
			}
			if len(p.Stages) != len(other.Stages) {
				return FALSE
			}
			for i := range p.Stages {
				if p.Stages[i] != other.Stages[i] {
					return FALSE
				}
			}
			return TRUE
		}}

	case "visualize":
		return &Builtin{Name: "Pipeline.visualize", Fn: func(args []Object) Object {
			parts := make([]string, len(p.Stages))
			for i, s := range p.Stages {
				parts[i] = stageKindLabel(s)
			}
			return &String{Value: strings.Join(parts, " ")}
		}}

	default:
		return nil
	}
}

func stageKindLabel(s *ast.PipelineStage) string {
	switch s.Kind {
	case "parallel":
		return "\\>(parallel)"
	case "spread":
		return "/>>>(spread)"
	default:
		return "/>(stage)"
	}
}

// newPipelineNamespace builds the `Pipeline` global record exposing the
// `Pipeline.identity`/`Pipeline.empty` constants: identity
// is a one-stage pipeline that returns its input unchanged, empty has no
// stages at all (runPipeline on an empty stage list already returns its
// input verbatim, so both behave the same when invoked).
func newPipelineNamespace() *Record {
	identityStage := &ast.PipelineStage{Kind: "regular", Expr: &ast.PlaceholderExpr{}}
	rec := NewRecord()
	rec.Set("identity", &Pipeline{Stages: []*ast.PipelineStage{identityStage}})
	rec.Set("empty", &Pipeline{Stages: nil})
	return rec
}

func requirePipeline(args []Object) (*Pipeline, Object) {
	if len(args) != 1 {
		return nil, newError(0, 0, "expected exactly one Pipeline argument")
	}
	p, ok := args[0].(*Pipeline)
	if !ok {
		return nil, newError(0, 0, "expected a Pipeline argument, got %s", args[0].Type())
	}
	return p, nil
}

func concatStages(a, b []*ast.PipelineStage) []*ast.PipelineStage {
	out := make([]*ast.PipelineStage, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

func stageSet(stages []*ast.PipelineStage) map[*ast.PipelineStage]bool {
	set := make(map[*ast.PipelineStage]bool, len(stages))
	for _, s := range stages {
		set[s] = true
	}
	return set
}

func asInt(obj Object) (int, bool) {
	i, ok := obj.(*Int)
	if !ok {
		return 0, false
	}
	return int(i.Value), true
}
