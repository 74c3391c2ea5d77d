package evaluator

import (
	"fmt"
	"sync"

	"github.com/flowlang/flo/internal/ast"
)

// Pipeline is a first-class value built from a standalone `/> stage />
// stage ...` literal. Calling it threads one
// input value through every stage in order; member access exposes the
// composition algebra in pipeline_algebra.go.
type Pipeline struct {
	Stages     []*ast.PipelineStage
	Env        *Environment
	Decorators []*ast.DecoratorUse
}

func (p *Pipeline) Type() ObjectType { return PIPELINE_OBJ }
func (p *Pipeline) Inspect() string  { return fmt.Sprintf("<pipeline (%d stages)>", len(p.Stages)) }

// BidirectionalPipeline is a pipeline literal carrying distinct forward
// and reverse stage lists, produced
// by a `/> a /> b </ b' </ a'` literal. The reverse direction is invoked
// with the reverse pipe operator, mirroring ReversibleFunction.
type BidirectionalPipeline struct {
	Forward    []ast.Expression
	Reverse    []ast.Expression
	Env        *Environment
	Decorators []*ast.DecoratorUse
}

func (b *BidirectionalPipeline) Type() ObjectType { return BIDI_PIPELINE_OBJ }
func (b *BidirectionalPipeline) Inspect() string {
	return fmt.Sprintf("<bidirectional-pipeline (%d/%d stages)>", len(b.Forward), len(b.Reverse))
}

func (ev *Evaluator) evalPipelineLiteral(n *ast.PipelineLiteral, env *Environment) Object {
	return &Pipeline{Stages: n.Stages, Env: env, Decorators: n.Decorators}
}

func (ev *Evaluator) evalBidirectionalPipelineLit(n *ast.BidirectionalPipelineLit, env *Environment) Object {
	return &BidirectionalPipeline{Forward: n.Forward, Reverse: n.Reverse, Env: env, Decorators: n.Decorators}
}

// runPipeline threads args[0] through p's stages, applying the same
// placeholder/leading-argument and ParallelResult-spread conventions as
// the pipe operators.
func (ev *Evaluator) runPipeline(p *Pipeline, args []Object, line, col int) Object {
	if len(args) == 0 {
		return newError(line, col, "pipeline called with no input")
	}
	current := args[0]
	for _, stage := range p.Stages {
		switch stage.Kind {
		case "parallel":
			results := make([]Object, len(stage.Branches))
			var wg sync.WaitGroup
			for i, br := range stage.Branches {
				wg.Add(1)
				go func(i int, br ast.Expression) {
					defer wg.Done()
					results[i] = ev.pipeApply(br, p.Env, current, false, line, col)
				}(i, br)
			}
			wg.Wait()
			for _, r := range results {
				if isError(r) {
					return r
				}
			}
			current = &ParallelResult{Values: results}
		case "spread":
			switch current.(type) {
			case *List, *Tuple:
			default:
				return newError(line, col, "spread stage requires a List or Tuple, got %s", current.Type())
			}
			current = ev.pipeApply(stage.Expr, p.Env, current, true, line, col)
		default:
			current = ev.pipeApply(stage.Expr, p.Env, current, false, line, col)
		}
		if isError(current) {
			return current
		}
	}
	return current
}

// runBidiPipeline runs the forward stage chain; a BidirectionalPipeline
// used on the right of `</` runs its Reverse chain instead via
// evalReversePipeExpr's direct ReversibleFunction-style dispatch, so
// ordinary application (calls, forward pipe) always means Forward.
func (ev *Evaluator) runBidiPipeline(b *BidirectionalPipeline, args []Object, line, col int) Object {
	return ev.runStageChain(b.Forward, b.Env, args, line, col)
}

func (ev *Evaluator) runBidiPipelineReverse(b *BidirectionalPipeline, args []Object, line, col int) Object {
	return ev.runStageChain(b.Reverse, b.Env, args, line, col)
}

func (ev *Evaluator) runStageChain(stages []ast.Expression, env *Environment, args []Object, line, col int) Object {
	if len(args) == 0 {
		return newError(line, col, "pipeline called with no input")
	}
	current := args[0]
	for _, stage := range stages {
		current = ev.pipeApply(stage, env, current, false, line, col)
		if isError(current) {
			return current
		}
	}
	return current
}
