package evaluator_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/flowlang/flo/internal/evaluator"
	"github.com/flowlang/flo/internal/parser"
)

func evalProgram(t *testing.T, src string) evaluator.Object {
	t.Helper()
	p := parser.New(src)
	prog := p.ParseProgram()
	if len(p.Errors) > 0 {
		t.Fatalf("parser errors for %q: %v", src, p.Errors)
	}
	var out bytes.Buffer
	ev := evaluator.New(&out)
	return ev.Eval(prog, ev.Global)
}

func requireInt(t *testing.T, obj evaluator.Object) float64 {
	t.Helper()
	i, ok := obj.(*evaluator.Int)
	if !ok {
		t.Fatalf("expected *Int, got %T (%s)", obj, obj.Inspect())
	}
	return i.Value
}

func TestForwardPipePrependsLeadingArg(t *testing.T) {
	result := evalProgram(t, `
		let double = (x) -> x * 2
		5 /> double
	`)
	if v := requireInt(t, result); v != 10 {
		t.Errorf("expected 10, got %v", v)
	}
}

func TestForwardPipeNonCommutativeTargetBindsInputFirst(t *testing.T) {
	result := evalProgram(t, `
		let subtract = (a, b) -> a - b
		5 /> subtract(3)
	`)
	if v := requireInt(t, result); v != 2 {
		t.Errorf("expected 5 /> subtract(3) == subtract(5, 3) == 2, got %v", v)
	}
}

func TestForwardPipePlaceholderPriority(t *testing.T) {
	result := evalProgram(t, `
		let subtract = (a, b) -> a - b
		5 /> subtract(10, input)
	`)
	if v := requireInt(t, result); v != 5 {
		t.Errorf("expected 10 - 5 = 5, got %v", v)
	}
}

func TestSpreadPipeRequiresListOrTuple(t *testing.T) {
	result := evalProgram(t, `
		let add = (a, b) -> a + b
		5 />>> add
	`)
	if _, ok := result.(*evaluator.Error); !ok {
		t.Fatalf("expected spread-pipe type error, got %T (%s)", result, result.Inspect())
	}
}

func TestSpreadPipeSpreadsListElements(t *testing.T) {
	result := evalProgram(t, `
		let add = (a, b) -> a + b
		[3, 4] />>> add
	`)
	if v := requireInt(t, result); v != 7 {
		t.Errorf("expected 7, got %v", v)
	}
}

func TestParallelPipeRunsEachBranchAgainstSharedInput(t *testing.T) {
	result := evalProgram(t, `
		let double = (x) -> x * 2
		let square = (x) -> x * x
		5 \> double \> square
	`)
	pr, ok := result.(*evaluator.ParallelResult)
	if !ok {
		t.Fatalf("expected *ParallelResult, got %T (%s)", result, result.Inspect())
	}
	if len(pr.Values) != 2 {
		t.Fatalf("expected 2 branch results, got %d", len(pr.Values))
	}
	if v := requireInt(t, pr.Values[0]); v != 10 {
		t.Errorf("expected branch 0 == 10, got %v", v)
	}
	if v := requireInt(t, pr.Values[1]); v != 25 {
		t.Errorf("expected branch 1 == 25, got %v", v)
	}
}

func TestReversePipeDispatchesReversibleFunction(t *testing.T) {
	result := evalProgram(t, `
		let celsius = (f) -> (f - 32) * 5 / 9
		and celsius = (c) <- c * 9 / 5 + 32
		100 </ celsius
	`)
	if v := requireInt(t, result); v != 212 {
		t.Errorf("expected reverse pipe to invoke the reverse body (212), got %v", v)
	}
}

func TestMatchTypeNamePattern(t *testing.T) {
	result := evalProgram(t, `
		match 5
		| Int -> "int"
		| String -> "string"
		| "not reached"
	`)
	s, ok := result.(*evaluator.String)
	if !ok || s.Value != "int" {
		t.Fatalf("expected String(\"int\"), got %T (%s)", result, result.Inspect())
	}
}

func TestMatchCatchAllBindsScrutinee(t *testing.T) {
	result := evalProgram(t, `
		match 7
		| x -> x * 10
	`)
	if v := requireInt(t, result); v != 70 {
		t.Errorf("expected 70, got %v", v)
	}
}

func TestMatchGuardCase(t *testing.T) {
	result := evalProgram(t, `
		let n = 5
		match n
		| if n > 10 -> "big"
		| if n > 0 -> "small positive"
		| "non-positive"
	`)
	s, ok := result.(*evaluator.String)
	if !ok || s.Value != "small positive" {
		t.Fatalf("expected \"small positive\", got %T (%s)", result, result.Inspect())
	}
}

func TestAssignStmtOnMaybeSucceeds(t *testing.T) {
	result := evalProgram(t, `
		maybe counter = 0
		counter = counter + 1
		counter = counter + 1
		counter
	`)
	if v := requireInt(t, result); v != 2 {
		t.Errorf("expected 2, got %v", v)
	}
}

func TestAssignStmtOnLetFails(t *testing.T) {
	result := evalProgram(t, `
		let x = 0
		x = 1
	`)
	if _, ok := result.(*evaluator.Error); !ok {
		t.Fatalf("expected error reassigning a let binding, got %T (%s)", result, result.Inspect())
	}
}

func TestMemoDecoratorCachesByArgs(t *testing.T) {
	result := evalProgram(t, `
		maybe calls = 0
		let slow = (x) -> {
			calls = calls + 1
			x * x
		} #memo
		slow(4)
		slow(4)
		slow(5)
		calls
	`)
	if v := requireInt(t, result); v != 2 {
		t.Errorf("expected memoized calls count of 2 (one per distinct arg), got %v", v)
	}
}

func TestRetryDecoratorCallsNPlusOneTimesBeforeExhausting(t *testing.T) {
	src := `
		maybe calls = 0
		let boom = () -> {
			calls = calls + 1
			does_not_exist
		} #retry(3)
		boom()
	`
	p := parser.New(src)
	prog := p.ParseProgram()
	if len(p.Errors) > 0 {
		t.Fatalf("parser errors: %v", p.Errors)
	}
	var out bytes.Buffer
	ev := evaluator.New(&out)
	result := ev.Eval(prog, ev.Global)
	if _, ok := result.(*evaluator.Error); !ok {
		t.Fatalf("expected the exhausted retry to propagate an error, got %T (%s)", result, result.Inspect())
	}
	calls, ok := ev.Global.Get("calls")
	if !ok {
		t.Fatalf("expected calls to be bound in the global environment")
	}
	if v := requireInt(t, calls); v != 4 {
		t.Errorf("expected #retry(3) to call the target exactly 4 times, got %v calls", v)
	}
}

func TestMapFilterReduceChainIsDataFirst(t *testing.T) {
	result := evalProgram(t, `
		[1, 2, 3, 4, 5] /> filter((x) -> x > 2) /> map((x) -> x * x) /> reduce(0, (acc, x) -> acc + x)
	`)
	if v := requireInt(t, result); v != 50 {
		t.Errorf("expected 50, got %v", v)
	}
}

func TestParallelAppliesFnWithIndexUnderLimit(t *testing.T) {
	result := evalProgram(t, `
		let combine = (x, i) -> x * 10 + i
		await parallel([7, 8, 9], combine, { limit: 1 })
	`)
	list, ok := result.(*evaluator.List)
	if !ok {
		t.Fatalf("expected *List, got %T (%s)", result, result.Inspect())
	}
	want := []float64{70, 81, 92}
	for i, w := range want {
		if v := requireInt(t, list.Elements[i]); v != w {
			t.Errorf("expected element %d == %v, got %v", i, w, v)
		}
	}
}

func TestMissingTrailingArgBindsNull(t *testing.T) {
	result := evalProgram(t, `
		let greet = (name) -> name
		greet()
	`)
	if _, ok := result.(*evaluator.Null); !ok {
		t.Fatalf("expected a missing argument to bind Null, got %T (%s)", result, result.Inspect())
	}
}

func TestUnderscoreParamIsSkipped(t *testing.T) {
	result := evalProgram(t, `
		let second = (_, b) -> b
		second(1, 2)
	`)
	if v := requireInt(t, result); v != 2 {
		t.Errorf("expected 2, got %v", v)
	}
}

func TestMissingContextAttachmentFails(t *testing.T) {
	result := evalProgram(t, `
		let greet = () with Logger -> Logger
		greet()
	`)
	if _, ok := result.(*evaluator.Error); !ok {
		t.Fatalf("expected an error for an undeclared context attachment, got %T (%s)", result, result.Inspect())
	}
}

func TestContextAttachmentBindsCurrentValue(t *testing.T) {
	result := evalProgram(t, `
		context Logger = "default"
		let whoAmI = () with Logger -> Logger
		provide Logger = "overridden"
		whoAmI()
	`)
	s, ok := result.(*evaluator.String)
	if !ok || s.Value != "overridden" {
		t.Fatalf("expected String(\"overridden\"), got %T (%s)", result, result.Inspect())
	}
}

func TestPureDecoratorInterceptsPrint(t *testing.T) {
	var out bytes.Buffer
	p := parser.New(`
		let quiet = () -> print("leaked") #pure
		quiet()
		print("after")
	`)
	prog := p.ParseProgram()
	if len(p.Errors) > 0 {
		t.Fatalf("parser errors: %v", p.Errors)
	}
	ev := evaluator.New(&out)
	ev.Eval(prog, ev.Global)
	got := out.String()
	if !strings.Contains(got, "Warning") {
		t.Errorf("expected a warning for print called inside #pure, got %q", got)
	}
	if !strings.Contains(got, "after") {
		t.Errorf("expected print to be restored after #pure returns, got %q", got)
	}
	if strings.Contains(got, "leaked") {
		t.Errorf("expected #pure to suppress the intercepted print's own output, got %q", got)
	}
}

func TestPipelineAppendAndLength(t *testing.T) {
	result := evalProgram(t, `
		let inc = (x) -> x + 1
		let double = (x) -> x * 2
		let base = /> inc
		let combined = base.append(/> double)
		combined.length()
	`)
	if v := requireInt(t, result); v != 2 {
		t.Errorf("expected combined pipeline length 2, got %v", v)
	}
}
