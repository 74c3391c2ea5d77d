package parser

import (
	"testing"

	"github.com/flowlang/flo/internal/ast"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(input)
	prog := p.ParseProgram()
	if len(p.Errors) > 0 {
		t.Fatalf("parser errors for %q: %v", input, p.Errors)
	}
	return prog
}

func TestLetStatement(t *testing.T) {
	prog := parseProgram(t, `let x = 5`)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	stmt, ok := prog.Statements[0].(*ast.LetStmt)
	if !ok {
		t.Fatalf("expected *ast.LetStmt, got %T", prog.Statements[0])
	}
	if stmt.Name != "x" {
		t.Errorf("expected name %q, got %q", "x", stmt.Name)
	}
	if stmt.Mutable {
		t.Errorf("expected immutable binding for let")
	}
	num, ok := stmt.Value.(*ast.NumberLiteral)
	if !ok {
		t.Fatalf("expected *ast.NumberLiteral value, got %T", stmt.Value)
	}
	if num.Value != 5 {
		t.Errorf("expected value 5, got %v", num.Value)
	}
}

func TestMaybeStatementIsMutable(t *testing.T) {
	prog := parseProgram(t, `maybe counter = 0`)
	stmt := prog.Statements[0].(*ast.LetStmt)
	if !stmt.Mutable {
		t.Errorf("expected maybe binding to be mutable")
	}
}

func TestLetInExpression(t *testing.T) {
	prog := parseProgram(t, `let user = { name: "Alice", age: 30 } in user.name`)
	exprStmt, ok := prog.Statements[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected *ast.ExprStmt, got %T", prog.Statements[0])
	}
	letIn, ok := exprStmt.Expression.(*ast.LetInExpr)
	if !ok {
		t.Fatalf("expected *ast.LetInExpr, got %T", exprStmt.Expression)
	}
	if letIn.Name != "user" {
		t.Errorf("expected name %q, got %q", "user", letIn.Name)
	}
	record, ok := letIn.Value.(*ast.RecordExpr)
	if !ok {
		t.Fatalf("expected record value, got %T", letIn.Value)
	}
	if len(record.Fields) != 2 {
		t.Errorf("expected 2 fields, got %d", len(record.Fields))
	}
	member, ok := letIn.Body.(*ast.MemberExpr)
	if !ok {
		t.Fatalf("expected member body, got %T", letIn.Body)
	}
	if member.Property != "name" {
		t.Errorf("expected property %q, got %q", "name", member.Property)
	}
}

func TestForwardPipeChainIsLeftAssociative(t *testing.T) {
	prog := parseProgram(t, `16 /> sqrt /> print`)
	exprStmt := prog.Statements[0].(*ast.ExprStmt)
	outer, ok := exprStmt.Expression.(*ast.PipeExpr)
	if !ok {
		t.Fatalf("expected *ast.PipeExpr, got %T", exprStmt.Expression)
	}
	if ident, ok := outer.Right.(*ast.Identifier); !ok || ident.Value != "print" {
		t.Fatalf("expected outer right = print, got %#v", outer.Right)
	}
	inner, ok := outer.Left.(*ast.PipeExpr)
	if !ok {
		t.Fatalf("expected inner pipe as left child, got %T", outer.Left)
	}
	if num, ok := inner.Left.(*ast.NumberLiteral); !ok || num.Value != 16 {
		t.Fatalf("expected innermost left = 16, got %#v", inner.Left)
	}
	if ident, ok := inner.Right.(*ast.Identifier); !ok || ident.Value != "sqrt" {
		t.Fatalf("expected inner right = sqrt, got %#v", inner.Right)
	}
}

func TestParallelPipeGroupsBranchesThenCombines(t *testing.T) {
	prog := parseProgram(t, `10 \> (x) -> x + 1 \> (x) -> x * 2 /> (a, b) -> a + b`)
	exprStmt := prog.Statements[0].(*ast.ExprStmt)
	combine, ok := exprStmt.Expression.(*ast.PipeExpr)
	if !ok {
		t.Fatalf("expected *ast.PipeExpr combine stage, got %T", exprStmt.Expression)
	}
	combineFn, ok := combine.Right.(*ast.FunctionExpr)
	if !ok || len(combineFn.Parameters) != 2 {
		t.Fatalf("expected 2-arg combine function, got %#v", combine.Right)
	}
	group, ok := combine.Left.(*ast.ParallelPipeExpr)
	if !ok {
		t.Fatalf("expected *ast.ParallelPipeExpr, got %T", combine.Left)
	}
	if num, ok := group.Input.(*ast.NumberLiteral); !ok || num.Value != 10 {
		t.Fatalf("expected group input = 10, got %#v", group.Input)
	}
	if len(group.Branches) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(group.Branches))
	}
	for i, b := range group.Branches {
		fn, ok := b.(*ast.FunctionExpr)
		if !ok || len(fn.Parameters) != 1 {
			t.Fatalf("branch %d: expected 1-arg lambda, got %#v", i, b)
		}
	}
}

func TestReversePipe(t *testing.T) {
	prog := parseProgram(t, `10 </ double`)
	exprStmt := prog.Statements[0].(*ast.ExprStmt)
	rev, ok := exprStmt.Expression.(*ast.ReversePipeExpr)
	if !ok {
		t.Fatalf("expected *ast.ReversePipeExpr, got %T", exprStmt.Expression)
	}
	if num, ok := rev.Value.(*ast.NumberLiteral); !ok || num.Value != 10 {
		t.Fatalf("expected value = 10, got %#v", rev.Value)
	}
	if ident, ok := rev.Target.(*ast.Identifier); !ok || ident.Value != "double" {
		t.Fatalf("expected target = double, got %#v", rev.Target)
	}
}

func TestTernaryInsideLambdaBodyWithTrailingDecorator(t *testing.T) {
	prog := parseProgram(t, `let fib = (n) -> n <= 1 ? n : fib(n - 1) + fib(n - 2) #memo`)
	stmt := prog.Statements[0].(*ast.LetStmt)
	fn, ok := stmt.Value.(*ast.FunctionExpr)
	if !ok {
		t.Fatalf("expected *ast.FunctionExpr, got %T", stmt.Value)
	}
	ternary, ok := fn.Body.(*ast.TernaryExpr)
	if !ok {
		t.Fatalf("expected *ast.TernaryExpr body, got %T", fn.Body)
	}
	if _, ok := ternary.Condition.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected binary condition, got %T", ternary.Condition)
	}
	if len(fn.Decorators) != 1 || fn.Decorators[0].Name != "memo" {
		t.Fatalf("expected trailing #memo decorator, got %#v", fn.Decorators)
	}
}

func TestMatchExpressionWithGuardAndDefault(t *testing.T) {
	prog := parseProgram(t, `match x | 0 -> "zero" | if x > 0 -> "positive" | "other"`)
	exprStmt := prog.Statements[0].(*ast.ExprStmt)
	match, ok := exprStmt.Expression.(*ast.MatchExpr)
	if !ok {
		t.Fatalf("expected *ast.MatchExpr, got %T", exprStmt.Expression)
	}
	if len(match.Cases) != 3 {
		t.Fatalf("expected 3 cases, got %d", len(match.Cases))
	}
	if match.Cases[0].Pattern == nil {
		t.Errorf("expected case 0 to be a pattern case")
	}
	if match.Cases[1].Guard == nil {
		t.Errorf("expected case 1 to be a guard case")
	}
	if match.Cases[2].Pattern != nil || match.Cases[2].Guard != nil {
		t.Errorf("expected case 2 to be the default case")
	}
}

func TestPipelineComposedThroughFilterMapReduce(t *testing.T) {
	prog := parseProgram(t, `[1, 2, 3, 4, 5] /> filter((x) -> x > 2) /> map((x) -> x * x) /> reduce(0, (acc, x) -> acc + x)`)
	exprStmt := prog.Statements[0].(*ast.ExprStmt)
	outer, ok := exprStmt.Expression.(*ast.PipeExpr)
	if !ok {
		t.Fatalf("expected outer *ast.PipeExpr, got %T", exprStmt.Expression)
	}
	call, ok := outer.Right.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected reduce call, got %T", outer.Right)
	}
	if ident, ok := call.Callee.(*ast.Identifier); !ok || ident.Value != "reduce" {
		t.Fatalf("expected callee reduce, got %#v", call.Callee)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args to reduce, got %d", len(call.Args))
	}
}

func TestTemplateStringInterpolation(t *testing.T) {
	prog := parseProgram(t, "let name = \"world\"\nlet greeting = `hello ${name}!`")
	stmt := prog.Statements[1].(*ast.LetStmt)
	tmpl, ok := stmt.Value.(*ast.TemplateStringExpr)
	if !ok {
		t.Fatalf("expected *ast.TemplateStringExpr, got %T", stmt.Value)
	}
	if len(tmpl.Exprs) != 1 {
		t.Fatalf("expected 1 interpolated expression, got %d", len(tmpl.Exprs))
	}
	if ident, ok := tmpl.Exprs[0].(*ast.Identifier); !ok || ident.Value != "name" {
		t.Fatalf("expected interpolated identifier name, got %#v", tmpl.Exprs[0])
	}
	if len(tmpl.Literals) != 2 || tmpl.Literals[0] != "hello " || tmpl.Literals[1] != "!" {
		t.Fatalf("unexpected literal fragments: %#v", tmpl.Literals)
	}
}

func TestDestructuringLet(t *testing.T) {
	prog := parseProgram(t, `let (a, b) = (1, 2)`)
	stmt := prog.Statements[0].(*ast.LetStmt)
	if len(stmt.Pattern) != 2 || stmt.Pattern[0] != "a" || stmt.Pattern[1] != "b" {
		t.Fatalf("expected pattern [a b], got %#v", stmt.Pattern)
	}
	tuple, ok := stmt.Value.(*ast.TupleExpr)
	if !ok || len(tuple.Elements) != 2 {
		t.Fatalf("expected 2-element tuple value, got %#v", stmt.Value)
	}
}

func TestFunctionWithDefaultParameterAndContextAttachment(t *testing.T) {
	prog := parseProgram(t, `let greet = (name, greeting = "hi") with Logger -> greeting`)
	stmt := prog.Statements[0].(*ast.LetStmt)
	fn := stmt.Value.(*ast.FunctionExpr)
	if len(fn.Parameters) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(fn.Parameters))
	}
	if fn.Parameters[1].Default == nil {
		t.Errorf("expected default expression on second parameter")
	}
	if len(fn.Attachments) != 1 || fn.Attachments[0] != "Logger" {
		t.Fatalf("expected [Logger] attachment, got %#v", fn.Attachments)
	}
}

func TestReverseBodiedFunction(t *testing.T) {
	prog := parseProgram(t, `let double = (x) <- x / 2`)
	stmt := prog.Statements[0].(*ast.LetStmt)
	fn := stmt.Value.(*ast.FunctionExpr)
	if !fn.IsReverse {
		t.Errorf("expected IsReverse to be true for <- bodied function")
	}
}

func TestTuplePlainExpressionIsNotWrapped(t *testing.T) {
	prog := parseProgram(t, `let x = (1 + 2) * 3`)
	stmt := prog.Statements[0].(*ast.LetStmt)
	bin, ok := stmt.Value.(*ast.BinaryExpr)
	if !ok || bin.Operator != "*" {
		t.Fatalf("expected top-level multiply, got %#v", stmt.Value)
	}
	if _, ok := bin.Left.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected parenthesized sum collapsed to *ast.BinaryExpr, got %T", bin.Left)
	}
}

func TestCallWithPlaceholderArgument(t *testing.T) {
	prog := parseProgram(t, `let incAll = (xs) -> xs /> map(add(1, _))`)
	stmt := prog.Statements[0].(*ast.LetStmt)
	pipe := stmt.Value.(*ast.PipeExpr)
	if _, ok := pipe.Left.(*ast.FunctionExpr); !ok {
		t.Fatalf("expected the bare lambda as the pipe's left side, got %T", pipe.Left)
	}
	call := pipe.Right.(*ast.CallExpr)
	inner := call.Args[0].(*ast.CallExpr)
	if _, ok := inner.Args[1].(*ast.PlaceholderExpr); !ok {
		t.Fatalf("expected placeholder arg, got %#v", inner.Args[1])
	}
}
