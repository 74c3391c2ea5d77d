package evaluator

import "github.com/flowlang/flo/internal/ast"

func (ev *Evaluator) evalUnaryExpr(n *ast.UnaryExpr, env *Environment) Object {
	right := ev.Eval(n.Right, env)
	if isError(right) {
		return right
	}
	tok := n.GetToken()
	switch n.Operator {
	case "-":
		i, ok := right.(*Int)
		if !ok {
			return newError(tok.Line, tok.Column, "unary - requires Int, got %s", right.Type())
		}
		return &Int{Value: -i.Value, IsFloatSyntax: i.IsFloatSyntax}
	case "!":
		return NativeBool(!isTruthy(right))
	default:
		return newError(tok.Line, tok.Column, "unknown unary operator %s", n.Operator)
	}
}

// evalBinaryExpr implements arithmetic, string concatenation (with
// numeric-to-string coercion on `+`), comparison, equality, and
// short-circuiting boolean operators.
func (ev *Evaluator) evalBinaryExpr(n *ast.BinaryExpr, env *Environment) Object {
	tok := n.GetToken()

	if n.Operator == "&&" {
		left := ev.Eval(n.Left, env)
		if isError(left) {
			return left
		}
		if !isTruthy(left) {
			return FALSE
		}
		right := ev.Eval(n.Right, env)
		if isError(right) {
			return right
		}
		return NativeBool(isTruthy(right))
	}
	if n.Operator == "||" {
		left := ev.Eval(n.Left, env)
		if isError(left) {
			return left
		}
		if isTruthy(left) {
			return TRUE
		}
		right := ev.Eval(n.Right, env)
		if isError(right) {
			return right
		}
		return NativeBool(isTruthy(right))
	}

	left := ev.Eval(n.Left, env)
	if isError(left) {
		return left
	}
	right := ev.Eval(n.Right, env)
	if isError(right) {
		return right
	}

	switch n.Operator {
	case "==":
		return NativeBool(objectsEqual(left, right))
	case "!=":
		return NativeBool(!objectsEqual(left, right))
	}

	if n.Operator == "+" {
		if ls, ok := left.(*String); ok {
			return &String{Value: ls.Value + stringifyForConcat(right)}
		}
		if rs, ok := right.(*String); ok {
			return &String{Value: stringifyForConcat(left) + rs.Value}
		}
	}

	li, lok := left.(*Int)
	ri, rok := right.(*Int)
	if !lok || !rok {
		return newError(tok.Line, tok.Column, "operator %s not defined for %s and %s", n.Operator, left.Type(), right.Type())
	}
	isFloat := li.IsFloatSyntax || ri.IsFloatSyntax

	switch n.Operator {
	case "+":
		return &Int{Value: li.Value + ri.Value, IsFloatSyntax: isFloat}
	case "-":
		return &Int{Value: li.Value - ri.Value, IsFloatSyntax: isFloat}
	case "*":
		return &Int{Value: li.Value * ri.Value, IsFloatSyntax: isFloat}
	case "/":
		if ri.Value == 0 {
			return newError(tok.Line, tok.Column, "division by zero")
		}
		return &Int{Value: li.Value / ri.Value, IsFloatSyntax: true}
	case "%":
		if ri.Value == 0 {
			return newError(tok.Line, tok.Column, "division by zero")
		}
		return &Int{Value: float64(int64(li.Value) % int64(ri.Value))}
	case "<":
		return NativeBool(li.Value < ri.Value)
	case ">":
		return NativeBool(li.Value > ri.Value)
	case "<=":
		return NativeBool(li.Value <= ri.Value)
	case ">=":
		return NativeBool(li.Value >= ri.Value)
	default:
		return newError(tok.Line, tok.Column, "unknown operator %s", n.Operator)
	}
}

// stringifyForConcat renders a non-string operand of `+` the same way
// Inspect does, implementing the numeric/bool-to-string coercion rule.
func stringifyForConcat(obj Object) string {
	return obj.Inspect()
}
