package evaluator

import "github.com/flowlang/flo/internal/ast"

// typeNamePatterns maps the bare type-name identifiers a pattern can use
// to the runtime ObjectType they match.
var typeNamePatterns = map[string]ObjectType{
	"Int":      INT_OBJ,
	"String":   STRING_OBJ,
	"Bool":     BOOL_OBJ,
	"Null":     NULL_OBJ,
	"List":     LIST_OBJ,
	"Tuple":    TUPLE_OBJ,
	"Record":   RECORD_OBJ,
	"Function": FUNCTION_OBJ,
}

// evalMatchExpr evaluates the scrutinee once, then tries each case in
// order: a guard case (`if cond -> body`) matches when cond
// is truthy; a pattern case matches a bare type name against the
// scrutinee's runtime kind, any other identifier always matches and binds
// the scrutinee under that name, and any other expression matches by
// structural equality; a case with neither is the default, always
// matching. Every case environment has the scrutinee pre-bound as `input`
// and `_` so guards/patterns/bodies can reference it without redeclaring it.
func (ev *Evaluator) evalMatchExpr(n *ast.MatchExpr, env *Environment) Object {
	scrutinee := ev.Eval(n.Value, env)
	if isError(scrutinee) {
		return scrutinee
	}

	for _, c := range n.Cases {
		caseEnv := NewEnclosedEnvironment(env)
		caseEnv.Define("input", scrutinee, false)
		caseEnv.Define("_", scrutinee, false)

		switch {
		case c.Guard != nil:
			cond := ev.Eval(c.Guard, caseEnv)
			if isError(cond) {
				return cond
			}
			if !isTruthy(cond) {
				continue
			}
			return ev.Eval(c.Body, caseEnv)

		case c.Pattern != nil:
			matched, bindErr := ev.matchPattern(c.Pattern, scrutinee, caseEnv)
			if bindErr != nil {
				return bindErr
			}
			if !matched {
				continue
			}
			return ev.Eval(c.Body, caseEnv)

		default:
			return ev.Eval(c.Body, caseEnv)
		}
	}

	tok := n.GetToken()
	return newError(tok.Line, tok.Column, "match: no case satisfied for %s", scrutinee.Inspect())
}

func (ev *Evaluator) matchPattern(pattern ast.Expression, scrutinee Object, caseEnv *Environment) (bool, *Error) {
	if ident, ok := pattern.(*ast.Identifier); ok {
		if wantType, isTypeName := typeNamePatterns[ident.Value]; isTypeName {
			return scrutinee.Type() == wantType, nil
		}
		caseEnv.Define(ident.Value, scrutinee, false)
		return true, nil
	}

	patVal := ev.Eval(pattern, caseEnv)
	if err, ok := patVal.(*Error); ok {
		return false, err
	}
	return objectsEqual(scrutinee, patVal), nil
}
