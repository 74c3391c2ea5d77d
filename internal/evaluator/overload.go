package evaluator

import "fmt"

// ResolveOverload scores every candidate in the set against args and
// returns the highest-scoring one, ties broken by declaration order.
// Scoring per parameter: +2 for an exact declared-type
// match, +0 for an untyped parameter, and outright disqualification
// (score -1, never selected) on a declared-type mismatch.
func ResolveOverload(set *OverloadSet, args []Object) (Object, error) {
	bestScore := -1
	var best Object
	for _, candidate := range set.Overloads {
		score, ok := scoreCandidate(candidate, args)
		if !ok {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = candidate
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no overload of %q matches %d argument(s) of the given types", set.Name, len(args))
	}
	return best, nil
}

// scoreCandidate returns (score, eligible). A candidate is eligible only
// if the call passes at most one argument more than it declares
// parameters (fewer arguments are allowed; the missing ones bind null or
// their defaults) and no typed parameter flatly contradicts the
// argument's runtime type.
func scoreCandidate(candidate Object, args []Object) (int, bool) {
	fn, ok := candidate.(*Function)
	if !ok {
		// Builtins carry no per-parameter type signature; treat as always
		// eligible with neutral score so a user overload is preferred
		// whenever it matches.
		if _, ok := candidate.(*Builtin); ok {
			return 0, true
		}
		return 0, false
	}
	if len(args) > len(fn.Parameters)+1 {
		return 0, false
	}
	score := 0
	for i, param := range fn.Parameters {
		if i >= len(args) {
			break
		}
		if param.Type == "" {
			continue
		}
		if typeNameOf(args[i]) == param.Type {
			score += 2
		} else {
			return 0, false
		}
	}
	return score, true
}

func typeNameOf(obj Object) string {
	switch obj.(type) {
	case *Int:
		return "Int"
	case *String:
		return "String"
	case *Bool:
		return "Bool"
	case *List:
		return "List"
	case *Tuple:
		return "Tuple"
	case *Record:
		return "Record"
	case *Null:
		return "Null"
	default:
		return string(obj.Type())
	}
}
