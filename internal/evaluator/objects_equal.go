package evaluator

// objectsEqual is structural equality: same dynamic
// kind and, recursively, same contents. Functions/Builtins/Promises etc.
// are compared by identity since they have no meaningful value equality.
func objectsEqual(a, b Object) bool {
	switch av := a.(type) {
	case *Int:
		bv, ok := b.(*Int)
		return ok && av.Value == bv.Value
	case *String:
		bv, ok := b.(*String)
		return ok && av.Value == bv.Value
	case *Bool:
		bv, ok := b.(*Bool)
		return ok && av.Value == bv.Value
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !objectsEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Tuple:
		bv, ok := b.(*Tuple)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !objectsEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Record:
		bv, ok := b.(*Record)
		if !ok || len(av.Keys) != len(bv.Keys) {
			return false
		}
		for _, k := range av.Keys {
			bval, ok := bv.Fields[k]
			if !ok || !objectsEqual(av.Fields[k], bval) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
