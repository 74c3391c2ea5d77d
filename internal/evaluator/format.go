package evaluator

import (
	"sort"
	"strconv"
	"strings"
)

// serializeForMemoKey renders obj into a deterministic string used as a
// memoization cache key: same arguments
// must always produce the same key regardless of Go map iteration order,
// so Record fields are sorted rather than walked in insertion order.
func serializeForMemoKey(obj Object) string {
	var b strings.Builder
	writeMemoKey(&b, obj)
	return b.String()
}

func serializeArgsForMemoKey(args []Object) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = serializeForMemoKey(a)
	}
	return strings.Join(parts, "|")
}

func writeMemoKey(b *strings.Builder, obj Object) {
	switch v := obj.(type) {
	case *Int:
		b.WriteString("i:")
		b.WriteString(strconv.FormatFloat(v.Value, 'g', -1, 64))
	case *String:
		b.WriteString("s:")
		b.WriteString(strconv.Quote(v.Value))
	case *Bool:
		b.WriteString("b:")
		b.WriteString(strconv.FormatBool(v.Value))
	case *Null:
		b.WriteString("n")
	case *List:
		b.WriteString("l[")
		for i, e := range v.Elements {
			if i > 0 {
				b.WriteByte(',')
			}
			writeMemoKey(b, e)
		}
		b.WriteByte(']')
	case *Tuple:
		b.WriteString("t(")
		for i, e := range v.Elements {
			if i > 0 {
				b.WriteByte(',')
			}
			writeMemoKey(b, e)
		}
		b.WriteByte(')')
	case *Record:
		b.WriteString("r{")
		keys := append([]string{}, v.Keys...)
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(k)
			b.WriteByte(':')
			writeMemoKey(b, v.Fields[k])
		}
		b.WriteByte('}')
	default:
		b.WriteString(string(obj.Type()))
		b.WriteByte(':')
		b.WriteString(obj.Inspect())
	}
}
