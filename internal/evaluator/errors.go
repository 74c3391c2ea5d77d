package evaluator

import "fmt"

// CallFrame is one entry of an Error's call stack, recording where a call
// was made from.
type CallFrame struct {
	Name   string
	Line   int
	Column int
}

// Error is both Flo's runtime error value and the sentinel propagated by
// every evaluation function on failure; evaluator
// dispatch functions check `isError` immediately after any sub-evaluation
// and short-circuit by returning the *Error unchanged.
type Error struct {
	Message    string
	Line       int
	Column     int
	StackTrace []CallFrame
}

func (e *Error) Type() ObjectType { return "Error" }
func (e *Error) Inspect() string {
	out := fmt.Sprintf("ERROR: %s", e.Message)
	if e.Line > 0 {
		out = fmt.Sprintf("ERROR at %d:%d: %s", e.Line, e.Column, e.Message)
	}
	for i := len(e.StackTrace) - 1; i >= 0; i-- {
		f := e.StackTrace[i]
		out += fmt.Sprintf("\n  at %s (%d:%d)", f.Name, f.Line, f.Column)
	}
	return out
}

func newError(line, col int, format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Line: line, Column: col}
}

// NewError is newError exported for use by internal/builtinreg, whose
// modules must return the same *Error sentinel evaluator dispatch
// recognizes without reaching into evaluator-package internals.
func NewError(format string, args ...interface{}) *Error {
	return newError(0, 0, format, args...)
}

func isError(obj Object) bool {
	if obj == nil {
		return false
	}
	_, ok := obj.(*Error)
	return ok
}

// PushCall appends a call-site frame, returning a new *Error so the
// original is never mutated out from under a concurrent reader.
func (e *Error) PushCall(frame CallFrame) *Error {
	next := &Error{Message: e.Message, Line: e.Line, Column: e.Column}
	next.StackTrace = append(append([]CallFrame{}, e.StackTrace...), frame)
	return next
}
