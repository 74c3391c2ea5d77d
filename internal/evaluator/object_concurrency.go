package evaluator

import (
	"fmt"
	"sync"
)

// Promise wraps a value that is resolved either immediately (the sync
// evaluation path, which returns promises opaquely) or once a
// background goroutine finishes (the concurrency-capped `parallel`/
// `race`/`async` builtins). Await blocks until resolution and memoizes
// the outcome so repeated Awaits are cheap.
type Promise struct {
	mu       sync.Mutex
	done     bool
	value    Object
	err      *Error
	waiters  chan struct{}
}

func newPendingPromise() *Promise {
	return &Promise{waiters: make(chan struct{})}
}

// ResolvedPromise wraps an already-known value, used whenever a
// synchronous computation needs to present itself as a Promise to satisfy
// promise-lifting rules.
func ResolvedPromise(v Object) *Promise {
	p := &Promise{done: true, value: v, waiters: make(chan struct{})}
	close(p.waiters)
	return p
}

// RejectedPromise wraps an error outcome.
func RejectedPromise(err *Error) *Promise {
	p := &Promise{done: true, err: err, waiters: make(chan struct{})}
	close(p.waiters)
	return p
}

func (p *Promise) resolve(v Object) {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return
	}
	p.value, p.done = v, true
	p.mu.Unlock()
	close(p.waiters)
}

func (p *Promise) reject(err *Error) {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return
	}
	p.err, p.done = err, true
	p.mu.Unlock()
	close(p.waiters)
}

// Await blocks until the promise settles and returns its outcome.
func (p *Promise) Await() (Object, *Error) {
	<-p.waiters
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, p.err
}

// spawnPromise runs fn on a new goroutine and returns a Promise settled
// with its outcome; fn itself signals failure by returning a *Error as
// the Object (see errors.go), which is unwrapped into the reject path.
func spawnPromise(fn func() Object) *Promise {
	p := newPendingPromise()
	go func() {
		result := fn()
		if errObj, ok := result.(*Error); ok {
			p.reject(errObj)
			return
		}
		p.resolve(result)
	}()
	return p
}

func (p *Promise) Type() ObjectType { return PROMISE_OBJ }
func (p *Promise) Inspect() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.done {
		return "<promise pending>"
	}
	if p.err != nil {
		return fmt.Sprintf("<promise rejected: %s>", p.err.Message)
	}
	return fmt.Sprintf("<promise resolved: %s>", p.value.Inspect())
}

// ParallelResult is the materialized output of a `\>` branch group: one
// value per branch, in branch order. When
// piped forward with `/>` its elements spread into the next stage's
// positional parameters.
type ParallelResult struct {
	Values []Object
}

func (p *ParallelResult) Type() ObjectType { return PARALLEL_OBJ }
func (p *ParallelResult) Inspect() string  { return inspectSlice("<parallel ", p.Values, ">") }
