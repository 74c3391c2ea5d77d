package evaluator

import "sync"

// DecoratorRegistry holds custom decorators defined with `decorator name =
// (fn) -> wrappedFn`. `#name`
// annotations first check the 22 kernel decorators (wrapOneDecorator in
// decorators.go) and fall back to this registry.
type DecoratorRegistry struct {
	mu   sync.RWMutex
	defs map[string]Object // each a *Function taking one executor arg
}

func NewDecoratorRegistry() *DecoratorRegistry {
	return &DecoratorRegistry{defs: make(map[string]Object)}
}

func (d *DecoratorRegistry) Define(name string, fn Object) {
	d.mu.Lock()
	d.defs[name] = fn
	d.mu.Unlock()
}

func (d *DecoratorRegistry) Get(name string) (Object, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn, ok := d.defs[name]
	return fn, ok
}
