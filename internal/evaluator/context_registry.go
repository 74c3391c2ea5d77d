package evaluator

import "sync"

// ContextRegistry is the process-wide `context`/`provide` slot store.
// `context name = default` declares
// a slot; `provide name = value` overwrites it; a function literal's
// `with Name` attachment clause injects the slot's current value as a
// same-named binding in the function's call-time environment. Once
// provided, a value persists for the remainder of the process.
type ContextRegistry struct {
	mu    sync.RWMutex
	slots map[string]Object
}

func NewContextRegistry() *ContextRegistry {
	return &ContextRegistry{slots: make(map[string]Object)}
}

func (c *ContextRegistry) Define(name string, def Object) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.slots[name]; !exists {
		c.slots[name] = def
	}
}

func (c *ContextRegistry) Provide(name string, val Object) {
	c.mu.Lock()
	c.slots[name] = val
	c.mu.Unlock()
}

func (c *ContextRegistry) Get(name string) (Object, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.slots[name]
	return v, ok
}
