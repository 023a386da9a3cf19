package augment

type (
	// Kwargs is the catch-all parameter type: a wrapped function declaring a
	// trailing Kwargs parameter absorbs every named argument that does not
	// match a declared parameter.
	Kwargs map[string]any

	// NamedArg carries a keyword-style argument for Func.Call, see Named.
	NamedArg struct {
		Name  string
		Value any
	}

	binding struct {
		name     string
		value    any
		byName   bool // supplied as a named argument rather than positionally
		absorbed bool // undeclared, absorbed into the kwargs bucket
	}

	// Call holds the arguments of a single invocation, resolved by name.
	//
	// It is built fresh for every call, in a deterministic order: positional
	// bindings in declaration order, then named bindings in the order they
	// were supplied. Stages may rewrite values but the shape of the call
	// (positional vs named, declared vs absorbed) is fixed at bind time.
	Call struct {
		fn       string
		bindings []binding
	}
)

// Named builds a keyword-style argument for Func.Call.
func Named(name string, value any) NamedArg {
	return NamedArg{Name: name, Value: value}
}

// Fn returns the name of the wrapped function this call is addressed to.
func (c *Call) Fn() string {
	return c.fn
}

// Value returns the value bound to the given argument name, declared
// parameters and absorbed named arguments alike.
func (c *Call) Value(name string) (any, bool) {
	for i := range c.bindings {
		if c.bindings[i].name == name {
			return c.bindings[i].value, true
		}
	}
	return nil, false
}

// Names returns every bound argument name, in binding order.
func (c *Call) Names() []string {
	names := make([]string, len(c.bindings))
	for i := range c.bindings {
		names[i] = c.bindings[i].name
	}
	return names
}

// Values returns a fresh name to value snapshot of the call.
func (c *Call) Values() map[string]any {
	values := make(map[string]any, len(c.bindings))
	for i := range c.bindings {
		values[c.bindings[i].name] = c.bindings[i].value
	}
	return values
}

// setValue rewrites the value bound to the given name, preserving how the
// argument was originally supplied.
func (c *Call) setValue(name string, value any) bool {
	for i := range c.bindings {
		if c.bindings[i].name == name {
			c.bindings[i].value = value
			return true
		}
	}
	return false
}

// declared returns the value bound to a declared parameter, ignoring the
// kwargs bucket.
func (c *Call) declared(name string) (any, bool) {
	for i := range c.bindings {
		if c.bindings[i].name == name && !c.bindings[i].absorbed {
			return c.bindings[i].value, true
		}
	}
	return nil, false
}

// absorbed collects the kwargs bucket of the call.
func (c *Call) absorbed() Kwargs {
	kwargs := make(Kwargs)
	for i := range c.bindings {
		if c.bindings[i].absorbed {
			kwargs[c.bindings[i].name] = c.bindings[i].value
		}
	}
	return kwargs
}
