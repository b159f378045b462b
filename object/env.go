package object

import "sort"

// Environment is the single flat namespace of a session, there is no
// block scoping.
type Environment struct {
	store map[string]Object
}

func NewEnvironment() *Environment {
	s := make(map[string]Object)
	return &Environment{
		store: s,
	}
}

func (e *Environment) Resolve(name string) (Object, bool) {
	obj, ok := e.store[name]
	return obj, ok
}

// Bind creates or overwrites the binding of name
func (e *Environment) Bind(name string, val Object) Object {
	e.store[name] = val
	return val
}

// Names lists the bound names in sorted order
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
