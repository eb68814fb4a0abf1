package object

import (
	"sort"

	"treelox/value"
)

// Environment holds the variables of one scope. Environments are shared by
// pointer between closures, blocks and bound methods.
type Environment struct {
	enclosing *Environment
	values    map[string]value.Value
}

const initialEnvSize int = 4

func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{
		enclosing: enclosing,
		values:    make(map[string]value.Value, initialEnvSize),
	}
}

// Defines the variable in this scope, replacing any previous definition.
func (e *Environment) Define(name string, val value.Value) {
	e.values[name] = val
}

// Looks up the variable in this scope only.
func (e *Environment) Get(name string) (value.Value, bool) {
	val, ok := e.values[name]
	return val, ok
}

// Assigns to an existing variable of this scope, false if it is not defined.
func (e *Environment) Assign(name string, val value.Value) bool {
	if _, ok := e.values[name]; !ok {
		return false
	}

	e.values[name] = val
	return true
}

// Return the variable stored in the distance number of enclosing scopes away.
func (e *Environment) GetAt(distance int, name string) (value.Value, bool) {
	if env := e.ancestor(distance); env != nil {
		return env.Get(name)
	}
	return nil, false
}

// Assign to the variable stored in the distance number of enclosing scopes
// away, false if it is not there.
func (e *Environment) AssignAt(distance int, name string, val value.Value) bool {
	if env := e.ancestor(distance); env != nil {
		return env.Assign(name, val)
	}
	return false
}

// Names of the variables defined in this scope, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func (e *Environment) ancestor(distance int) *Environment {
	ret := e

	for i := 0; i < distance && ret != nil; i++ {
		ret = ret.enclosing
	}

	return ret
}
