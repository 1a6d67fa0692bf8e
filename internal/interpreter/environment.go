package interpreter

import (
	"fmt"
	"sort"

	"github.com/xirelogy/go-lox/internal/token"
)

// Environment provides lexical scoping for runtime values.
type Environment struct {
	values    map[string]Value
	enclosing *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{
		values:    make(map[string]Value),
		enclosing: enclosing,
	}
}

// Enclosing exposes the lexical parent (nil when global).
func (e *Environment) Enclosing() *Environment {
	return e.enclosing
}

// Define inserts or overwrites a binding in this scope only.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name token.Token) (Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name.Lexeme]; ok {
			return v, nil
		}
	}
	return Nil(), newRuntimeError(ErrUndefinedVariable, name, "Undefined variable '%s'.", name.Lexeme)
}

// Assign updates an existing binding in the first scope where it appears.
func (e *Environment) Assign(name token.Token, value Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = value
			return nil
		}
	}
	return newRuntimeError(ErrUndefinedVariable, name, "Undefined variable '%s'.", name.Lexeme)
}

// Ancestor returns the environment distance hops up the chain.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		if env.enclosing == nil {
			panic(fmt.Sprintf("environment: no ancestor at distance %d", distance))
		}
		env = env.enclosing
	}
	return env
}

// GetAt reads name from the scope exactly distance hops up. The resolver
// guarantees the binding exists; a miss is a programming error.
func (e *Environment) GetAt(distance int, name string) Value {
	v, ok := e.Ancestor(distance).values[name]
	if !ok {
		panic(fmt.Sprintf("environment: unresolved local %q at distance %d", name, distance))
	}
	return v
}

// AssignAt writes name in the scope exactly distance hops up.
func (e *Environment) AssignAt(distance int, name string, value Value) {
	e.Ancestor(distance).values[name] = value
}

// Keys returns the bindings of this scope in sorted order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
