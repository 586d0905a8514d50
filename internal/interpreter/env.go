package interpreter

import (
	"fmt"
	"iter"
	"strings"
)

// Environment holds variables in the order they were first bound.
type Environment struct {
	index map[string]int
	names []string
	vals  []int32
	limit int
}

// NewEnvironment returns an empty, unbounded store.
func NewEnvironment() *Environment {
	return NewBoundedEnvironment(0)
}

// NewBoundedEnvironment returns an empty store that accepts at most limit
// distinct names. A limit of zero or less means no bound.
func NewBoundedEnvironment(limit int) *Environment {
	if limit < 0 {
		limit = 0
	}
	return &Environment{index: make(map[string]int), limit: limit}
}

func (e *Environment) Get(name string) (int32, error) {
	i, ok := e.index[name]
	if !ok {
		return 0, &UndefinedVariableError{Name: name}
	}
	return e.vals[i], nil
}

func (e *Environment) Set(name string, val int32) error {
	if i, ok := e.index[name]; ok {
		e.vals[i] = val
		return nil
	}
	if e.limit > 0 && len(e.names) >= e.limit {
		return &CapacityExceededError{Limit: e.limit}
	}
	e.index[name] = len(e.names)
	e.names = append(e.names, name)
	e.vals = append(e.vals, val)
	return nil
}

// Clear drops every variable.
func (e *Environment) Clear() {
	clear(e.index)
	e.names = e.names[:0]
	e.vals = e.vals[:0]
}

func (e *Environment) Len() int {
	return len(e.names)
}

// All yields name/value pairs in insertion order.
func (e *Environment) All() iter.Seq2[string, int32] {
	return func(yield func(string, int32) bool) {
		for i, name := range e.names {
			if !yield(name, e.vals[i]) {
				return
			}
		}
	}
}

// Names returns the bound names in insertion order.
func (e *Environment) Names() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

func (e *Environment) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for name, val := range e.All() {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%s=%d", name, val)
	}
	b.WriteByte('}')
	return b.String()
}
