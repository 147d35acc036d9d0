// File: environment.go
// Title: Script Environment
// Description: Variable bindings for one script run or one interactive
//              session. Single scope, last write wins.
// Author: Nexus Root Team
// Version: v0.1.0
// Created: 2026-03-05
// Modified: 2026-03-05
//
// Change History:
// - 2026-03-05 v0.1.0: Initial implementation

package eval

import (
	"sort"
	"sync"
)

// Environment maps variable names to values
type Environment struct {
	mu    sync.RWMutex
	store map[string]Value
}

// NewEnvironment creates an empty environment
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Value)}
}

// Get returns the binding for name
func (e *Environment) Get(name string) (Value, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.store[name]
	return v, ok
}

// Set binds name, replacing any previous binding, and returns v
func (e *Environment) Set(name string, v Value) Value {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store[name] = v
	return v
}

// Names returns the bound names, sorted
func (e *Environment) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bindings
func (e *Environment) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.store)
}

// Clone returns an independent copy. Values themselves are shared; none
// of them are mutable after construction.
func (e *Environment) Clone() *Environment {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c := &Environment{store: make(map[string]Value, len(e.store))}
	for k, v := range e.store {
		c.store[k] = v
	}
	return c
}
