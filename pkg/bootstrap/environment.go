package bootstrap

import (
	"fmt"
	"sync"
)

// Environment holds the collaborator handles available to plugins. A
// collaborator is present exactly when a non-nil handle was provided for it.
type Environment struct {
	mu      sync.RWMutex
	handles map[Collaborator]any
}

// NewEnvironment creates an empty environment
func NewEnvironment() *Environment {
	return &Environment{
		handles: make(map[Collaborator]any),
	}
}

// Provide registers a handle for a collaborator, replacing any previous one.
// A nil handle removes the collaborator.
func (e *Environment) Provide(c Collaborator, handle any) *Environment {
	e.mu.Lock()
	defer e.mu.Unlock()

	if handle == nil {
		delete(e.handles, c)
		return e
	}
	e.handles[c] = handle
	return e
}

// Remove drops a collaborator from the environment
func (e *Environment) Remove(c Collaborator) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.handles, c)
}

// Has reports whether a collaborator is present
func (e *Environment) Has(c Collaborator) bool {
	if e == nil {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()

	_, ok := e.handles[c]
	return ok
}

// Lookup returns the raw handle for a collaborator
func (e *Environment) Lookup(c Collaborator) (any, bool) {
	if e == nil {
		return nil, false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()

	h, ok := e.handles[c]
	return h, ok
}

// Present lists the collaborators currently provided, in check order
func (e *Environment) Present() []Collaborator {
	var result []Collaborator
	for _, c := range Collaborators() {
		if e.Has(c) {
			result = append(result, c)
		}
	}
	return result
}

// Handle returns the collaborator's handle as T. An absent collaborator
// yields a *MissingDependencyError; a handle of the wrong type is reported
// as a plain error.
func Handle[T any](env *Environment, c Collaborator) (T, error) {
	var zero T

	raw, ok := env.Lookup(c)
	if !ok {
		return zero, &MissingDependencyError{Collaborator: c}
	}

	h, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("collaborator %s has unexpected handle type %T", c, raw)
	}
	return h, nil
}
