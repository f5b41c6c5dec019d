package bootstrap

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingDependency is matched by every MissingDependencyError
	ErrMissingDependency = errors.New("missing required collaborator")

	// ErrPermission is matched by every PermissionError
	ErrPermission = errors.New("insufficient permission")

	// ErrConfigPathNotSet is returned by Init when no config path was stored
	ErrConfigPathNotSet = errors.New("config path not set")

	// ErrInvalidPlugin is returned for a nil plugin or one without a name
	ErrInvalidPlugin = errors.New("invalid plugin")
)

// MissingDependencyError reports a collaborator absent from the environment
type MissingDependencyError struct {
	Collaborator Collaborator
}

func (e *MissingDependencyError) Error() string {
	c := e.Collaborator
	return fmt.Sprintf("*%s* %s required. Please see %s", c.Symbol(), c.Kind(), c.Link())
}

func (e *MissingDependencyError) Is(target error) bool {
	return target == ErrMissingDependency
}

// PermissionError reports a path the process cannot write to
type PermissionError struct {
	Path string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("*%s* needs to be writable.", e.Path)
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrPermission
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}
