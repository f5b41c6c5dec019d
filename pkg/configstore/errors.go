package configstore

import "errors"

var (
	// ErrNotFound is returned when a key path has no value
	ErrNotFound = errors.New("config key not found")

	// ErrUnsupportedFormat is returned for config files with an unknown extension
	ErrUnsupportedFormat = errors.New("unsupported config format")
)
