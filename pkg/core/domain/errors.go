package domain

import "errors"

var (
	// ErrNotFound means the identifier is not part of the configured directory.
	ErrNotFound = errors.New("not found")
	// ErrNoDestination means the entry exists but has no usable URL for the
	// requested variant.
	ErrNoDestination = errors.New("no destination url")
)

// IsNotFound reports whether err is an unknown-identifier condition.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsNoDestination reports whether err indicates a missing destination URL.
func IsNoDestination(err error) bool { return errors.Is(err, ErrNoDestination) }
