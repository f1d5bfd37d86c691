package cache

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	// ErrEnvironment is returned when no cache directory can be resolved.
	ErrEnvironment = errors.New("cannot determine cache directory")

	// ErrFilesystem is returned when the cache directory or file cannot be
	// created, opened, inspected, read or written.
	ErrFilesystem = errors.New("filesystem error")

	// ErrNetwork is returned when the source list cannot be downloaded.
	ErrNetwork = errors.New("network error")

	// ErrFormat is returned when the source list cannot be parsed.
	ErrFormat = errors.New("malformed emoji list")

	// ErrCorrupted is returned when the cache length is zero or not a
	// multiple of the record size.
	ErrCorrupted = errors.New("cache file appears to be corrupted")

	// ErrDecode is returned when a record is not a Unicode scalar value.
	ErrDecode = errors.New("invalid code point in cache")
)

// Error describes a failed cache operation.
type Error struct {
	Kind error  // One of the Err* kinds above
	Op   string // Operation being performed
	Path string // Cache file or directory, if any
	Err  error  // Underlying cause, may be nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", msg, e.Kind, e.Err)
	case e.Kind != nil:
		return fmt.Sprintf("%s: %s", msg, e.Kind)
	default:
		return msg
	}
}

// Unwrap returns both the kind and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func newError(kind error, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}
