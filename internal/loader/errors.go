package loader

import (
	"errors"
	"fmt"
)

// Sentinel errors for loader operations.
var (
	ErrDuplicateRecord = errors.New("duplicate record")
	ErrReadRecord      = errors.New("failed to read record")
	ErrNotRegistered   = errors.New("collection not registered")
)

// MaterializationError reports a failure to write a staged collection or to
// read it back. It is fatal for the build.
type MaterializationError struct {
	Collection string
	Path       string
	Err        error
}

func (e *MaterializationError) Error() string {
	return fmt.Sprintf("materializing collection %q at %s: %v", e.Collection, e.Path, e.Err)
}

func (e *MaterializationError) Unwrap() error { return e.Err }
