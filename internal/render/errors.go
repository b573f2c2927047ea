package render

import (
	"errors"
	"fmt"
)

// Sentinel errors for rendering.
var (
	// ErrTemplate indicates a layout or template page failed to parse.
	ErrTemplate = errors.New("template error")

	// ErrExecute indicates a template failed while executing.
	ErrExecute = errors.New("template execution failed")

	// ErrDuplicateOutput indicates two pages resolve to the same URL.
	ErrDuplicateOutput = errors.New("duplicate output path")

	// ErrUnsafeDestination indicates the destination cannot be replaced safely.
	ErrUnsafeDestination = errors.New("unsafe destination")
)

// PageError reports which page failed.
type PageError struct {
	Source string // Source path of the page or item
	URL    string
	Err    error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("rendering %s (%s): %v", e.Source, e.URL, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }
