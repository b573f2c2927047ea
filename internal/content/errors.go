package content

import "errors"

// Sentinel errors for content operations.
var (
	ErrEmptyCollectionName = errors.New("collection name cannot be empty")
	ErrUnclosedFrontMatter = errors.New("front matter is not closed")
	ErrFrontMatterParse    = errors.New("failed to parse front matter")
	ErrInvalidSortKey      = errors.New("invalid sort key")
	ErrInvalidPathTemplate = errors.New("invalid path template")
	ErrMissingPathValue    = errors.New("path template value missing")
	ErrDuplicatePath       = errors.New("duplicate output path")
)
