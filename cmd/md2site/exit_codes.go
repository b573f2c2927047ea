package main

import (
	"errors"
	"os"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/content"
	"github.com/alnah/go-md2site/internal/loader"
)

// Exit codes for md2site CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful build
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or content
	ExitIO      = 3 // File not found, permission denied, staging failures
	ExitRender  = 4 // Layout and template errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Render errors (exit 4)
	var pageErr *md2site.PageError
	if errors.As(err, &pageErr) ||
		errors.Is(err, md2site.ErrTemplate) ||
		errors.Is(err, md2site.ErrExecute) ||
		errors.Is(err, md2site.ErrLayoutNotFound) ||
		errors.Is(err, md2site.ErrLayoutCycle) ||
		errors.Is(err, md2site.ErrDuplicateOutput) {
		return ExitRender
	}

	// I/O errors (exit 3)
	var matErr *md2site.MaterializationError
	if errors.As(err, &matErr) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, loader.ErrReadRecord) {
		return ExitIO
	}

	// Usage/config/content errors (exit 2)
	var cfgErr *md2site.ConfigurationError
	if errors.As(err, &cfgErr) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNoTaxonomy) ||
		errors.Is(err, md2site.ErrNilConfig) ||
		errors.Is(err, md2site.ErrUnknownTaxonomy) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidBuild) ||
		errors.Is(err, config.ErrInvalidCollection) ||
		errors.Is(err, config.ErrInvalidTaxonomy) ||
		errors.Is(err, config.ErrInvalidInlineItem) ||
		errors.Is(err, content.ErrUnclosedFrontMatter) ||
		errors.Is(err, content.ErrFrontMatterParse) ||
		errors.Is(err, content.ErrInvalidSortKey) ||
		errors.Is(err, content.ErrInvalidPathTemplate) ||
		errors.Is(err, content.ErrMissingPathValue) ||
		errors.Is(err, content.ErrDuplicatePath) ||
		errors.Is(err, loader.ErrDuplicateRecord) {
		return ExitUsage
	}

	return ExitGeneral
}
