package md2site

import (
	"errors"

	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/loader"
	"github.com/alnah/go-md2site/internal/render"
	"github.com/alnah/go-md2site/internal/site"
)

// Sentinel errors for library operations.
var (
	ErrNilConfig       = errors.New("config cannot be nil")
	ErrUnknownTaxonomy = errors.New("unknown taxonomy")

	// Configuration errors.
	ErrConfigNotFound    = config.ErrConfigNotFound
	ErrConfigParse       = config.ErrConfigParse
	ErrInvalidCollection = config.ErrInvalidCollection
	ErrInvalidTaxonomy   = config.ErrInvalidTaxonomy

	// Build errors.
	ErrRegistryNotReady = site.ErrRegistryNotReady
	ErrFrozen           = site.ErrFrozen
	ErrDuplicateRecord  = loader.ErrDuplicateRecord

	// Render errors.
	ErrLayoutNotFound  = assets.ErrLayoutNotFound
	ErrLayoutCycle     = assets.ErrLayoutCycle
	ErrTemplate        = render.ErrTemplate
	ErrExecute         = render.ErrExecute
	ErrDuplicateOutput = render.ErrDuplicateOutput
)

// ConfigurationError reports a collection that is misconfigured or used
// before the registry was initialized.
type ConfigurationError = site.ConfigurationError

// MaterializationError reports a staging write failure.
type MaterializationError = loader.MaterializationError

// PageError reports a page that failed to render.
type PageError = render.PageError
