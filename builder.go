package md2site

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/loader"
	"github.com/alnah/go-md2site/internal/render"
	"github.com/alnah/go-md2site/internal/site"
	"github.com/alnah/go-md2site/internal/taxonomy"
)

// Config holds all configuration for a site build.
type Config = config.Config

// MissingFieldWarning reports a source item without the taxonomy field.
type MissingFieldWarning = taxonomy.MissingFieldWarning

// FacetCount is a taxonomy value with the number of items carrying it.
type FacetCount = taxonomy.FacetCount

// LoadConfig loads a config file by name ("site" finds site.yaml in the
// current directory or the user config directory) or by path.
func LoadConfig(nameOrPath string) (*Config, error) {
	return config.LoadConfig(nameOrPath)
}

// ParseConfig decodes and validates a config document.
func ParseConfig(data []byte) (*Config, error) {
	return config.Parse(data)
}

// DefaultConfig returns a config with default directories and no
// collections.
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// Builder builds one site. Each Build call is independent: the registry
// and site data are created fresh, so a Builder can rebuild after the
// sources change.
type Builder struct {
	cfg       *config.Config
	log       *zap.Logger
	layoutDir string
}

// NewBuilder creates a Builder for cfg. Options override build settings on
// a copy of cfg; the result is validated.
func NewBuilder(cfg *Config, opts ...Option) (*Builder, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	c := *cfg
	b := &Builder{cfg: &c, log: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Config returns the effective configuration.
func (b *Builder) Config() *Config {
	return b.cfg
}

// CollectionSummary describes one collection of a finished build.
type CollectionSummary struct {
	Name  string
	Kind  string // "authored" or "synthesized"
	Items int
}

// TaxonomySummary lists the facet values derived by one taxonomy, in
// first-seen order.
type TaxonomySummary struct {
	Name   string
	Source string
	Facets []string
}

// BuildResult reports what a build produced.
type BuildResult struct {
	Pages       []string // URL paths, sorted
	Static      int      // Files copied verbatim
	Skipped     int      // Collection items without a layout
	Collections []CollectionSummary
	Taxonomies  []TaxonomySummary
	Warnings    []MissingFieldWarning
	Duration    time.Duration
}

// Build loads every collection, derives the taxonomies, renders the site
// and replaces the destination directory. On error the destination is left
// as it was.
func (b *Builder) Build(ctx context.Context) (*BuildResult, error) {
	start := time.Now()

	sb, derived, err := b.derive(ctx)
	if err != nil {
		return nil, err
	}

	tree, err := loader.ScanSource(ctx, b.cfg.Build.Source)
	if err != nil {
		return nil, err
	}

	var opts []render.Option
	if b.layoutDir != "" {
		resolver, err := assets.NewAssetResolver(b.layoutDir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, render.WithLayouts(resolver))
	}
	r, err := render.New(sb, opts...)
	if err != nil {
		return nil, err
	}
	out, err := r.Render(ctx, tree)
	if err != nil {
		return nil, err
	}

	b.cleanupStaging()

	result := &BuildResult{
		Pages:       out.Pages,
		Static:      out.Static,
		Skipped:     out.Skipped,
		Collections: summarize(sb.Data),
		Duration:    time.Since(start),
	}
	for _, d := range derived {
		result.Taxonomies = append(result.Taxonomies, TaxonomySummary{
			Name:   d.Taxonomy,
			Source: taxonomySource(b.cfg, d.Taxonomy),
			Facets: d.Facets,
		})
		result.Warnings = append(result.Warnings, d.Warnings...)
	}

	b.log.Info("site built",
		zap.String("destination", b.cfg.Build.Destination),
		zap.Int("pages", len(result.Pages)),
		zap.Int("static", result.Static),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// Tags loads the authored collections and counts the values of the named
// taxonomy in its source collection, in first-seen order. Nothing is
// rendered or staged.
func (b *Builder) Tags(ctx context.Context, name string) ([]FacetCount, error) {
	tax, ok := b.cfg.Taxonomy(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTaxonomy, name)
	}

	cfg := *b.cfg
	cfg.Build.Staging = false
	sb := site.NewBuild(&cfg, b.log)
	if err := loader.LoadAuthored(ctx, sb); err != nil {
		return nil, err
	}
	return taxonomy.CountFacets(sb.Data.Collection(tax.Source), tax.Field), nil
}

// TaxonomyNames returns the configured taxonomies in config order.
func (b *Builder) TaxonomyNames() []string {
	names := make([]string, 0, len(b.cfg.Taxonomies))
	for _, t := range b.cfg.Taxonomies {
		names = append(names, t.Name)
	}
	return names
}

// derive runs the primary load and every taxonomy, then freezes the data.
func (b *Builder) derive(ctx context.Context) (*site.Build, []*taxonomy.Result, error) {
	sb := site.NewBuild(b.cfg, b.log)
	if err := loader.LoadAuthored(ctx, sb); err != nil {
		return nil, nil, err
	}
	derived, err := taxonomy.AugmentAll(ctx, sb)
	if err != nil {
		return nil, nil, err
	}
	sb.Data.Freeze()
	return sb, derived, nil
}

func (b *Builder) cleanupStaging() {
	if !b.cfg.Build.Staging || b.cfg.Build.KeepStaging {
		return
	}
	dir := b.cfg.Build.StagingPath()
	if err := loader.Cleanup(dir); err != nil {
		b.log.Warn("removing staging directory", zap.String("dir", dir), zap.Error(err))
	}
}

func summarize(d *site.Data) []CollectionSummary {
	names := d.Names()
	out := make([]CollectionSummary, 0, len(names))
	for _, name := range names {
		c := d.Collection(name)
		out = append(out, CollectionSummary{Name: name, Kind: c.Kind().String(), Items: c.Len()})
	}
	return out
}

func taxonomySource(cfg *config.Config, name string) string {
	if t, ok := cfg.Taxonomy(name); ok {
		return t.Source
	}
	return ""
}
