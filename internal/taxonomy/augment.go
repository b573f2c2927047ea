package taxonomy

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/content"
	"github.com/alnah/go-md2site/internal/loader"
	"github.com/alnah/go-md2site/internal/site"
)

// Result summarizes one taxonomy derivation.
type Result struct {
	Taxonomy   string
	Facets     []string
	Warnings   []MissingFieldWarning
	Collection *content.Collection
}

// Augment derives the taxonomy's collection and folds it into the build:
// extract facets from the source collection, synthesize the virtual
// collection, register it, then run the re-entrant load. The registry must
// have been initialized by the primary load. On failure the site data is
// left as it was.
func Augment(ctx context.Context, b *site.Build, tax config.TaxonomyConfig) (*Result, error) {
	tax = tax.WithDefaults()
	log := b.Logger.With(zap.String("taxonomy", tax.Name))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source := b.Data.Collection(tax.Source)
	facets, warnings := ExtractFacets(source, tax.Field)
	for _, w := range warnings {
		log.Warn("missing facet field",
			zap.String("collection", w.Collection),
			zap.String("item", w.Item),
			zap.String("field", w.Field))
	}

	spec := Synthesize(facets, tax)
	if err := b.Registry.Register(tax.Name, spec.CollectionConfig()); err != nil {
		return nil, err
	}

	c, err := loader.Reload(ctx, b, tax.Name)
	if err != nil {
		return nil, fmt.Errorf("loading taxonomy %q: %w", tax.Name, err)
	}

	log.Debug("taxonomy derived",
		zap.String("source", tax.Source),
		zap.Int("facets", len(facets)),
		zap.Int("items", c.Len()),
		zap.Bool("staging", b.Config.Build.Staging))

	return &Result{Taxonomy: tax.Name, Facets: facets, Warnings: warnings, Collection: c}, nil
}

// AugmentAll runs Augment for every configured taxonomy, in config order.
func AugmentAll(ctx context.Context, b *site.Build) ([]*Result, error) {
	results := make([]*Result, 0, len(b.Config.Taxonomies))
	for _, tax := range b.Config.Taxonomies {
		r, err := Augment(ctx, b, tax)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}
