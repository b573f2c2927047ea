// Package taxonomy derives collections from the values of a field across a
// source collection, such as one page per tag over the blog posts.
package taxonomy

import (
	"fmt"
	"iter"
	"slices"

	"github.com/alnah/go-md2site/internal/content"
)

// MissingFieldWarning reports an item that lacks the facet field. It
// contributes no facets; the build continues.
type MissingFieldWarning struct {
	Collection string
	Item       string // Source path
	Field      string
}

func (w MissingFieldWarning) String() string {
	return fmt.Sprintf("%s: item %s has no %q field", w.Collection, w.Item, w.Field)
}

// ExtractFacets returns the distinct values of field across the collection,
// in the order they are first seen walking the collection in its sort order.
// A scalar field counts as one value; list elements are stringified; empty
// values are skipped. Items without the field produce a warning.
func ExtractFacets(c *content.Collection, field string) ([]string, []MissingFieldWarning) {
	var (
		facets   []string
		warnings []MissingFieldWarning
		seen     = map[string]bool{}
	)
	for it := range c.All() {
		values, ok := it.Strings(field)
		if !ok {
			warnings = append(warnings, MissingFieldWarning{
				Collection: c.Name(),
				Item:       it.SourcePath(),
				Field:      field,
			})
			continue
		}
		for _, v := range values {
			if !seen[v] {
				seen[v] = true
				facets = append(facets, v)
			}
		}
	}
	return facets, warnings
}

// FacetCount is a facet value with the number of items carrying it.
type FacetCount struct {
	Value string
	Count int
}

// CountFacets returns every facet with its item count, in first-seen order.
func CountFacets(c *content.Collection, field string) []FacetCount {
	facets, _ := ExtractFacets(c, field)
	counts := make([]FacetCount, 0, len(facets))
	for _, f := range facets {
		n := 0
		for range PostsByTag(f, c, field) {
			n++
		}
		counts = append(counts, FacetCount{Value: f, Count: n})
	}
	return counts
}

// PostsByTag yields the items of c whose field contains tag, in collection
// order. The sequence is lazy and can be ranged over any number of times.
// Unknown tags and nil collections yield nothing.
func PostsByTag(tag string, c *content.Collection, field string) iter.Seq[*content.Item] {
	return func(yield func(*content.Item) bool) {
		for it := range c.All() {
			values, _ := it.Strings(field)
			if !slices.Contains(values, tag) {
				continue
			}
			if !yield(it) {
				return
			}
		}
	}
}
