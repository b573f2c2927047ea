package taxonomy

import (
	"fmt"
	"maps"
	"strings"

	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/content"
)

// VirtualCollectionSpec describes a derived collection: one record per facet
// value plus the layout binding shared by all of them.
type VirtualCollectionSpec struct {
	Name         string
	Key          string // Field holding the facet value on each record
	Extends      string
	Section      string
	PathTemplate string
	Records      []map[string]any
}

// Synthesize builds the spec of the collection derived by tax from facets.
// Each record carries the value under tax.Key, a title defaulting to the
// value, and a slug that is unique within the collection. The slug is the
// record's filename, and it replaces {<key>} in the path template, so values
// that slugify alike ("Go", "go") still get a page each. Inputs are not
// modified.
func Synthesize(facets []string, tax config.TaxonomyConfig) *VirtualCollectionSpec {
	tax = tax.WithDefaults()
	pathTmpl := strings.ReplaceAll(tax.Path, "{"+tax.Key+"}", "{"+content.KeySlug+"}")
	spec := &VirtualCollectionSpec{
		Name:         tax.Name,
		Key:          tax.Key,
		Extends:      tax.Extends,
		Section:      tax.Section,
		PathTemplate: pathTmpl,
		Records:      make([]map[string]any, 0, len(facets)),
	}

	taken := make(map[string]bool, len(facets))
	for _, value := range facets {
		slug := uniqueSlug(value, taken)
		// Reserved fields are written last; config validation rejects a key
		// that would collide with them.
		rec := map[string]any{tax.Key: value}
		rec[content.KeyFilename] = slug
		rec[content.KeySlug] = slug
		rec[content.KeyTitle] = value
		rec[content.KeyPath] = pathTmpl
		spec.Records = append(spec.Records, rec)
	}
	return spec
}

// uniqueSlug returns the slug of value, suffixed with the value's token when
// an earlier facet already took it. The result is marked as taken.
func uniqueSlug(value string, taken map[string]bool) string {
	base := content.Slugify(value)
	slug := base
	if taken[slug] {
		slug = base + "-" + content.SlugToken(value)
	}
	for n := 2; taken[slug]; n++ {
		slug = fmt.Sprintf("%s-%s-%d", base, content.SlugToken(value), n)
	}
	taken[slug] = true
	return slug
}

// CollectionConfig converts the spec into the config handed to the
// registry. Records are copied.
func (v *VirtualCollectionSpec) CollectionConfig() config.CollectionConfig {
	items := make([]map[string]any, len(v.Records))
	for i, r := range v.Records {
		items[i] = maps.Clone(r)
	}
	return config.CollectionConfig{
		Path:    v.PathTemplate,
		Extends: v.Extends,
		Section: v.Section,
		Items:   items,
	}
}
