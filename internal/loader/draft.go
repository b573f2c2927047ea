// Package loader reads collections into site data. The same pipeline serves
// the primary load of authored content and the re-entrant load of collections
// registered afterwards, either from a staging tree or from memory.
package loader

import (
	"slices"

	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/content"
	"github.com/alnah/go-md2site/internal/site"
)

// CollectionSpec is the load-time view of one registered collection.
type CollectionSpec struct {
	Name   string
	Config config.CollectionConfig
	Kind   content.Kind
}

// ContentSpec returns the spec used to build the collection.
func (cs CollectionSpec) ContentSpec() (content.Spec, error) {
	return cs.Config.ContentSpec(cs.Name, cs.Kind)
}

// InlineRecords returns the records of the collection's inline items.
func (cs CollectionSpec) InlineRecords() ([]content.Record, error) {
	return cs.Config.InlineRecords(cs.Name)
}

// Staged reports whether the collection has records to materialize:
// synthesized collections always do, even empty, authored ones only when
// they carry inline items.
func (cs CollectionSpec) Staged() bool {
	return cs.Kind == content.KindSynthesized || len(cs.Config.Items) > 0
}

// SiteDataDraft is a snapshot of the registry taken at the start of a load.
// IncludeInline controls whether inline items are read from memory; it is
// cleared once they have been materialized to disk. StagingRoot is where
// they were materialized; their records are read back from there.
type SiteDataDraft struct {
	Collections   []CollectionSpec
	IncludeInline bool
	StagingRoot   string
}

// LoadSiteData snapshots the registry. It fails with a
// *site.ConfigurationError when the registry is not initialized.
func LoadSiteData(reg *site.Registry) (*SiteDataDraft, error) {
	if !reg.Ready() {
		return nil, &site.ConfigurationError{Err: site.ErrRegistryNotReady}
	}
	entries := reg.Snapshot()
	draft := &SiteDataDraft{
		Collections:   make([]CollectionSpec, 0, len(entries)),
		IncludeInline: true,
	}
	for _, e := range entries {
		draft.Collections = append(draft.Collections, CollectionSpec(e))
	}
	return draft, nil
}

// Names returns the collection names in the draft.
func (d *SiteDataDraft) Names() []string {
	names := make([]string, 0, len(d.Collections))
	for _, cs := range d.Collections {
		names = append(names, cs.Name)
	}
	return names
}

// Only returns a draft restricted to the named collections.
func (d *SiteDataDraft) Only(names ...string) *SiteDataDraft {
	out := &SiteDataDraft{IncludeInline: d.IncludeInline, StagingRoot: d.StagingRoot}
	for _, cs := range d.Collections {
		if slices.Contains(names, cs.Name) {
			out.Collections = append(out.Collections, cs)
		}
	}
	return out
}

// Kind returns a draft restricted to collections of kind k.
func (d *SiteDataDraft) Kind(k content.Kind) *SiteDataDraft {
	out := &SiteDataDraft{IncludeInline: d.IncludeInline, StagingRoot: d.StagingRoot}
	for _, cs := range d.Collections {
		if cs.Kind == k {
			out.Collections = append(out.Collections, cs)
		}
	}
	return out
}

// WithoutInline returns a copy that ignores inline items, for loading a
// tree they were materialized into.
func (d *SiteDataDraft) WithoutInline() *SiteDataDraft {
	return &SiteDataDraft{Collections: slices.Clone(d.Collections)}
}

// Staged returns a copy that reads inline items back from stagingRoot, where
// Materialize wrote them.
func (d *SiteDataDraft) Staged(stagingRoot string) *SiteDataDraft {
	return &SiteDataDraft{Collections: slices.Clone(d.Collections), StagingRoot: stagingRoot}
}
