package site

import (
	"fmt"
	"maps"
	"slices"

	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/content"
)

// CollectionData is a set of freshly loaded collections keyed by name,
// ready to be folded into Data.
type CollectionData map[string]*content.Collection

// Names returns the collection names, sorted.
func (cd CollectionData) Names() []string {
	return slices.Sorted(maps.Keys(cd))
}

// Data is the root graph of a build: every loaded collection by name.
// It is written during the sequential load phase and frozen before
// rendering; readers after Freeze need no locking.
type Data struct {
	collections map[string]*content.Collection
	frozen      bool
}

// NewData returns empty site data.
func NewData() *Data {
	return &Data{collections: map[string]*content.Collection{}}
}

// AddCollectionData folds loaded collections into the graph. Named
// collections are added or replaced; others are untouched. Nothing is
// folded when any entry is invalid.
func (d *Data) AddCollectionData(cd CollectionData) error {
	if d.frozen {
		return ErrFrozen
	}
	for _, name := range cd.Names() {
		c := cd[name]
		if c == nil {
			return fmt.Errorf("%w: %q", ErrNilCollection, name)
		}
		if c.Name() != name {
			return fmt.Errorf("%w: %q holds %q", ErrCollectionMismatch, name, c.Name())
		}
	}
	maps.Copy(d.collections, cd)
	return nil
}

// AddSyntheticCollection builds a collection from the inline items of cc
// and folds it, without touching the filesystem. Items go through the same
// record-to-item path as loaded files.
func (d *Data) AddSyntheticCollection(name string, cc config.CollectionConfig) (*content.Collection, error) {
	if d.frozen {
		return nil, ErrFrozen
	}
	spec, err := cc.ContentSpec(name, content.KindSynthesized)
	if err != nil {
		return nil, &ConfigurationError{Collection: name, Err: err}
	}
	records, err := cc.InlineRecords(name)
	if err != nil {
		return nil, &ConfigurationError{Collection: name, Err: err}
	}
	c, err := content.NewCollection(spec, records)
	if err != nil {
		return nil, err
	}
	if err := d.AddCollectionData(CollectionData{name: c}); err != nil {
		return nil, err
	}
	return c, nil
}

// Collection returns the named collection. Unknown names return nil, which
// behaves as an empty collection.
func (d *Data) Collection(name string) *content.Collection {
	return d.collections[name]
}

// Lookup returns the named collection and whether it exists.
func (d *Data) Lookup(name string) (*content.Collection, bool) {
	c, ok := d.collections[name]
	return c, ok
}

// Names returns the collection names, sorted.
func (d *Data) Names() []string {
	return slices.Sorted(maps.Keys(d.collections))
}

// Freeze makes the graph read-only.
func (d *Data) Freeze() { d.frozen = true }

// Frozen reports whether Freeze has been called.
func (d *Data) Frozen() bool { return d.frozen }
