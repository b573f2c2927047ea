package content

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Kind distinguishes authored collections from derived ones.
type Kind int

const (
	KindAuthored Kind = iota
	KindSynthesized
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindAuthored:
		return "authored"
	case KindSynthesized:
		return "synthesized"
	default:
		return "unknown"
	}
}

// DefaultPathTemplate is used when a collection configures no path.
const DefaultPathTemplate = "{collection}/{filename}"

// Spec describes how a collection turns records into items.
type Spec struct {
	Name         string
	PathTemplate string    // Empty = DefaultPathTemplate
	Sort         []SortKey // Empty = source path order
	Extends      string    // Layout for items without their own
	Section      string    // Empty = DefaultSection
	Kind         Kind
}

// Collection is a named, ordered, immutable group of items.
type Collection struct {
	spec   Spec
	items  []*Item
	byPath map[string]*Item
}

// NewCollection builds a collection from records. Every record goes through
// the same steps whatever its origin: item construction, sorting, path
// resolution, and neighbour linking. Records are not retained.
func NewCollection(spec Spec, records []Record) (*Collection, error) {
	if spec.Name == "" {
		return nil, ErrEmptyCollectionName
	}
	if spec.PathTemplate == "" {
		spec.PathTemplate = DefaultPathTemplate
	}
	if spec.Section == "" {
		spec.Section = DefaultSection
	}
	spec.Sort = slices.Clone(spec.Sort)

	collTmpl, err := ParsePathTemplate(spec.PathTemplate)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", spec.Name, err)
	}

	items := make([]*Item, 0, len(records))
	for _, rec := range records {
		items = append(items, newItem(spec, rec))
	}
	sortItems(items, spec.Sort)

	byPath := make(map[string]*Item, len(items))
	for _, it := range items {
		tmpl := collTmpl
		if own := it.String(KeyPath); own != "" && own != spec.PathTemplate {
			if tmpl, err = ParsePathTemplate(own); err != nil {
				return nil, fmt.Errorf("collection %q, item %s: %w", spec.Name, it.sourcePath, err)
			}
		}
		if it.path, err = tmpl.Resolve(it); err != nil {
			return nil, fmt.Errorf("collection %q: %w", spec.Name, err)
		}
		if other, dup := byPath[it.path]; dup {
			return nil, fmt.Errorf("%w: %s (%s and %s)", ErrDuplicatePath, it.path, other.sourcePath, it.sourcePath)
		}
		byPath[it.path] = it
	}

	for i, it := range items {
		if i > 0 {
			it.previous = items[i-1]
		}
		if i < len(items)-1 {
			it.next = items[i+1]
		}
	}

	return &Collection{spec: spec, items: items, byPath: byPath}, nil
}

func newItem(spec Spec, rec Record) *Item {
	meta := maps.Clone(rec.Meta)
	if meta == nil {
		meta = map[string]any{}
	}
	it := &Item{
		sourcePath: rec.SourcePath,
		filename:   rec.Filename,
		collection: spec.Name,
		extends:    spec.Extends,
		section:    spec.Section,
		body:       rec.Body,
		meta:       meta,
	}
	if name := it.String(KeyFilename); name != "" {
		it.filename = name
	}
	if ext := it.String(KeyExtends); ext != "" {
		it.extends = ext
	}
	if sec := it.String(KeySection); sec != "" {
		it.section = sec
	}
	return it
}

// NewPage builds a standalone item that belongs to no collection, served at
// urlPath. Layout and section come from the record's metadata.
func NewPage(rec Record, urlPath string) *Item {
	it := newItem(Spec{Section: DefaultSection}, rec)
	it.path = urlPath
	return it
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.spec.Name }

// Kind reports whether the collection is authored or synthesized.
func (c *Collection) Kind() Kind { return c.spec.Kind }

// Spec returns the collection's build spec.
func (c *Collection) Spec() Spec {
	s := c.spec
	s.Sort = slices.Clone(s.Sort)
	return s
}

// Len returns the number of items.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Items returns the items in collection order. The slice is a copy.
func (c *Collection) Items() []*Item {
	if c == nil {
		return nil
	}
	return slices.Clone(c.items)
}

// All iterates over the items in collection order. A nil collection yields
// nothing.
func (c *Collection) All() iter.Seq[*Item] {
	return func(yield func(*Item) bool) {
		if c == nil {
			return
		}
		for _, it := range c.items {
			if !yield(it) {
				return
			}
		}
	}
}

// ByPath looks an item up by its output path.
func (c *Collection) ByPath(path string) (*Item, bool) {
	it, ok := c.byPath[path]
	return it, ok
}
