package site

import (
	"maps"
	"slices"

	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/content"
)

// Entry is one registered collection.
type Entry struct {
	Name   string
	Config config.CollectionConfig
	Kind   content.Kind
}

// Registry holds the collection configs a build loads. The primary load
// initializes it from the site config; derived collections are registered
// afterwards.
type Registry struct {
	ready   bool
	entries map[string]Entry
}

// NewRegistry returns an empty registry that is not yet initialized.
func NewRegistry() *Registry {
	return &Registry{entries: map[string]Entry{}}
}

// Initialize replaces the registry contents with the authored collections
// and marks the registry ready.
func (r *Registry) Initialize(collections map[string]config.CollectionConfig) {
	r.entries = make(map[string]Entry, len(collections))
	for name, cc := range collections {
		r.entries[name] = Entry{Name: name, Config: cloneConfig(cc), Kind: content.KindAuthored}
	}
	r.ready = true
}

// Ready reports whether Initialize has run.
func (r *Registry) Ready() bool { return r.ready }

// Register adds a derived collection, overwriting any entry with the same
// name. It fails with a *ConfigurationError before Initialize or when the
// config cannot produce a collection.
func (r *Registry) Register(name string, cc config.CollectionConfig) error {
	if !r.ready {
		return &ConfigurationError{Collection: name, Err: ErrRegistryNotReady}
	}
	if name == "" {
		return &ConfigurationError{Err: ErrEmptyName}
	}
	if _, err := cc.ContentSpec(name, content.KindSynthesized); err != nil {
		return &ConfigurationError{Collection: name, Err: err}
	}
	if _, err := cc.InlineRecords(name); err != nil {
		return &ConfigurationError{Collection: name, Err: err}
	}
	r.entries[name] = Entry{Name: name, Config: cloneConfig(cc), Kind: content.KindSynthesized}
	return nil
}

// Get returns the entry registered under name.
func (r *Registry) Get(name string) (Entry, bool) {
	e, ok := r.entries[name]
	if !ok {
		return Entry{}, false
	}
	e.Config = cloneConfig(e.Config)
	return e, true
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.entries))
}

// Snapshot returns copies of all entries, sorted by name.
func (r *Registry) Snapshot() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, name := range r.Names() {
		e, _ := r.Get(name)
		out = append(out, e)
	}
	return out
}

func cloneConfig(cc config.CollectionConfig) config.CollectionConfig {
	cc.Sort = slices.Clone(cc.Sort)
	if cc.Items != nil {
		items := make([]map[string]any, len(cc.Items))
		for i, it := range cc.Items {
			items[i] = maps.Clone(it)
		}
		cc.Items = items
	}
	return cc
}
