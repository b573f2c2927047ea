package render

import (
	"fmt"
	"html/template"
	"sync"

	"github.com/alnah/go-md2site/internal/assets"
)

// layoutPrefix keeps layout template names apart from block names, so a
// "post" layout never collides with a "post" section.
const layoutPrefix = "layout:"

// layoutCache parses each layout chain once. Cached templates are never
// executed; pages execute clones.
type layoutCache struct {
	loader assets.AssetLoader
	funcs  template.FuncMap

	mu    sync.Mutex
	bases map[string]*template.Template
}

func newLayoutCache(loader assets.AssetLoader, funcs template.FuncMap) *layoutCache {
	return &layoutCache{loader: loader, funcs: funcs, bases: make(map[string]*template.Template)}
}

// base returns the parsed chain for layout, named after its root layout.
func (c *layoutCache) base(layout string) (*template.Template, error) {
	name := assets.NormalizeLayoutName(layout)

	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.bases[name]; ok {
		return t, nil
	}

	chain, err := assets.Chain(c.loader, name)
	if err != nil {
		return nil, err
	}

	// The root is parsed into t itself so clones keep its tree.
	t, err := template.New(layoutPrefix + chain[0].Name).Funcs(c.funcs).Parse(chain[0].Source)
	if err != nil {
		return nil, fmt.Errorf("%w: layout %q: %v", ErrTemplate, chain[0].Name, err)
	}
	for _, l := range chain[1:] {
		if _, err := t.New(layoutPrefix + l.Name).Parse(l.Source); err != nil {
			return nil, fmt.Errorf("%w: layout %q: %v", ErrTemplate, l.Name, err)
		}
	}
	c.bases[name] = t
	return t, nil
}

// forMarkdown returns a template executing layout with the page body bound
// to section.
func (c *layoutCache) forMarkdown(layout, section string) (*template.Template, error) {
	t, err := c.clone(layout)
	if err != nil {
		return nil, err
	}
	if _, err := t.New(section).Parse("{{.Content}}"); err != nil {
		return nil, fmt.Errorf("%w: section %q: %v", ErrTemplate, section, err)
	}
	return t, nil
}

// forTemplatePage returns a template executing layout with the page's own
// definitions parsed over it. An empty layout executes the page alone.
func (c *layoutCache) forTemplatePage(layout, name, body string) (*template.Template, error) {
	if layout == "" {
		t, err := template.New(name).Funcs(c.funcs).Parse(body)
		if err != nil {
			return nil, fmt.Errorf("%w: page %q: %v", ErrTemplate, name, err)
		}
		return t, nil
	}

	t, err := c.clone(layout)
	if err != nil {
		return nil, err
	}
	if _, err := t.New(name).Parse(body); err != nil {
		return nil, fmt.Errorf("%w: page %q: %v", ErrTemplate, name, err)
	}
	return t, nil
}

func (c *layoutCache) clone(layout string) (*template.Template, error) {
	base, err := c.base(layout)
	if err != nil {
		return nil, err
	}
	t, err := base.Clone()
	if err != nil {
		return nil, fmt.Errorf("%w: layout %q: %v", ErrTemplate, layout, err)
	}
	return t, nil
}
