package render

import (
	"html/template"
	"strings"
	"time"

	"github.com/alnah/go-md2site/internal/content"
)

// PageData is the value layouts execute against.
type PageData struct {
	Site    *SiteView
	Page    *PageView
	Content template.HTML // Rendered body of Page
}

// SiteView exposes site-wide values and every collection to layouts.
type SiteView struct {
	Title      string
	BaseURL    string
	Production bool

	collections map[string][]*PageView
	byItem      map[*content.Item]*PageView
	names       []string
}

// Collection returns the pages of a collection in collection order, or nil.
func (s *SiteView) Collection(name string) []*PageView {
	return s.collections[name]
}

// Collections lists collection names in lexical order.
func (s *SiteView) Collections() []string {
	return s.names
}

// URL prefixes a root-relative path with the base URL. Absolute URLs and
// fragments are returned unchanged.
func (s *SiteView) URL(p string) string {
	if p == "" || strings.Contains(p, "://") || strings.HasPrefix(p, "#") || strings.HasPrefix(p, "//") {
		return p
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimSuffix(s.BaseURL, "/") + p
}

func (s *SiteView) view(it *content.Item) *PageView {
	if it == nil {
		return nil
	}
	return s.byItem[it]
}

// PageView wraps an item for templates.
type PageView struct {
	site *SiteView
	item *content.Item
	html template.HTML
}

// Item returns the underlying content item.
func (p *PageView) Item() *content.Item { return p.item }

// Title returns the page title, falling back to its filename.
func (p *PageView) Title() string { return p.item.Title() }

// Path returns the root-relative URL path.
func (p *PageView) Path() string { return p.item.Path() }

// URL returns the path prefixed with the site base URL.
func (p *PageView) URL() string { return p.site.URL(p.item.Path()) }

// Collection returns the owning collection name; empty for standalone pages.
func (p *PageView) Collection() string { return p.item.Collection() }

// SourcePath returns the page's identity.
func (p *PageView) SourcePath() string { return p.item.SourcePath() }

// Date returns the page date, or the zero time.
func (p *PageView) Date() time.Time {
	t, _ := p.item.Date()
	return t
}

// Has reports whether the front matter sets key.
func (p *PageView) Has(key string) bool { return p.item.Has(key) }

// Get returns a raw front-matter value.
func (p *PageView) Get(key string) any { return p.item.Value(key) }

// String returns a scalar front-matter value as a string.
func (p *PageView) String(key string) string { return p.item.String(key) }

// Strings returns a list-valued front-matter field.
func (p *PageView) Strings(key string) []string {
	v, _ := p.item.Strings(key)
	return v
}

// Content returns the rendered body.
func (p *PageView) Content() template.HTML { return p.html }

// Next returns the following page in collection order, or nil.
func (p *PageView) Next() *PageView { return p.site.view(p.item.Next()) }

// Previous returns the preceding page in collection order, or nil.
func (p *PageView) Previous() *PageView { return p.site.view(p.item.Previous()) }

// Chain returns this page followed by the consecutive next pages that share
// its value for key. A presentation's slides are chained this way.
func (p *PageView) Chain(key string) []*PageView {
	want := p.String(key)
	chain := []*PageView{p}
	if want == "" {
		return chain
	}
	for next := p.Next(); next != nil && next.String(key) == want; next = next.Next() {
		chain = append(chain, next)
	}
	return chain
}
