package render

import (
	"fmt"
	"html/template"
	"time"

	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/content"
	"github.com/alnah/go-md2site/internal/dateutil"
	"github.com/alnah/go-md2site/internal/pipeline"
	"github.com/alnah/go-md2site/internal/site"
	"github.com/alnah/go-md2site/internal/taxonomy"
)

// Taxonomy lookup used when a page is not itself a taxonomy item.
const (
	fallbackTagSource = "posts"
	fallbackTagField  = "tags"
)

// helpers holds what the template functions need from the build.
type helpers struct {
	cfg  *config.Config
	data *site.Data
	site *SiteView
}

func (h *helpers) funcMap() template.FuncMap {
	return template.FuncMap{
		"postsByTag": h.postsByTag,
		"tagURL":     h.tagURL,
		"date":       formatDate,
		"excerpt":    excerpt,
		"where":      where,
		"url":        h.site.URL,
		"slugify":    content.Slugify,
	}
}

// postsByTag lists the items tagged with the page's facet value. The page's
// own collection names the taxonomy; a source collection may be passed to
// override the one the taxonomy was derived from.
func (h *helpers) postsByTag(page *PageView, source ...string) []*PageView {
	if page == nil {
		return nil
	}
	src, field, key := fallbackTagSource, fallbackTagField, config.DefaultTaxonomyKey
	if tax, ok := h.cfg.Taxonomy(page.Collection()); ok {
		src, field, key = tax.Source, tax.Field, tax.Key
	}
	if len(source) > 0 && source[0] != "" {
		src = source[0]
	}

	value := page.String(key)
	if value == "" {
		return nil
	}
	var out []*PageView
	for it := range taxonomy.PostsByTag(value, h.data.Collection(src), field) {
		if v := h.site.view(it); v != nil {
			out = append(out, v)
		}
	}
	return out
}

// tagURL returns the URL of the taxonomy page for value, or "" when the
// taxonomy or the value is unknown.
func (h *helpers) tagURL(taxonomyName, value string) string {
	tax, ok := h.cfg.Taxonomy(taxonomyName)
	if !ok {
		return ""
	}
	for _, p := range h.site.Collection(tax.Name) {
		if p.String(tax.Key) == value {
			return p.URL()
		}
	}
	return ""
}

// formatDate renders a date with a token format or preset ("long", "iso").
// Strings and timestamps are parsed first; an absent or zero date renders
// as "".
func formatDate(format string, v any) (string, error) {
	var t time.Time
	switch d := v.(type) {
	case time.Time:
		t = d
	case *PageView:
		if d == nil {
			return "", nil
		}
		t = d.Date()
	default:
		parsed, ok := dateutil.Parse(v)
		if !ok {
			return "", nil
		}
		t = parsed
	}
	if t.IsZero() {
		return "", nil
	}
	return dateutil.Format(t, format)
}

// excerpt returns the first words of a page's rendered content or of an HTML
// string. The default length is pipeline.DefaultExcerptWords.
func excerpt(v any, words ...int) (string, error) {
	n := pipeline.DefaultExcerptWords
	if len(words) > 0 {
		n = words[0]
	}
	switch s := v.(type) {
	case *PageView:
		if s == nil {
			return "", nil
		}
		return pipeline.Excerpt(string(s.Content()), n), nil
	case template.HTML:
		return pipeline.Excerpt(string(s), n), nil
	case string:
		return pipeline.Excerpt(s, n), nil
	default:
		return "", fmt.Errorf("excerpt: unsupported value %T", v)
	}
}

// where keeps the pages that set key to a non-empty value, or to value when
// one is given.
func where(pages []*PageView, key string, value ...any) []*PageView {
	var out []*PageView
	for _, p := range pages {
		got := p.String(key)
		if got == "" && len(p.Strings(key)) == 0 {
			continue
		}
		if len(value) > 0 && got != fmt.Sprint(value[0]) {
			continue
		}
		out = append(out, p)
	}
	return out
}
