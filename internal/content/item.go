package content

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/alnah/go-md2site/internal/dateutil"
)

// Reserved metadata keys with meaning to the pipeline.
const (
	KeyTitle    = "title"
	KeyDate     = "date"
	KeyFilename = "filename"
	KeyPath     = "path"
	KeyExtends  = "extends"
	KeySection  = "section"
	KeySlug     = "slug"
)

// DefaultSection is the template a page body is bound to when neither the
// item nor its collection names one.
const DefaultSection = "content"

// Record is a content item before it joins a collection: parsed front matter
// and raw body, from a source file, a staged file, or memory.
type Record struct {
	SourcePath string         // Identity; file path or synthetic key
	Filename   string         // Base name without extension
	Meta       map[string]any // Front matter
	Body       string         // Raw markdown
}

// Item is a content item inside a collection. Items are immutable once their
// collection is built; accessors never expose internal maps.
type Item struct {
	sourcePath string
	filename   string
	collection string
	path       string
	extends    string
	section    string
	body       string
	meta       map[string]any
	next       *Item
	previous   *Item
}

// SourcePath is the item's identity.
func (i *Item) SourcePath() string { return i.sourcePath }

// Filename is the base name of the source record without extension.
func (i *Item) Filename() string { return i.filename }

// Collection is the name of the collection the item belongs to.
func (i *Item) Collection() string { return i.collection }

// Path is the resolved output URL path, always starting with "/".
func (i *Item) Path() string { return i.path }

// Extends names the layout the item renders into.
func (i *Item) Extends() string { return i.extends }

// Section names the template the rendered body is bound to.
func (i *Item) Section() string { return i.section }

// Body is the raw markdown body.
func (i *Item) Body() string { return i.body }

// Next is the following item in collection order, or nil.
func (i *Item) Next() *Item { return i.next }

// Previous is the preceding item in collection order, or nil.
func (i *Item) Previous() *Item { return i.previous }

// Meta returns a shallow copy of the item's metadata.
func (i *Item) Meta() map[string]any { return maps.Clone(i.meta) }

// Has reports whether the metadata contains key, even with a nil value.
func (i *Item) Has(key string) bool {
	_, ok := i.meta[key]
	return ok
}

// Value returns a metadata value. The virtual keys filename, path and
// collection fall back to the item's own attributes when not set in metadata.
func (i *Item) Value(key string) any {
	if v, ok := i.meta[key]; ok {
		return v
	}
	switch key {
	case KeyFilename:
		return i.filename
	case KeyPath:
		return i.path
	case "collection":
		return i.collection
	}
	return nil
}

// String returns a scalar metadata value as a string, or "" when absent.
func (i *Item) String(key string) string {
	return scalarString(i.Value(key))
}

// Strings returns a list-valued field as strings. A scalar is treated as a
// one-element list and empty strings are dropped. ok is false when the key is
// absent from the metadata.
func (i *Item) Strings(key string) (values []string, ok bool) {
	v, ok := i.meta[key]
	if !ok {
		return nil, false
	}
	return toStrings(v), true
}

// Title returns the title field, falling back to the filename.
func (i *Item) Title() string {
	if t := i.String(KeyTitle); t != "" {
		return t
	}
	return i.filename
}

// Date returns the parsed date field.
func (i *Item) Date() (time.Time, bool) {
	return dateutil.Parse(i.meta[KeyDate])
}

func toStrings(v any) []string {
	switch vals := v.(type) {
	case nil:
		return nil
	case []string:
		out := make([]string, 0, len(vals))
		for _, s := range vals {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(vals))
		for _, e := range vals {
			if s := strings.TrimSpace(scalarString(e)); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := strings.TrimSpace(scalarString(v)); s != "" {
			return []string{s}
		}
		return nil
	}
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case time.Time:
		return s.Format(time.RFC3339)
	case []any, []string, map[string]any:
		return ""
	default:
		return fmt.Sprint(s)
	}
}
