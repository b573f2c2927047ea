package assets

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alnah/go-md2site/internal/content"
)

// DefaultLayoutsDir is the directory, relative to the site source, holding
// site-provided layouts.
const DefaultLayoutsDir = "_layouts"

// DefaultStyleName is the name of the built-in stylesheet.
const DefaultStyleName = "site"

// Layout is a parsed layout file.
type Layout struct {
	Name    string // Normalized layout name
	Extends string // Normalized parent layout name, empty for a root layout
	Source  string // Template source without front matter
}

// IsRoot reports whether the layout extends nothing.
func (l *Layout) IsRoot() bool { return l.Extends == "" }

// ParseLayout splits a layout file into its front matter and template source.
func ParseLayout(name string, data []byte) (*Layout, error) {
	meta, body, err := content.ParseFrontMatter(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidLayout, name, err)
	}

	l := &Layout{Name: NormalizeLayoutName(name), Source: body}
	if v, ok := meta[content.KeyExtends]; ok && v != nil {
		parent, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %q: extends must be a string", ErrInvalidLayout, name)
		}
		l.Extends = NormalizeLayoutName(parent)
		if l.Extends == l.Name {
			return nil, fmt.Errorf("%w: %q extends itself", ErrLayoutCycle, name)
		}
	}
	return l, nil
}

// NormalizeLayoutName reduces a layout reference to its bare name:
// "_layouts.post", "_layouts/post" and "post.html" all become "post".
func NormalizeLayoutName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, ".html")
	for _, prefix := range []string{DefaultLayoutsDir + ".", DefaultLayoutsDir + "/"} {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}

// Chain resolves a layout and its ancestors through loader, returned
// root-first. Returns ErrLayoutCycle if a layout is visited twice.
func Chain(loader AssetLoader, name string) ([]*Layout, error) {
	var chain []*Layout
	seen := make(map[string]bool)
	for next := NormalizeLayoutName(name); next != ""; {
		if seen[next] {
			return nil, fmt.Errorf("%w: %q", ErrLayoutCycle, next)
		}
		seen[next] = true

		l, err := loader.LoadLayout(next)
		if err != nil {
			return nil, err
		}
		chain = append(chain, l)
		next = l.Extends
	}

	slices.Reverse(chain)
	return chain, nil
}
