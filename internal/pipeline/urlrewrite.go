package pipeline

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RewriteRelativeURLs resolves relative link and media URLs against pageDir,
// producing root-absolute site URLs. If pageDir is empty, returns the HTML
// unchanged.
//
// Rewrites:
//   - img[src], source[src], video[src], audio[src]
//   - a[href]: relative paths (not anchors, not URLs)
//
// Left alone:
//   - srcset attributes
//   - CSS url() references
//   - script[src]
//   - Absolute paths, URLs with a scheme, protocol-relative URLs
//   - Paths that would climb above the site root
func RewriteRelativeURLs(htmlContent, pageDir string) (string, error) {
	if pageDir == "" {
		return htmlContent, nil
	}
	base := "/" + strings.Trim(pageDir, "/")

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	rewriteNode(doc, base)

	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	// Full document: starts with <!DOCTYPE or <html
	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	return container, true, nil
}

// renderHTML renders the document back to string.
// For fragments, only renders the children (avoids adding <html><body> wrapper).
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// rewriteNode traverses the DOM and rewrites relative URLs.
func rewriteNode(n *html.Node, base string) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img, atom.Source, atom.Video, atom.Audio:
			rewriteAttr(n, "src", base)
		case atom.A:
			rewriteAttr(n, "href", base)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, base)
	}
}

// rewriteAttr rewrites a single attribute if it holds a relative URL.
func rewriteAttr(n *html.Node, attrName, base string) {
	for i, attr := range n.Attr {
		if attr.Key != attrName {
			continue
		}
		if resolved, ok := resolveURL(attr.Val, base); ok {
			n.Attr[i].Val = resolved
		}
	}
}

// resolveURL joins a relative reference onto base, keeping its query and
// fragment. ok is false when ref must be left as written.
func resolveURL(ref, base string) (string, bool) {
	if !isRelativeURL(ref) {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Path == "" {
		return "", false
	}

	// Join without the leading slash so escapes stay visible as "..".
	joined := path.Join(strings.TrimPrefix(base, "/"), u.Path)
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return "", false
	}
	if joined == "." {
		joined = ""
	}
	resolved := "/" + joined
	if strings.HasSuffix(u.Path, "/") && resolved != "/" {
		resolved += "/"
	}

	u.Path = resolved
	return u.String(), true
}

// isRelativeURL reports whether ref should be resolved against the page.
func isRelativeURL(ref string) bool {
	if ref == "" {
		return false
	}
	// Anchors, absolute paths, protocol-relative URLs
	if strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "/") {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	// http:, https:, mailto:, data:, file: ...
	return u.Scheme == "" && u.Host == ""
}
