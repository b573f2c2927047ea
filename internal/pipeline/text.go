package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultExcerptWords is the excerpt length used when none is given.
const DefaultExcerptWords = 25

// Heading is an anchored heading found in rendered HTML.
type Heading struct {
	Level int    // 1-6
	ID    string // anchor ID
	Text  string // heading text content
}

// PlainText returns the text content of an HTML fragment with entities
// decoded and runs of whitespace collapsed to single spaces. Script and
// style contents are dropped.
func PlainText(htmlContent string) string {
	doc, _, err := parseHTML(htmlContent)
	if err != nil {
		return ""
	}
	var b strings.Builder
	collectText(doc, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

// Excerpt returns the first words of the fragment's plain text, followed by
// an ellipsis when the text was cut. words <= 0 selects DefaultExcerptWords.
func Excerpt(htmlContent string, words int) string {
	if words <= 0 {
		words = DefaultExcerptWords
	}
	fields := strings.Fields(PlainText(htmlContent))
	if len(fields) <= words {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:words], " ") + "…"
}

// ExtractHeadings returns headings between minDepth and maxDepth in document
// order. Headings without IDs are skipped.
func ExtractHeadings(htmlContent string, minDepth, maxDepth int) []Heading {
	doc, _, err := parseHTML(htmlContent)
	if err != nil {
		return nil
	}
	var headings []Heading
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.DataAtom); level > 0 {
				if id := attr(n, "id"); id != "" && level >= minDepth && level <= maxDepth {
					var b strings.Builder
					collectText(n, &b)
					headings = append(headings, Heading{
						Level: level,
						ID:    id,
						Text:  strings.Join(strings.Fields(b.String()), " "),
					})
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return headings
}

func collectText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style:
			return
		case atom.Br, atom.P, atom.Li, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			defer b.WriteByte(' ')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func headingLevel(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
