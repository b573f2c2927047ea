package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkConverter converts Markdown to HTML using goldmark (pure Go).
// It is safe for concurrent use.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions and syntax highlighting.
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // CSS classes, styled by the site stylesheet
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // Anchors for in-page links
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(), // Raw HTML in posts (embeds, slide markup) passes through
		),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// Markdown runs the full body pipeline: preprocess, convert, finalize
// highlights, rewrite relative URLs.
type Markdown struct {
	pre  MarkdownPreprocessor
	conv HTMLConverter
}

// NewMarkdown returns the default pipeline.
func NewMarkdown() *Markdown {
	return &Markdown{pre: &SitePreprocessor{}, conv: NewGoldmarkConverter()}
}

// NewMarkdownWith assembles a pipeline from custom stages.
func NewMarkdownWith(pre MarkdownPreprocessor, conv HTMLConverter) *Markdown {
	return &Markdown{pre: pre, conv: conv}
}

// Render converts src.Body into an HTML fragment. Relative links and images
// are resolved against src.Dir, the URL directory of the page's source
// (e.g. "/" for a top-level page).
func (m *Markdown) Render(ctx context.Context, src Source) (string, error) {
	content := m.pre.PreprocessMarkdown(ctx, src)
	out, err := m.conv.ToHTML(ctx, content)
	if err != nil {
		return "", err
	}
	out = ConvertMarkPlaceholders(out)
	return RewriteRelativeURLs(out, src.Dir)
}
