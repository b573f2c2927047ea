package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders are Private Use Area runes. Goldmark leaves them
// alone, and ConvertMarkPlaceholders turns them into <mark> tags afterwards.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

// highlightSpan matches ==text== at the start of a string. The text is not
// empty, does not contain '=', and neither starts nor ends with a space.
var highlightSpan = regexp.MustCompile(`^==([^\s=](?:[^=]*[^\s=])?)==`)

// Source is one markdown body with the page context it is rendered in.
type Source struct {
	Body  string
	Dir   string // URL directory of the page; "" disables link rewriting
	Title string // Front matter title, if any
}

// MarkdownPreprocessor prepares a body for conversion.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, src Source) string
}

// SitePreprocessor normalizes line endings, drops a leading level-one heading
// that repeats the page title, collapses runs of blank lines and marks
// ==highlights==. Fenced code blocks and code spans are left as written.
type SitePreprocessor struct{}

// PreprocessMarkdown returns the prepared body of src.
func (p *SitePreprocessor) PreprocessMarkdown(ctx context.Context, src Source) string {
	if ctx.Err() != nil {
		return src.Body
	}

	body := strings.ReplaceAll(src.Body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	lines := dropTitleHeading(strings.Split(body, "\n"), src.Title)

	out := make([]string, 0, len(lines))
	var fence string
	blank := false
	for _, line := range lines {
		if fence != "" {
			out = append(out, line)
			if closesFence(line, fence) {
				fence = ""
			}
			continue
		}
		if f := openingFence(line); f != "" {
			fence = f
			blank = false
			out = append(out, line)
			continue
		}
		if line == "" {
			if !blank {
				out = append(out, line)
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, markHighlights(line))
	}
	return strings.Join(out, "\n")
}

// dropTitleHeading removes the first non-blank line, and the blank lines
// after it, when it is "# <title>".
func dropTitleHeading(lines []string, title string) []string {
	title = strings.TrimSpace(title)
	if title == "" {
		return lines
	}
	i := skipBlank(lines, 0)
	if i == len(lines) || headingText(lines[i]) != title {
		return lines
	}
	return lines[skipBlank(lines, i+1):]
}

func skipBlank(lines []string, i int) int {
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	return i
}

// headingText returns the text of an ATX level-one heading line, or "".
func headingText(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return ""
	}
	text, ok := strings.CutPrefix(trimmed, "# ")
	if !ok {
		return ""
	}
	text = strings.TrimSpace(text)
	// A closing sequence of '#' counts only after a space: "# C#" keeps it.
	if bare := strings.TrimRight(text, "#"); bare != text && (bare == "" || strings.HasSuffix(bare, " ")) {
		text = strings.TrimSpace(bare)
	}
	return text
}

// openingFence returns the backtick or tilde run that opens a fenced code
// block on line, or "".
func openingFence(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || trimmed == "" {
		return ""
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return ""
	}
	n := len(trimmed) - len(strings.TrimLeft(trimmed, string(c)))
	if n < 3 {
		return ""
	}
	if c == '`' && strings.Contains(trimmed[n:], "`") {
		return ""
	}
	return trimmed[:n]
}

func closesFence(line, fence string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, fence) && strings.Trim(trimmed, fence[:1]) == ""
}

// markHighlights replaces ==text== outside code spans with placeholders. A
// line made only of '=' is a setext underline and is returned unchanged.
func markHighlights(line string) string {
	if t := strings.TrimSpace(line); strings.Trim(t, "=") == "" {
		return line
	}
	if !strings.Contains(line, "==") {
		return line
	}

	var b strings.Builder
	b.Grow(len(line) + 4)
	for line != "" {
		i := strings.IndexAny(line, "`=")
		if i < 0 {
			b.WriteString(line)
			break
		}
		b.WriteString(line[:i])
		line = line[i:]

		if line[0] == '`' {
			n := len(line) - len(strings.TrimLeft(line, "`"))
			end := strings.Index(line[n:], line[:n])
			if end < 0 {
				b.WriteString(line[:n])
				line = line[n:]
				continue
			}
			span := n + end + n
			b.WriteString(line[:span])
			line = line[span:]
			continue
		}

		if m := highlightSpan.FindStringSubmatchIndex(line); m != nil {
			b.WriteString(MarkStartPlaceholder)
			b.WriteString(line[m[2]:m[3]])
			b.WriteString(MarkEndPlaceholder)
			line = line[m[1]:]
			continue
		}
		b.WriteByte('=')
		line = line[1:]
	}
	return b.String()
}

// ConvertMarkPlaceholders turns highlight placeholders into <mark> tags.
func ConvertMarkPlaceholders(html string) string {
	return markReplacer.Replace(html)
}

var markReplacer = strings.NewReplacer(MarkStartPlaceholder, "<mark>", MarkEndPlaceholder, "</mark>")
