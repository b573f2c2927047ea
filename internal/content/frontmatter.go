package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alnah/go-md2site/internal/yamlutil"
)

const frontMatterDelimiter = "---"

// ParseFrontMatter splits a source file into its YAML front matter and body.
// Files without a leading "---" line have empty metadata and the whole input
// as body.
func ParseFrontMatter(data []byte) (map[string]any, string, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimPrefix(text, "\ufeff")

	if !strings.HasPrefix(text, frontMatterDelimiter+"\n") {
		return map[string]any{}, text, nil
	}

	rest := text[len(frontMatterDelimiter)+1:]
	var header, body string
	switch {
	case strings.HasPrefix(rest, frontMatterDelimiter+"\n"):
		body = rest[len(frontMatterDelimiter)+1:]
	case rest == frontMatterDelimiter:
	default:
		end := strings.Index(rest, "\n"+frontMatterDelimiter+"\n")
		if end >= 0 {
			header = rest[:end]
			body = rest[end+len(frontMatterDelimiter)+2:]
		} else if strings.HasSuffix(rest, "\n"+frontMatterDelimiter) {
			header = strings.TrimSuffix(rest, "\n"+frontMatterDelimiter)
		} else {
			return nil, "", ErrUnclosedFrontMatter
		}
	}

	meta := map[string]any{}
	if strings.TrimSpace(header) != "" {
		if err := yamlutil.Unmarshal([]byte(header), &meta); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrFrontMatterParse, err)
		}
		if meta == nil {
			meta = map[string]any{}
		}
	}

	return meta, body, nil
}

// FormatRecord serializes metadata and body back into a front-matter file.
// Keys in first are written first; the rest follow sorted, so identical input
// always yields identical bytes.
func FormatRecord(meta map[string]any, body string, first ...string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(frontMatterDelimiter + "\n")
	if len(meta) > 0 {
		header, err := yamlutil.MarshalMap(meta, first...)
		if err != nil {
			return nil, err
		}
		buf.Write(header)
	}
	buf.WriteString(frontMatterDelimiter + "\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}
