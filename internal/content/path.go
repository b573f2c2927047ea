package content

import (
	"fmt"
	"strings"

	"github.com/alnah/go-md2site/internal/dateutil"
)

// PathTemplate is a parsed output-path template such as
// "blog/{date|YYYY-MM-DD}/{filename}". Tokens are {field} or {field|FORMAT};
// FORMAT is a date format or preset understood by dateutil.Format.
type PathTemplate struct {
	raw   string
	parts []pathPart
}

type pathPart struct {
	literal string
	field   string
	format  string
}

// ParsePathTemplate parses and validates a path template.
func ParsePathTemplate(tmpl string) (PathTemplate, error) {
	pt := PathTemplate{raw: tmpl}
	rest := tmpl
	for rest != "" {
		open := strings.IndexByte(rest, '{')
		closing := strings.IndexByte(rest, '}')
		if open == -1 {
			if closing != -1 {
				return PathTemplate{}, fmt.Errorf("%w: unexpected '}' in %q", ErrInvalidPathTemplate, tmpl)
			}
			pt.parts = append(pt.parts, pathPart{literal: rest})
			break
		}
		if closing != -1 && closing < open {
			return PathTemplate{}, fmt.Errorf("%w: unexpected '}' in %q", ErrInvalidPathTemplate, tmpl)
		}
		if open > 0 {
			pt.parts = append(pt.parts, pathPart{literal: rest[:open]})
		}
		end := strings.IndexByte(rest[open:], '}')
		if end == -1 {
			return PathTemplate{}, fmt.Errorf("%w: unclosed '{' in %q", ErrInvalidPathTemplate, tmpl)
		}
		token := rest[open+1 : open+end]
		field, format, _ := strings.Cut(token, "|")
		field = strings.TrimSpace(field)
		if field == "" || strings.ContainsAny(field, "{/ ") {
			return PathTemplate{}, fmt.Errorf("%w: bad token {%s} in %q", ErrInvalidPathTemplate, token, tmpl)
		}
		pt.parts = append(pt.parts, pathPart{field: field, format: strings.TrimSpace(format)})
		rest = rest[open+end+1:]
	}
	return pt, nil
}

// String returns the template source.
func (pt PathTemplate) String() string { return pt.raw }

// Fields lists the fields referenced by the template, in order.
func (pt PathTemplate) Fields() []string {
	var fields []string
	for _, p := range pt.parts {
		if p.field != "" {
			fields = append(fields, p.field)
		}
	}
	return fields
}

// Resolve substitutes the item's values and returns a clean URL path that
// starts with "/" and has no trailing slash.
func (pt PathTemplate) Resolve(item *Item) (string, error) {
	var b strings.Builder
	for _, p := range pt.parts {
		if p.field == "" {
			b.WriteString(p.literal)
			continue
		}
		seg, err := resolveField(item, p)
		if err != nil {
			return "", err
		}
		b.WriteString(seg)
	}
	return cleanURLPath(b.String()), nil
}

func resolveField(item *Item, p pathPart) (string, error) {
	v := item.Value(p.field)
	if v == nil || v == "" {
		return "", fmt.Errorf("%w: {%s} for %s", ErrMissingPathValue, p.field, item.sourcePath)
	}

	if p.format != "" || p.field == KeyDate {
		t, ok := dateutil.Parse(v)
		if !ok {
			if p.format != "" {
				return "", fmt.Errorf("%w: {%s|%s} is not a date for %s", ErrInvalidPathTemplate, p.field, p.format, item.sourcePath)
			}
		} else {
			formatted, err := dateutil.Format(t, p.format)
			if err != nil {
				return "", err
			}
			return slugSegments(formatted), nil
		}
	}

	switch v.(type) {
	case []any, []string, map[string]any:
		return "", fmt.Errorf("%w: {%s} is not a scalar for %s", ErrInvalidPathTemplate, p.field, item.sourcePath)
	}
	return Slugify(scalarString(v)), nil
}

// slugSegments slugifies each "/"-separated segment, keeping the separators.
func slugSegments(s string) string {
	segs := strings.Split(s, "/")
	for i, seg := range segs {
		segs[i] = Slugify(seg)
	}
	return strings.Join(segs, "/")
}

func cleanURLPath(p string) string {
	segs := strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
	return "/" + strings.Join(segs, "/")
}
