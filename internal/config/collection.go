package config

import (
	"errors"
	"fmt"
	"maps"
	"path"
	"strings"

	"github.com/alnah/go-md2site/internal/content"
	"github.com/alnah/go-md2site/internal/fileutil"
)

// ErrInvalidInlineItem indicates an inline item that cannot be ingested.
var ErrInvalidInlineItem = errors.New("invalid inline item")

// KeyContent holds the markdown body of an inline item.
const KeyContent = "content"

// MaxFilenameLength bounds inline item filenames, which become file names
// when a collection is staged.
const MaxFilenameLength = 200

// ContentSpec converts the collection config into the spec used to build
// the collection's items.
func (cc CollectionConfig) ContentSpec(name string, kind content.Kind) (content.Spec, error) {
	keys, err := cc.Sort.Keys()
	if err != nil {
		return content.Spec{}, fmt.Errorf("collection %q: %w", name, err)
	}
	if cc.Path != "" {
		if _, err := content.ParsePathTemplate(cc.Path); err != nil {
			return content.Spec{}, fmt.Errorf("collection %q: %w", name, err)
		}
	}
	return content.Spec{
		Name:         name,
		PathTemplate: cc.Path,
		Sort:         keys,
		Extends:      cc.Extends,
		Section:      cc.Section,
		Kind:         kind,
	}, nil
}

// RecordSourcePath is the identity of a record named filename in a
// collection: the path of its file relative to the root it is loaded from.
func RecordSourcePath(collection, filename string) string {
	return path.Join("_"+collection, filename+".md")
}

// InlineFilename returns the filename of the inline item at index: its own
// filename field, or <collection>_<n> counting from 1.
func InlineFilename(collection string, index int, item map[string]any) string {
	if v, ok := item[content.KeyFilename]; ok && v != nil {
		if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
			return s
		}
	}
	return fmt.Sprintf("%s_%d", collection, index+1)
}

// InlineRecords converts the inline items into records. The content field
// becomes the body; the resolved filename is always written back to the
// metadata so that records read back from a staged file are identical.
func (cc CollectionConfig) InlineRecords(collection string) ([]content.Record, error) {
	records := make([]content.Record, 0, len(cc.Items))
	seen := make(map[string]int, len(cc.Items))
	for i, item := range cc.Items {
		filename := InlineFilename(collection, i, item)
		if err := validateInlineFilename(filename); err != nil {
			return nil, fmt.Errorf("%w: collections.%s.items[%d]: %v", ErrInvalidInlineItem, collection, i, err)
		}
		if prev, dup := seen[filename]; dup {
			return nil, fmt.Errorf("%w: collections.%s.items[%d]: filename %q already used by items[%d]",
				ErrInvalidInlineItem, collection, i, filename, prev)
		}
		seen[filename] = i

		meta := maps.Clone(item)
		if meta == nil {
			meta = map[string]any{}
		}
		body := ""
		if v, ok := meta[KeyContent]; ok {
			if s, ok := v.(string); ok {
				body = strings.ReplaceAll(s, "\r\n", "\n")
			}
			delete(meta, KeyContent)
		}
		meta[content.KeyFilename] = filename

		records = append(records, content.Record{
			SourcePath: RecordSourcePath(collection, filename),
			Filename:   filename,
			Meta:       meta,
			Body:       body,
		})
	}
	return records, nil
}

func validateInlineFilename(name string) error {
	switch {
	case len(name) > MaxFilenameLength:
		return fmt.Errorf("filename exceeds %d characters", MaxFilenameLength)
	case fileutil.IsHidden(name):
		return fmt.Errorf("filename %q must not start with '_' or '.'", name)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("filename %q must not contain path separators", name)
	}
	return nil
}
