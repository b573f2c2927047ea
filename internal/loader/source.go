package loader

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2site/internal/content"
	"github.com/alnah/go-md2site/internal/fileutil"
)

// SourceTree lists the source files that live outside collections.
type SourceTree struct {
	Pages  []content.Record // Standalone pages (.md, .markdown, .html)
	Static []string         // Other files, relative slash paths, copied verbatim
}

// IsTemplatePage reports whether a page body is a template rather than
// markdown.
func IsTemplatePage(sourcePath string) bool {
	return strings.EqualFold(path.Ext(sourcePath), ".html")
}

// PagePath maps a page source path to its output URL path:
// "index.html" -> "/", "posts.html" -> "/posts", "blog/index.md" -> "/blog".
func PagePath(sourcePath string) string {
	p := strings.TrimSuffix(sourcePath, path.Ext(sourcePath))
	if path.Base(p) == "index" {
		p = path.Dir(p)
	}
	p = strings.Trim(path.Clean("/"+p), "/")
	return "/" + p
}

// ScanSource walks root, skipping every entry whose name starts with "_" or
// "." (collections, layouts, staging, dotfiles), and sorts the rest into
// pages and static files. Both lists are in lexical order.
func ScanSource(ctx context.Context, root string) (*SourceTree, error) {
	tree := &SourceTree{}
	if !fileutil.DirExists(root) {
		return nil, fmt.Errorf("%w: source directory %s", fs.ErrNotExist, root)
	}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if fileutil.IsHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !IsRecordFile(d.Name()) && !IsTemplatePage(rel) {
			tree.Static = append(tree.Static, rel)
			return nil
		}
		rec, err := readRecord(root, p)
		if err != nil {
			return err
		}
		tree.Pages = append(tree.Pages, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return tree, nil
}
