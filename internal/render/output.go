package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/fileutil"
)

// Default stylesheet locations, written unless the source provides them.
const (
	SiteStylePath      = "assets/css/site.css"
	HighlightStylePath = "assets/css/highlight.css"

	// HighlightStyle is the chroma style used for code blocks.
	HighlightStyle = "github"
)

// fileExtensions are page URL suffixes written as files rather than as
// directory indexes.
var fileExtensions = []string{".html", ".htm", ".xml", ".json", ".txt"}

// outputDir collects a render next to the destination and swaps it in once
// complete.
type outputDir struct {
	dest      string
	tmp       string
	committed bool
}

func newOutputDir(dest string) (*outputDir, error) {
	if dest == "" {
		return nil, fmt.Errorf("%w: empty path", ErrUnsafeDestination)
	}
	clean := filepath.Clean(dest)
	if clean == "." || filepath.Dir(clean) == clean {
		return nil, fmt.Errorf("%w: %q", ErrUnsafeDestination, dest)
	}

	parent := filepath.Dir(clean)
	if err := os.MkdirAll(parent, fileutil.DirPermissions); err != nil {
		return nil, fmt.Errorf("creating %s: %w", parent, err)
	}
	tmp, err := os.MkdirTemp(parent, "."+filepath.Base(clean)+"-*")
	if err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &outputDir{dest: clean, tmp: tmp}, nil
}

// outputFile maps a URL path to a file below the output root:
// "/" -> index.html, "/blog/post" -> blog/post/index.html,
// "/feed.xml" -> feed.xml.
func outputFile(urlPath string) string {
	p := strings.Trim(path.Clean("/"+urlPath), "/")
	if p == "" {
		return "index.html"
	}
	if slices.Contains(fileExtensions, strings.ToLower(path.Ext(p))) {
		return filepath.FromSlash(p)
	}
	return filepath.Join(filepath.FromSlash(p), "index.html")
}

func (o *outputDir) writePage(urlPath string, data []byte) error {
	return fileutil.WriteFile(filepath.Join(o.tmp, outputFile(urlPath)), data)
}

func (o *outputDir) writeFile(rel string, data []byte) error {
	return fileutil.WriteFile(filepath.Join(o.tmp, filepath.FromSlash(rel)), data)
}

func (o *outputDir) copyFile(src, rel string) error {
	return fileutil.CopyFile(src, filepath.Join(o.tmp, filepath.FromSlash(rel)))
}

// commit replaces the destination with the rendered tree. The previous
// output is restored if the swap fails.
func (o *outputDir) commit() error {
	if err := os.Chmod(o.tmp, fileutil.DirPermissions); err != nil {
		return fmt.Errorf("preparing output: %w", err)
	}

	old := ""
	if _, err := os.Lstat(o.dest); err == nil {
		old = o.tmp + ".old"
		if err := os.Rename(o.dest, old); err != nil {
			return fmt.Errorf("moving previous output: %w", err)
		}
	}

	if err := os.Rename(o.tmp, o.dest); err != nil {
		if old != "" {
			_ = os.Rename(old, o.dest)
		}
		return fmt.Errorf("replacing %s: %w", o.dest, err)
	}
	o.committed = true

	if old != "" {
		if err := os.RemoveAll(old); err != nil {
			return fmt.Errorf("removing previous output: %w", err)
		}
	}
	return nil
}

// discard removes an uncommitted render.
func (o *outputDir) discard() {
	if !o.committed {
		_ = os.RemoveAll(o.tmp)
	}
}

// copyStatic copies the source's static files and fills in the default
// stylesheets the source does not provide. Returns the number of files
// copied from the source.
func (r *Renderer) copyStatic(ctx context.Context, out *outputDir, static []string) (int, error) {
	root := r.build.Config.Build.Source
	for _, rel := range static {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := out.copyFile(filepath.Join(root, filepath.FromSlash(rel)), rel); err != nil {
			return 0, err
		}
	}

	if !slices.Contains(static, SiteStylePath) {
		css, err := r.styles.LoadStyle(assets.DefaultStyleName)
		if err != nil {
			return 0, err
		}
		if err := out.writeFile(SiteStylePath, []byte(css)); err != nil {
			return 0, err
		}
	}
	if !slices.Contains(static, HighlightStylePath) {
		css, err := highlightCSS(HighlightStyle)
		if err != nil {
			return 0, err
		}
		if err := out.writeFile(HighlightStylePath, css); err != nil {
			return 0, err
		}
	}
	return len(static), nil
}

// highlightCSS returns the stylesheet for chroma's class-based output.
func highlightCSS(style string) ([]byte, error) {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(style)); err != nil {
		return nil, fmt.Errorf("writing highlight stylesheet: %w", err)
	}
	return buf.Bytes(), nil
}
