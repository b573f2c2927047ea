package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/loader"
	"github.com/alnah/go-md2site/internal/site"
	"github.com/alnah/go-md2site/internal/taxonomy"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testConfig = `
title: Test Site
collections:
  posts:
    path: blog/{date|YYYY-MM-DD}/{filename}
    sort: -date
    extends: post
    section: post
taxonomies:
  - name: tags
    source: posts
    path: blog/tags/{tag}
`

var testFiles = map[string]string{
	"_posts/first.md": "---\ntitle: First Post\ndate: 2019-01-05\ntags: [go, php]\ndescription: The first one.\n---\n" +
		"Hello **world** ![pic](images/pic.png)\n",
	"_posts/second.md": "---\ntitle: Second Post\ndate: 2019-02-01\ntags: [go]\n---\n" +
		"One two three four five six.\n",
	"index.html": "---\nextends: master\n---\n" +
		`{{define "content"}}<ul>{{range .Site.Collection "posts"}}<li><a href="{{.URL}}">{{.Title}}</a> {{excerpt . 3}}</li>{{end}}</ul>{{end}}`,
	"about.md":          "---\ntitle: About\nextends: _layouts.master\n---\n# About me\n\n[home](../)\n",
	"raw.md":            "Just a *fragment*.\n",
	"robots.txt":        "User-agent: *\n",
	"images/pic.png":    "png",
	"_drafts/secret.md": "hidden",
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, data := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	}
}

// newTestBuild loads and derives a site from files, ready to render.
func newTestBuild(t *testing.T, cfgYAML string, files map[string]string) (*site.Build, *loader.SourceTree) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	src := filepath.Join(dir, "source")
	writeFiles(t, src, files)

	cfg, err := config.Parse([]byte(cfgYAML))
	require.NoError(t, err)
	cfg.Build.Source = src
	cfg.Build.Destination = filepath.Join(dir, "public")
	cfg.Build.Workers = 2

	b := site.NewBuild(cfg, zap.NewNop())
	require.NoError(t, loader.LoadAuthored(ctx, b))
	_, err = taxonomy.AugmentAll(ctx, b)
	require.NoError(t, err)
	b.Data.Freeze()

	tree, err := loader.ScanSource(ctx, src)
	require.NoError(t, err)
	return b, tree
}

func readOutput(t *testing.T, b *site.Build, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(b.Config.Build.Destination, filepath.FromSlash(rel)))
	require.NoError(t, err, "reading %s", rel)
	return string(data)
}

// ---------------------------------------------------------------------------
// TestRenderer_Render - Full Site Output
// ---------------------------------------------------------------------------

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	b, tree := newTestBuild(t, testConfig, testFiles)
	r, err := New(b)
	require.NoError(t, err)

	res, err := r.Render(context.Background(), tree)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/",
		"/about",
		"/blog/2019-01-05/first",
		"/blog/2019-02-01/second",
		"/blog/tags/go",
		"/blog/tags/php",
		"/raw",
	}, res.Pages)
	assert.Equal(t, 2, res.Static)
	assert.Zero(t, res.Skipped)

	t.Run("post page", func(t *testing.T) {
		got := readOutput(t, b, "blog/2019-01-05/first/index.html")
		assert.Contains(t, got, "<!DOCTYPE html>")
		assert.Contains(t, got, "<title>First Post | Test Site</title>")
		assert.Contains(t, got, "<h1>First Post</h1>")
		assert.Contains(t, got, "January 5, 2019")
		assert.Contains(t, got, "<strong>world</strong>")
		assert.Contains(t, got, `src="/images/pic.png"`)
		assert.Contains(t, got, `<a href="/blog/tags/go">go</a>`)
		assert.Contains(t, got, `<a href="/blog/2019-02-01/second" rel="prev">Second Post &gt;&gt;</a>`)
		assert.NotContains(t, got, `rel="next"`)
	})

	t.Run("tag pages list tagged posts", func(t *testing.T) {
		goPage := readOutput(t, b, "blog/tags/go/index.html")
		assert.Contains(t, goPage, `<h1 class="tag-title">go</h1>`)
		assert.Contains(t, goPage, "First Post")
		assert.Contains(t, goPage, "Second Post")
		assert.Contains(t, goPage, "The first one.")

		phpPage := readOutput(t, b, "blog/tags/php/index.html")
		assert.Contains(t, phpPage, "First Post")
		assert.NotContains(t, phpPage, "Second Post")
	})

	t.Run("template page", func(t *testing.T) {
		got := readOutput(t, b, "index.html")
		assert.Contains(t, got, `<a href="/blog/2019-02-01/second">Second Post</a> One two three…`)
		assert.Contains(t, got, `<a href="/blog/2019-01-05/first">First Post</a>`)
	})

	t.Run("markdown page in layout", func(t *testing.T) {
		got := readOutput(t, b, "about/index.html")
		assert.Contains(t, got, "<title>About | Test Site</title>")
		assert.Contains(t, got, `<h1 id="about-me">About me</h1>`)
	})

	t.Run("markdown page without layout", func(t *testing.T) {
		got := readOutput(t, b, "raw/index.html")
		assert.Contains(t, got, "<p>Just a <em>fragment</em>.</p>")
		assert.NotContains(t, got, "<!DOCTYPE")
	})

	t.Run("static files and stylesheets", func(t *testing.T) {
		assert.Equal(t, "User-agent: *\n", readOutput(t, b, "robots.txt"))
		assert.Equal(t, "png", readOutput(t, b, "images/pic.png"))
		assert.Contains(t, readOutput(t, b, SiteStylePath), ".markdown")
		assert.Contains(t, readOutput(t, b, HighlightStylePath), ".chroma")
		assert.NoFileExists(t, filepath.Join(b.Config.Build.Destination, "_drafts", "secret.md"))
	})
}

func TestRenderer_Render_ReplacesDestination(t *testing.T) {
	t.Parallel()

	b, tree := newTestBuild(t, testConfig, testFiles)
	dest := b.Config.Build.Destination
	writeFiles(t, dest, map[string]string{"stale.html": "old"})

	r, err := New(b)
	require.NoError(t, err)
	_, err = r.Render(context.Background(), tree)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(dest, "stale.html"))
	assert.FileExists(t, filepath.Join(dest, "index.html"))

	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	for _, e := range entries {
		assert.Contains(t, []string{"source", "public"}, e.Name(), "leftover %s", e.Name())
	}
}

func TestRenderer_Render_SiteLayoutOverride(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"_layouts/master.html": `<main class="mine">{{block "content" .}}{{end}}</main>`,
		"_posts/first.md":      "---\ntitle: First\ndate: 2019-01-05\n---\nbody\n",
	}
	b, tree := newTestBuild(t, testConfig, files)

	r, err := New(b)
	require.NoError(t, err)
	_, err = r.Render(context.Background(), tree)
	require.NoError(t, err)

	got := readOutput(t, b, "blog/2019-01-05/first/index.html")
	assert.Contains(t, got, `<main class="mine">`)
	assert.Contains(t, got, "<h1>First</h1>")
}

func TestRenderer_Render_ItemsWithoutLayoutSkipped(t *testing.T) {
	t.Parallel()

	cfg := `
collections:
  authors:
    items:
      - filename: ann
        name: Ann
`
	b, tree := newTestBuild(t, cfg, map[string]string{"index.html": `{{range .Site.Collection "authors"}}{{.String "name"}}{{end}}`})

	r, err := New(b)
	require.NoError(t, err)
	res, err := r.Render(context.Background(), tree)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, []string{"/"}, res.Pages)
	assert.Equal(t, "Ann", readOutput(t, b, "index.html"))
}

// ---------------------------------------------------------------------------
// TestRenderer_Render_Errors - Failures Keep the Previous Output
// ---------------------------------------------------------------------------

func TestRenderer_Render_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		files   map[string]string
		wantErr error
	}{
		{
			name: "duplicate output path",
			files: map[string]string{
				"about.md":       "a",
				"about/index.md": "b",
			},
			wantErr: ErrDuplicateOutput,
		},
		{
			name:    "unknown layout",
			files:   map[string]string{"page.md": "---\nextends: gallery\n---\nx"},
			wantErr: assets.ErrLayoutNotFound,
		},
		{
			name:    "template parse error",
			files:   map[string]string{"page.html": "{{if}}"},
			wantErr: ErrTemplate,
		},
		{
			name:    "template execution error",
			files:   map[string]string{"page.html": "{{.Page.Missing}}"},
			wantErr: ErrExecute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, tree := newTestBuild(t, testConfig, tt.files)
			dest := b.Config.Build.Destination
			writeFiles(t, dest, map[string]string{"keep.html": "previous"})

			r, err := New(b)
			require.NoError(t, err)
			_, err = r.Render(context.Background(), tree)
			require.ErrorIs(t, err, tt.wantErr)

			assert.Equal(t, "previous", readOutput(t, b, "keep.html"))
			entries, err := os.ReadDir(filepath.Dir(dest))
			require.NoError(t, err)
			assert.Len(t, entries, 2, "temporary output should be removed")
		})
	}
}

func TestRenderer_Render_PageErrorNamesSource(t *testing.T) {
	t.Parallel()

	b, tree := newTestBuild(t, testConfig, map[string]string{"broken.html": "{{.Page.Missing}}"})
	r, err := New(b)
	require.NoError(t, err)

	_, err = r.Render(context.Background(), tree)

	var pe *PageError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "broken.html", pe.Source)
	assert.Equal(t, "/broken", pe.URL)
}

func TestRenderer_Render_Cancelled(t *testing.T) {
	t.Parallel()

	b, tree := newTestBuild(t, testConfig, testFiles)
	r, err := New(b)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Render(ctx, tree)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoDirExists(t, b.Config.Build.Destination)
}

// ---------------------------------------------------------------------------
// TestOutputFile - URL to File Mapping
// ---------------------------------------------------------------------------

func TestOutputFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"/", "index.html"},
		{"", "index.html"},
		{"/about", filepath.Join("about", "index.html")},
		{"/blog/2019-01-05/post/", filepath.Join("blog", "2019-01-05", "post", "index.html")},
		{"/feed.xml", "feed.xml"},
		{"/404.html", "404.html"},
		{"/blog/v1.2", filepath.Join("blog", "v1.2", "index.html")},
		{"/../escape", filepath.Join("escape", "index.html")},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, outputFile(tt.url))
		})
	}
}

func TestPageDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source string
		want   string
	}{
		{"about.md", "/"},
		{"docs/intro.md", "/docs/"},
		{"docs/api/index.md", "/docs/api/"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pageDir(tt.source))
		})
	}
}

func TestNewOutputDir_Unsafe(t *testing.T) {
	t.Parallel()

	for _, dest := range []string{"", ".", string(filepath.Separator)} {
		_, err := newOutputDir(dest)
		assert.ErrorIs(t, err, ErrUnsafeDestination, "dest %q", dest)
	}
}
