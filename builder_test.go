package md2site

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const siteConfig = `
title: Test Site
collections:
  posts:
    path: blog/{filename}
    sort: -date
    extends: post
    section: post
taxonomies:
  - name: tags
    source: posts
    path: blog/tags/{tag}
`

// Scenario from the tag pages: PostA{x,y}, PostB{y}, PostC{z}, newest first.
var siteFiles = map[string]string{
	"_posts/a.md": "---\ntitle: Post A\ndate: 2020-03-01\ntags: [x, y]\n---\nAlpha.\n",
	"_posts/b.md": "---\ntitle: Post B\ndate: 2020-02-01\ntags: [y]\n---\nBravo.\n",
	"_posts/c.md": "---\ntitle: Post C\ndate: 2020-01-01\ntags: z\n---\nCharlie.\n",
	"index.html":  "---\nextends: master\n---\n{{define \"content\"}}home{{end}}",
	"favicon.ico": "ico",
}

// newSite writes files under a fresh source tree and returns a config
// pointing at it.
func newSite(t *testing.T, files map[string]string) *Config {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "source")
	writeFiles(t, src, files)

	cfg, err := ParseConfig([]byte(siteConfig))
	require.NoError(t, err)
	cfg.Build.Source = src
	cfg.Build.Destination = filepath.Join(dir, "public")
	cfg.Build.Workers = 2
	return cfg
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, data := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	}
}

// ---------------------------------------------------------------------------
// TestNewBuilder - Construction and Validation
// ---------------------------------------------------------------------------

func TestNewBuilder(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()
		_, err := NewBuilder(nil)
		assert.ErrorIs(t, err, ErrNilConfig)
	})

	t.Run("options override a copy", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		b, err := NewBuilder(cfg,
			WithSource("site"),
			WithDestination("out"),
			WithWorkers(3),
			WithStaging(true),
			WithKeepStaging(true))
		require.NoError(t, err)

		assert.Equal(t, "site", b.Config().Build.Source)
		assert.Equal(t, "out", b.Config().Build.Destination)
		assert.Equal(t, 3, b.Config().Build.Workers)
		assert.True(t, b.Config().Build.Staging)
		assert.True(t, b.Config().Build.KeepStaging)
		assert.Equal(t, "source", cfg.Build.Source, "caller config must not change")
	})

	t.Run("invalid override", func(t *testing.T) {
		t.Parallel()
		_, err := NewBuilder(DefaultConfig(), WithWorkers(-1))
		assert.Error(t, err)
	})

	t.Run("same source and destination", func(t *testing.T) {
		t.Parallel()
		_, err := NewBuilder(DefaultConfig(), WithSource("x"), WithDestination("x"))
		assert.Error(t, err)
	})
}

// ---------------------------------------------------------------------------
// TestBuilder_Build - Derived Tag Pages
// ---------------------------------------------------------------------------

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	cfg := newSite(t, siteFiles)
	b, err := NewBuilder(cfg)
	require.NoError(t, err)

	res, err := b.Build(context.Background())
	require.NoError(t, err)

	wantPages := []string{
		"/",
		"/blog/a",
		"/blog/b",
		"/blog/c",
		"/blog/tags/x",
		"/blog/tags/y",
		"/blog/tags/z",
	}
	if diff := cmp.Diff(wantPages, res.Pages); diff != "" {
		t.Errorf("Pages mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, res.Static)
	assert.Empty(t, res.Warnings)

	wantCollections := []CollectionSummary{
		{Name: "posts", Kind: "authored", Items: 3},
		{Name: "tags", Kind: "synthesized", Items: 3},
	}
	if diff := cmp.Diff(wantCollections, res.Collections); diff != "" {
		t.Errorf("Collections mismatch (-want +got):\n%s", diff)
	}

	wantTaxonomies := []TaxonomySummary{
		{Name: "tags", Source: "posts", Facets: []string{"x", "y", "z"}},
	}
	if diff := cmp.Diff(wantTaxonomies, res.Taxonomies); diff != "" {
		t.Errorf("Taxonomies mismatch (-want +got):\n%s", diff)
	}

	page, err := os.ReadFile(filepath.Join(cfg.Build.Destination, "blog", "tags", "y", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "Post A")
	assert.Contains(t, string(page), "Post B")
	assert.NotContains(t, string(page), "Post C")
}

// ---------------------------------------------------------------------------
// TestBuilder_Build_Staging - File-Backed Derivation
// ---------------------------------------------------------------------------

func TestBuilder_Build_Staging(t *testing.T) {
	t.Parallel()

	memCfg := newSite(t, siteFiles)
	mem, err := NewBuilder(memCfg)
	require.NoError(t, err)
	memRes, err := mem.Build(context.Background())
	require.NoError(t, err)

	t.Run("same pages and removed afterwards", func(t *testing.T) {
		t.Parallel()
		cfg := newSite(t, siteFiles)
		b, err := NewBuilder(cfg, WithStaging(true))
		require.NoError(t, err)

		res, err := b.Build(context.Background())
		require.NoError(t, err)

		if diff := cmp.Diff(memRes.Pages, res.Pages); diff != "" {
			t.Errorf("staged pages differ (-memory +staging):\n%s", diff)
		}
		if diff := cmp.Diff(memRes.Taxonomies, res.Taxonomies); diff != "" {
			t.Errorf("staged facets differ (-memory +staging):\n%s", diff)
		}
		assert.NoDirExists(t, cfg.Build.StagingPath())
	})

	t.Run("kept on request", func(t *testing.T) {
		t.Parallel()
		cfg := newSite(t, siteFiles)
		b, err := NewBuilder(cfg, WithStaging(true), WithKeepStaging(true))
		require.NoError(t, err)

		_, err = b.Build(context.Background())
		require.NoError(t, err)

		for _, tag := range []string{"x", "y", "z"} {
			assert.FileExists(t, filepath.Join(cfg.Build.StagingPath(), "_tags", tag+".md"))
		}
	})
}

// ---------------------------------------------------------------------------
// TestBuilder_Build_Rerun - Sources Change Between Builds
// ---------------------------------------------------------------------------

func TestBuilder_Build_Rerun(t *testing.T) {
	t.Parallel()

	for _, staging := range []bool{false, true} {
		name := "memory"
		if staging {
			name = "staging"
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := newSite(t, siteFiles)
			b, err := NewBuilder(cfg, WithStaging(staging))
			require.NoError(t, err)

			_, err = b.Build(context.Background())
			require.NoError(t, err)

			writeFiles(t, cfg.Build.Source, map[string]string{
				"_posts/d.md": "---\ntitle: Post D\ndate: 2020-04-01\ntags: [w]\n---\nDelta.\n",
			})

			res, err := b.Build(context.Background())
			require.NoError(t, err)

			require.Len(t, res.Taxonomies, 1)
			assert.Equal(t, []string{"w", "x", "y", "z"}, res.Taxonomies[0].Facets)
			assert.Contains(t, res.Pages, "/blog/tags/w")
			for _, c := range res.Collections {
				if c.Name == "tags" {
					assert.Equal(t, 4, c.Items)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestBuilder_Build_Warnings - Items Without the Facet Field
// ---------------------------------------------------------------------------

func TestBuilder_Build_Warnings(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"_posts/a.md":     "---\ntitle: Tagged\ndate: 2020-01-02\ntags: [x]\n---\nA\n",
		"_posts/plain.md": "---\ntitle: Plain\ndate: 2020-01-01\n---\nB\n",
	}
	cfg := newSite(t, files)

	core, logs := observer.New(zap.WarnLevel)
	b, err := NewBuilder(cfg, WithLogger(zap.New(core)))
	require.NoError(t, err)

	res, err := b.Build(context.Background())
	require.NoError(t, err)

	want := []MissingFieldWarning{{Collection: "posts", Item: "_posts/plain.md", Field: "tags"}}
	if diff := cmp.Diff(want, res.Warnings); diff != "" {
		t.Errorf("Warnings mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, logs.FilterMessage("missing facet field").Len())
	assert.Contains(t, res.Pages, "/blog/plain")
	assert.Contains(t, res.Pages, "/blog/tags/x")
}

// ---------------------------------------------------------------------------
// TestBuilder_Build_Errors - Failures Keep the Previous Output
// ---------------------------------------------------------------------------

func TestBuilder_Build_Errors(t *testing.T) {
	t.Parallel()

	t.Run("template error", func(t *testing.T) {
		t.Parallel()
		cfg := newSite(t, siteFiles)
		b, err := NewBuilder(cfg)
		require.NoError(t, err)
		_, err = b.Build(context.Background())
		require.NoError(t, err)

		writeFiles(t, cfg.Build.Source, map[string]string{
			"index.html": "---\nextends: master\n---\n{{define \"content\"}}{{.Nope.Field}}{{end}}",
		})
		_, err = b.Build(context.Background())
		require.Error(t, err)

		var pe *PageError
		require.True(t, errors.As(err, &pe), "want *PageError, got %T", err)
		assert.Equal(t, "/", pe.URL)
		assert.FileExists(t, filepath.Join(cfg.Build.Destination, "blog", "tags", "x", "index.html"))
	})

	t.Run("missing layout", func(t *testing.T) {
		t.Parallel()
		cfg := newSite(t, map[string]string{
			"index.html": "---\nextends: nowhere\n---\nhi",
		})
		b, err := NewBuilder(cfg)
		require.NoError(t, err)
		_, err = b.Build(context.Background())
		assert.ErrorIs(t, err, ErrLayoutNotFound)
	})

	t.Run("missing source", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		b, err := NewBuilder(DefaultConfig(),
			WithSource(filepath.Join(dir, "nope")),
			WithDestination(filepath.Join(dir, "public")))
		require.NoError(t, err)
		_, err = b.Build(context.Background())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()
		cfg := newSite(t, siteFiles)
		b, err := NewBuilder(cfg)
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = b.Build(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NoDirExists(t, cfg.Build.Destination)
	})
}

// ---------------------------------------------------------------------------
// TestBuilder_LayoutDir - Layout Override Directory
// ---------------------------------------------------------------------------

func TestBuilder_LayoutDir(t *testing.T) {
	t.Parallel()

	cfg := newSite(t, siteFiles)
	layouts := filepath.Join(t.TempDir(), "layouts")
	writeFiles(t, layouts, map[string]string{
		"master.html": `<main class="custom">{{block "content" .}}{{end}}</main>`,
	})

	b, err := NewBuilder(cfg, WithLayoutDir(layouts))
	require.NoError(t, err)
	_, err = b.Build(context.Background())
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(cfg.Build.Destination, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), `<main class="custom">home</main>`)
}

// ---------------------------------------------------------------------------
// TestBuilder_Tags - Facet Counts Without Rendering
// ---------------------------------------------------------------------------

func TestBuilder_Tags(t *testing.T) {
	t.Parallel()

	cfg := newSite(t, siteFiles)
	b, err := NewBuilder(cfg)
	require.NoError(t, err)

	got, err := b.Tags(context.Background(), "tags")
	require.NoError(t, err)

	want := []FacetCount{{Value: "x", Count: 1}, {Value: "y", Count: 2}, {Value: "z", Count: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
	assert.NoDirExists(t, cfg.Build.Destination)
	assert.Equal(t, []string{"tags"}, b.TaxonomyNames())

	_, err = b.Tags(context.Background(), "series")
	assert.ErrorIs(t, err, ErrUnknownTaxonomy)

	cfg.Build.Staging = true
	b, err = NewBuilder(cfg)
	require.NoError(t, err)
	_, err = b.Tags(context.Background(), "tags")
	require.NoError(t, err)
	assert.NoDirExists(t, cfg.Build.StagingPath())
}
