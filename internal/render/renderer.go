package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/content"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/loader"
	"github.com/alnah/go-md2site/internal/pipeline"
	"github.com/alnah/go-md2site/internal/site"
)

// Renderer writes a built site to its destination. It is used for one
// render and is not safe for concurrent Render calls.
type Renderer struct {
	build   *site.Build
	md      *pipeline.Markdown
	layouts assets.AssetLoader
	styles  *assets.EmbeddedLoader
	workers int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMarkdown replaces the markdown pipeline.
func WithMarkdown(md *pipeline.Markdown) Option {
	return func(r *Renderer) {
		if md != nil {
			r.md = md
		}
	}
}

// WithLayouts replaces the layout loader. By default the site's _layouts
// directory is used, falling back to the built-in layouts.
func WithLayouts(l assets.AssetLoader) Option {
	return func(r *Renderer) {
		if l != nil {
			r.layouts = l
		}
	}
}

// WithWorkers sets the number of pages rendered concurrently.
// Values below 1 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(r *Renderer) {
		r.workers = n
	}
}

// New creates a Renderer for b.
func New(b *site.Build, opts ...Option) (*Renderer, error) {
	r := &Renderer{
		build:   b,
		md:      pipeline.NewMarkdown(),
		styles:  assets.NewEmbeddedLoader(),
		workers: b.Config.Build.Workers,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.layouts == nil {
		var dir string
		if d := filepath.Join(b.Config.Build.Source, assets.DefaultLayoutsDir); fileutil.DirExists(d) {
			dir = d
		}
		resolver, err := assets.NewAssetResolver(dir)
		if err != nil {
			return nil, err
		}
		r.layouts = resolver
	}
	if r.workers < 1 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	return r, nil
}

// Result summarizes a render.
type Result struct {
	Pages    []string // URL paths written, sorted
	Static   int      // Files copied verbatim
	Skipped  int      // Collection items without a layout
	Duration time.Duration
}

// job is one output page.
type job struct {
	view     *PageView
	layout   string
	section  string
	template bool   // Body is a template, not markdown
	pageDir  string // URL directory for relative links in markdown
}

// Render converts every page of the build and the given source tree, then
// replaces the destination directory with the result.
func (r *Renderer) Render(ctx context.Context, tree *loader.SourceTree) (*Result, error) {
	start := time.Now()
	log := r.build.Logger
	if tree == nil {
		tree = &loader.SourceTree{}
	}

	sv := r.siteView()
	jobs, skipped, err := r.plan(sv, tree)
	if err != nil {
		return nil, err
	}

	if err := r.convertBodies(ctx, sv, jobs); err != nil {
		return nil, err
	}

	out, err := newOutputDir(r.build.Config.Build.Destination)
	if err != nil {
		return nil, err
	}
	defer out.discard()

	h := &helpers{cfg: r.build.Config, data: r.build.Data, site: sv}
	cache := newLayoutCache(r.layouts, h.funcMap())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := r.execute(cache, sv, j)
			if err != nil {
				return &PageError{Source: j.view.SourcePath(), URL: j.view.Path(), Err: err}
			}
			if err := out.writePage(j.view.Path(), data); err != nil {
				return err
			}
			log.Debug("page rendered",
				zap.String("url", j.view.Path()),
				zap.String("source", j.view.SourcePath()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	static, err := r.copyStatic(ctx, out, tree.Static)
	if err != nil {
		return nil, err
	}

	if err := out.commit(); err != nil {
		return nil, err
	}

	pages := make([]string, 0, len(jobs))
	for _, j := range jobs {
		pages = append(pages, j.view.Path())
	}
	slices.Sort(pages)

	return &Result{Pages: pages, Static: static, Skipped: skipped, Duration: time.Since(start)}, nil
}

// siteView wraps every collection item. Bodies are filled in later.
func (r *Renderer) siteView() *SiteView {
	cfg := r.build.Config
	sv := &SiteView{
		Title:       cfg.Title,
		BaseURL:     cfg.BaseURL,
		Production:  cfg.Production,
		collections: make(map[string][]*PageView),
		byItem:      make(map[*content.Item]*PageView),
		names:       r.build.Data.Names(),
	}
	for _, name := range sv.names {
		items := r.build.Data.Collection(name).Items()
		views := make([]*PageView, 0, len(items))
		for _, it := range items {
			v := &PageView{site: sv, item: it}
			sv.byItem[it] = v
			views = append(views, v)
		}
		sv.collections[name] = views
	}
	return sv
}

// plan lists the pages to write: collection items with a layout, then
// standalone pages. Two pages claiming one URL is an error.
func (r *Renderer) plan(sv *SiteView, tree *loader.SourceTree) ([]*job, int, error) {
	var jobs []*job
	skipped := 0
	for _, name := range sv.names {
		for _, v := range sv.collections[name] {
			if v.item.Extends() == "" {
				skipped++
				continue
			}
			jobs = append(jobs, &job{
				view:    v,
				layout:  v.item.Extends(),
				section: v.item.Section(),
				pageDir: "/",
			})
		}
	}

	for _, rec := range tree.Pages {
		it := content.NewPage(rec, loader.PagePath(rec.SourcePath))
		jobs = append(jobs, &job{
			view:     &PageView{site: sv, item: it},
			layout:   it.Extends(),
			section:  it.Section(),
			template: loader.IsTemplatePage(rec.SourcePath),
			pageDir:  pageDir(rec.SourcePath),
		})
	}

	seen := make(map[string]string, len(jobs))
	for _, j := range jobs {
		p := j.view.Path()
		if other, dup := seen[p]; dup {
			return nil, 0, fmt.Errorf("%w: %s (%s and %s)", ErrDuplicateOutput, p, other, j.view.SourcePath())
		}
		seen[p] = j.view.SourcePath()
	}
	return jobs, skipped, nil
}

// convertBodies renders every markdown body once: all collection items,
// whether or not they get a page of their own, and markdown pages. Each
// goroutine writes a distinct view; Wait orders the writes before any read.
func (r *Renderer) convertBodies(ctx context.Context, sv *SiteView, jobs []*job) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	convert := func(v *PageView, dir string) {
		g.Go(func() error {
			out, err := r.md.Render(gctx, pipeline.Source{
				Body:  v.item.Body(),
				Dir:   dir,
				Title: v.item.String(content.KeyTitle),
			})
			if err != nil {
				return &PageError{Source: v.SourcePath(), URL: v.Path(), Err: err}
			}
			v.html = template.HTML(out) // #nosec G203 -- markdown output is site content
			return nil
		})
	}

	for _, name := range sv.names {
		for _, v := range sv.collections[name] {
			convert(v, "/")
		}
	}
	for _, j := range jobs {
		if j.view.Collection() == "" && !j.template {
			convert(j.view, j.pageDir)
		}
	}
	return g.Wait()
}

// execute runs the page's template chain and returns the output bytes.
func (r *Renderer) execute(cache *layoutCache, sv *SiteView, j *job) ([]byte, error) {
	data := &PageData{Site: sv, Page: j.view, Content: j.view.html}

	var (
		t   *template.Template
		err error
	)
	switch {
	case j.template:
		t, err = cache.forTemplatePage(j.layout, "page:"+j.view.SourcePath(), j.view.item.Body())
	case j.layout == "":
		// Markdown page without a layout is written as a bare fragment.
		return []byte(j.view.html), nil
	default:
		t, err = cache.forMarkdown(j.layout, j.section)
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecute, err)
	}
	return buf.Bytes(), nil
}

// pageDir returns the URL directory of a page source, with slashes on both
// ends: "about.md" -> "/", "docs/intro.md" -> "/docs/".
func pageDir(sourcePath string) string {
	dir := path.Dir("/" + strings.TrimPrefix(sourcePath, "/"))
	if dir == "/" {
		return dir
	}
	return dir + "/"
}
