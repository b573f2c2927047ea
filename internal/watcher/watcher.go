// Package watcher reports batches of changed files under a source tree.
//
// Events from fsnotify are collected until the tree has been quiet for the
// debounce delay, then handed to the callback as one sorted batch. New
// directories are watched as they appear.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay is the quiet period before a batch is delivered.
const DefaultDelay = 200 * time.Millisecond

// ErrNotDirectory is returned when the watched root is not a directory.
var ErrNotDirectory = errors.New("watch root is not a directory")

// Filter reports whether a path should be ignored.
type Filter func(path string) bool

// Handler receives one debounced batch of changed paths.
type Handler func(ctx context.Context, paths []string) error

// Watcher watches a directory tree recursively.
type Watcher struct {
	root    string
	delay   time.Duration
	ignores []Filter
	log     *zap.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithIgnore adds a filter. Ignored directories are not descended into.
func WithIgnore(f Filter) Option {
	return func(w *Watcher) { w.ignores = append(w.ignores, f) }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// New returns a watcher for root.
func New(root string, opts ...Option) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watching %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}
	w := &Watcher{
		root:    filepath.Clean(root),
		delay:   DefaultDelay,
		ignores: []Filter{EditorTemp},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run watches until ctx is done, calling h once per debounced batch.
// Handler errors are logged and watching continues. Run returns nil when
// ctx is canceled.
func (w *Watcher) Run(ctx context.Context, h Handler) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.root); err != nil {
		return err
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.ignored(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(fsw, ev.Name); err != nil {
						w.log.Warn("watching new directory", zap.String("path", ev.Name), zap.Error(err))
					}
				}
			}
			pending[ev.Name] = struct{}{}
			timer.Reset(w.delay)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			slices.Sort(paths)

			w.log.Debug("change batch", zap.Int("paths", len(paths)))
			if err := h(ctx, paths); err != nil {
				w.log.Error("change handler failed", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.ignored(path) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) ignored(path string) bool {
	for _, f := range w.ignores {
		if f(path) {
			return true
		}
	}
	return false
}

// EditorTemp matches swap and backup files written by editors.
func EditorTemp(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#")
}

// Under returns a filter matching dir and everything below it.
func Under(dir string) Filter {
	dir = filepath.Clean(dir)
	return func(path string) bool {
		path = filepath.Clean(path)
		return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
	}
}
