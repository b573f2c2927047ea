package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestNewAssetResolver(t *testing.T) {
	t.Parallel()

	t.Run("empty path uses embedded only", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver("")
		if err != nil {
			t.Fatalf("NewAssetResolver(\"\") error = %v", err)
		}
		if resolver.HasCustomLoader() {
			t.Error("expected no custom loader for empty path")
		}
	})

	t.Run("valid custom path", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver(t.TempDir())
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		if !resolver.HasCustomLoader() {
			t.Error("expected custom loader for valid path")
		}
	})

	t.Run("invalid custom path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewAssetResolver("/nonexistent/path/abc123xyz")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewAssetResolver() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestAssetResolver_LoadLayout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLayout(t, dir, "master", "<html><body class=\"custom\">{{block \"content\" .}}{{end}}</body></html>")
	writeLayout(t, dir, "bad name", "x")

	resolver, err := NewAssetResolver(dir)
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}

	t.Run("site layout overrides embedded", func(t *testing.T) {
		t.Parallel()

		l, err := resolver.LoadLayout("master")
		if err != nil {
			t.Fatalf("LoadLayout() error = %v", err)
		}
		if !strings.Contains(l.Source, `class="custom"`) {
			t.Errorf("expected site master layout, got %q", l.Source)
		}
	})

	t.Run("falls back to embedded", func(t *testing.T) {
		t.Parallel()

		l, err := resolver.LoadLayout("post")
		if err != nil {
			t.Fatalf("LoadLayout() error = %v", err)
		}
		if l.Extends != "master" {
			t.Errorf("Extends = %q, want master", l.Extends)
		}
	})

	t.Run("chain mixes site and embedded layouts", func(t *testing.T) {
		t.Parallel()

		chain, err := Chain(resolver, "post")
		if err != nil {
			t.Fatalf("Chain() error = %v", err)
		}
		if len(chain) != 2 {
			t.Fatalf("Chain() len = %d, want 2", len(chain))
		}
		if !strings.Contains(chain[0].Source, `class="custom"`) {
			t.Error("chain root should be the site master layout")
		}
	})

	t.Run("validation errors do not fall back", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.LoadLayout("bad name")
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadLayout() error = %v, want ErrInvalidAssetName", err)
		}
	})

	t.Run("unknown everywhere", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.LoadLayout("gallery")
		if !errors.Is(err, ErrLayoutNotFound) {
			t.Errorf("LoadLayout() error = %v, want ErrLayoutNotFound", err)
		}
	})
}

func TestAssetResolver_LoadStyle(t *testing.T) {
	t.Parallel()

	resolver, err := NewAssetResolver("")
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}

	css, err := resolver.LoadStyle(DefaultStyleName)
	if err != nil {
		t.Fatalf("LoadStyle() error = %v", err)
	}
	if !strings.Contains(css, ".markdown") {
		t.Error("default style should style .markdown content")
	}
}
