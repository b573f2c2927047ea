package assets

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeLayout(t *testing.T, dir, name, data string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".html"), []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write layout: %v", err)
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if loader == nil {
			t.Fatal("NewFilesystemLoader() returned nil")
		}
	})

	t.Run("empty path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader("")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader(\"\") error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("nonexistent directory returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader("/nonexistent/path/abc123xyz")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory returns error", func(t *testing.T) {
		t.Parallel()

		filePath := filepath.Join(t.TempDir(), "file.txt")
		if err := os.WriteFile(filePath, []byte("test"), 0o644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		_, err := NewFilesystemLoader(filePath)
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_LoadLayout(t *testing.T) {
	t.Parallel()

	t.Run("loads layout with front matter", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeLayout(t, dir, "note", "---\nextends: _layouts.master\n---\n{{define \"content\"}}note{{end}}")

		loader, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}

		l, err := loader.LoadLayout("note")
		if err != nil {
			t.Fatalf("LoadLayout() error = %v", err)
		}
		if l.Extends != "master" {
			t.Errorf("Extends = %q, want %q", l.Extends, "master")
		}
		if l.Source != `{{define "content"}}note{{end}}` {
			t.Errorf("Source = %q", l.Source)
		}
	})

	t.Run("loads layout without front matter", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeLayout(t, dir, "bare", "<html>{{block \"content\" .}}{{end}}</html>")

		loader, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}

		l, err := loader.LoadLayout("_layouts/bare")
		if err != nil {
			t.Fatalf("LoadLayout() error = %v", err)
		}
		if !l.IsRoot() {
			t.Errorf("Extends = %q, want root layout", l.Extends)
		}
	})

	t.Run("missing layout returns ErrLayoutNotFound", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}

		_, err = loader.LoadLayout("missing")
		if !errors.Is(err, ErrLayoutNotFound) {
			t.Errorf("LoadLayout() error = %v, want ErrLayoutNotFound", err)
		}
	})

	t.Run("unclosed front matter returns ErrInvalidLayout", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeLayout(t, dir, "broken", "---\nextends: master\n<html>")

		loader, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}

		_, err = loader.LoadLayout("broken")
		if !errors.Is(err, ErrInvalidLayout) {
			t.Errorf("LoadLayout() error = %v, want ErrInvalidLayout", err)
		}
	})

	t.Run("symlink escaping base returns ErrPathTraversal", func(t *testing.T) {
		t.Parallel()
		if runtime.GOOS == "windows" {
			t.Skip("symlinks require privileges on windows")
		}

		outside := t.TempDir()
		writeLayout(t, outside, "secret", "secret")

		dir := t.TempDir()
		if err := os.Symlink(filepath.Join(outside, "secret.html"), filepath.Join(dir, "evil.html")); err != nil {
			t.Fatalf("failed to create symlink: %v", err)
		}

		loader, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}

		_, err = loader.LoadLayout("evil")
		if !errors.Is(err, ErrPathTraversal) {
			t.Errorf("LoadLayout() error = %v, want ErrPathTraversal", err)
		}
	})
}
