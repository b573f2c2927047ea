package assets

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// mapLoader serves layouts from memory.
type mapLoader map[string]string

func (m mapLoader) LoadLayout(name string) (*Layout, error) {
	name = NormalizeLayoutName(name)
	src, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLayoutNotFound, name)
	}
	return ParseLayout(name, []byte(src))
}

func TestNormalizeLayoutName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"post", "post"},
		{"post.html", "post"},
		{"_layouts.post", "post"},
		{"_layouts/post", "post"},
		{"_layouts/post.html", "post"},
		{"  master ", "master"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeLayoutName(tt.input); got != tt.want {
				t.Errorf("NormalizeLayoutName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		want    *Layout
		wantErr error
	}{
		{
			name: "root layout",
			data: "<html></html>",
			want: &Layout{Name: "base", Source: "<html></html>"},
		},
		{
			name: "extends normalized",
			data: "---\nextends: _layouts.master\n---\nbody",
			want: &Layout{Name: "base", Extends: "master", Source: "body"},
		},
		{
			name:    "extends must be a string",
			data:    "---\nextends: [a, b]\n---\nbody",
			wantErr: ErrInvalidLayout,
		},
		{
			name:    "self extension",
			data:    "---\nextends: base\n---\nbody",
			wantErr: ErrLayoutCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLayout("base", []byte(tt.data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseLayout() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLayout() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseLayout() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChain(t *testing.T) {
	t.Parallel()

	loader := mapLoader{
		"master": "<html>{{block \"content\" .}}{{end}}</html>",
		"post":   "---\nextends: master\n---\n{{define \"content\"}}{{block \"post\" .}}{{end}}{{end}}",
		"slide":  "---\nextends: post\n---\n{{define \"post\"}}slide{{end}}",
		"loopA":  "---\nextends: loopB\n---\na",
		"loopB":  "---\nextends: loopA\n---\nb",
		"orphan": "---\nextends: missing\n---\nx",
	}

	tests := []struct {
		name    string
		layout  string
		want    []string
		wantErr error
	}{
		{name: "root only", layout: "master", want: []string{"master"}},
		{name: "root first", layout: "slide", want: []string{"master", "post", "slide"}},
		{name: "cycle", layout: "loopA", wantErr: ErrLayoutCycle},
		{name: "missing parent", layout: "orphan", wantErr: ErrLayoutNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chain, err := Chain(loader, tt.layout)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Chain() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Chain() error = %v", err)
			}

			var got []string
			for _, l := range chain {
				got = append(got, l.Name)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Chain() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
