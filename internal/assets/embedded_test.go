package assets

import (
	"slices"
	"testing"
)

func TestEmbeddedLoader_LayoutNames(t *testing.T) {
	t.Parallel()

	names := NewEmbeddedLoader().LayoutNames()
	for _, want := range []string{"master", "post", "presentation", "tag"} {
		if !slices.Contains(names, want) {
			t.Errorf("LayoutNames() = %v, missing %q", names, want)
		}
	}
}

func TestEmbeddedLoader_LayoutsChainToRoot(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()
	for _, name := range loader.LayoutNames() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			chain, err := Chain(loader, name)
			if err != nil {
				t.Fatalf("Chain(%q) error = %v", name, err)
			}
			if !chain[0].IsRoot() {
				t.Errorf("Chain(%q)[0] = %q, want a root layout", name, chain[0].Name)
			}
			if last := chain[len(chain)-1].Name; last != name {
				t.Errorf("Chain(%q) ends with %q", name, last)
			}
		})
	}
}
