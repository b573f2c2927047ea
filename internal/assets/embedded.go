package assets

import (
	"embed"
	"fmt"
)

//go:embed styles/*
var styles embed.FS

//go:embed layouts/*
var layouts embed.FS

// EmbeddedLoader loads assets from embedded filesystem.
// Implements AssetLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS style from embedded assets by name.
// The name should not include the .css extension.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	data, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}

	return string(data), nil
}

// LoadLayout loads a built-in layout by name.
func (e *EmbeddedLoader) LoadLayout(name string) (*Layout, error) {
	name = NormalizeLayoutName(name)
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	data, err := layouts.ReadFile("layouts/" + name + ".html")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrLayoutNotFound, name)
	}

	return ParseLayout(name, data)
}

// LayoutNames lists the built-in layouts.
func (e *EmbeddedLoader) LayoutNames() []string {
	entries, err := layouts.ReadDir("layouts")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, NormalizeLayoutName(entry.Name()))
	}
	return names
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
