package assets

import (
	"errors"
)

// AssetResolver combines site and embedded loaders with fallback logic.
// When a site layouts directory is configured, it tries that first, then
// falls back to embedded if the layout is not found there.
type AssetResolver struct {
	custom   AssetLoader // nil if the site has no layouts directory
	embedded *EmbeddedLoader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded layouts are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadLayout loads a layout, trying the site loader first if available.
func (r *AssetResolver) LoadLayout(name string) (*Layout, error) {
	if r.custom == nil {
		return r.embedded.LoadLayout(name)
	}

	l, err := r.custom.LoadLayout(name)
	if err == nil {
		return l, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors
	if !isNotFoundError(err) {
		return nil, err
	}

	return r.embedded.LoadLayout(name)
}

// LoadStyle loads a built-in stylesheet.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.embedded.LoadStyle(name)
}

// isNotFoundError checks if the error indicates the asset was not found.
func isNotFoundError(err error) bool {
	return errors.Is(err, ErrLayoutNotFound) || errors.Is(err, ErrStyleNotFound)
}

// HasCustomLoader returns true if a site layouts directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
