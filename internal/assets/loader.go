package assets

// AssetLoader defines the contract for loading page layouts.
type AssetLoader interface {
	// LoadLayout loads a layout by name (without .html extension).
	// Returns ErrLayoutNotFound if the layout doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadLayout(name string) (*Layout, error)
}
