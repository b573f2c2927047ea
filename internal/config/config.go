package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alnah/go-md2site/internal/content"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound    = errors.New("config file not found")
	ErrEmptyConfigName   = errors.New("config name cannot be empty")
	ErrConfigParse       = errors.New("failed to parse config")
	ErrFieldTooLong      = errors.New("field exceeds maximum length")
	ErrInvalidBuild      = errors.New("invalid build settings")
	ErrInvalidCollection = errors.New("invalid collection")
	ErrInvalidTaxonomy   = errors.New("invalid taxonomy")
)

// Field length limits.
const (
	MaxTitleLength      = 200  // Site title
	MaxURLLength        = 2048 // Browser limit
	MaxPathLength       = 4096 // Filesystem paths
	MaxNameLength       = 64   // Collection and taxonomy names
	MaxTemplateLength   = 256  // Path templates
	MaxLayoutNameLength = 100  // Layout and section names
	MaxWorkers          = 64   // Render workers
	MaxInlineItems      = 10000
)

// Default values.
const (
	DefaultSource      = "source"
	DefaultDestination = "build_local"
	DefaultStagingName = "_staging"
	DefaultTaxonomyKey = "tag"
	DefaultTagLayout   = "tag"
)

// Config holds all configuration for a site build.
type Config struct {
	BaseURL     string                      `yaml:"baseUrl"`
	Production  bool                        `yaml:"production"`
	Title       string                      `yaml:"title"`
	Build       BuildConfig                 `yaml:"build"`
	Collections map[string]CollectionConfig `yaml:"collections"`
	Taxonomies  []TaxonomyConfig            `yaml:"taxonomies"`
}

// BuildConfig defines where content is read, staged, and written.
type BuildConfig struct {
	Source      string `yaml:"source"`      // Site source root (default: "source")
	Destination string `yaml:"destination"` // Output directory (default: "build_local")
	StagingDir  string `yaml:"stagingDir"`  // Empty = <source>/_staging
	Staging     bool   `yaml:"staging"`     // File-backed re-entrant load instead of in-memory
	KeepStaging bool   `yaml:"keepStaging"` // Keep the staging tree after a successful build
	Workers     int    `yaml:"workers"`     // 0 = auto
}

// StagingPath returns the staging root, defaulting under the source tree.
func (b BuildConfig) StagingPath() string {
	if b.StagingDir != "" {
		return b.StagingDir
	}
	return filepath.Join(b.Source, DefaultStagingName)
}

// CollectionConfig describes one collection. Items, when present, are inline
// records that are ingested in addition to the files under source/_<name>/.
type CollectionConfig struct {
	Path    string           `yaml:"path,omitempty"`    // Path template (default: {collection}/{filename})
	Sort    SortSpec         `yaml:"sort,omitempty"`    // "-date" or ["date", "filename"]
	Extends string           `yaml:"extends,omitempty"` // Layout name
	Section string           `yaml:"section,omitempty"` // Template the body is bound to
	Items   []map[string]any `yaml:"items,omitempty"`   // Inline records
}

// SortSpec is a list of sort rules. In YAML it is either a single rule or a
// list of rules.
type SortSpec []string

// UnmarshalYAML accepts a scalar or a sequence.
func (s *SortSpec) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*s = nil
	case string:
		*s = SortSpec{v}
	case []any:
		rules := make(SortSpec, 0, len(v))
		for _, r := range v {
			str, ok := r.(string)
			if !ok {
				return fmt.Errorf("sort rule must be a string, got %T", r)
			}
			rules = append(rules, str)
		}
		*s = rules
	default:
		return fmt.Errorf("sort must be a string or a list, got %T", raw)
	}
	return nil
}

// Keys parses the rules.
func (s SortSpec) Keys() ([]content.SortKey, error) {
	return content.ParseSort(s)
}

// TaxonomyConfig derives a virtual collection from a field of a source
// collection: one item per distinct value.
type TaxonomyConfig struct {
	Name    string `yaml:"name"`              // Name of the derived collection
	Source  string `yaml:"source"`            // Collection scanned for values
	Field   string `yaml:"field,omitempty"`   // Field read on source items (default: name)
	Key     string `yaml:"key,omitempty"`     // Field set on derived items (default: singular of field)
	Extends string `yaml:"extends,omitempty"` // Layout (default: "tag")
	Section string `yaml:"section,omitempty"` // Section (default: same as extends)
	Path    string `yaml:"path,omitempty"`    // Path template (default: <name>/{<key>})
}

// WithDefaults returns a copy with empty fields filled in.
func (t TaxonomyConfig) WithDefaults() TaxonomyConfig {
	if t.Field == "" {
		t.Field = t.Name
	}
	if t.Key == "" {
		t.Key = singular(t.Field)
	}
	if t.Extends == "" {
		t.Extends = DefaultTagLayout
	}
	if t.Section == "" {
		t.Section = t.Extends
	}
	if t.Path == "" {
		t.Path = t.Name + "/{" + t.Key + "}"
	}
	return t
}

// singular derives an item key from a list field name: "tags" -> "tag",
// "categories" -> "category". Names it cannot shorten fall back to "tag".
func singular(field string) string {
	switch {
	case strings.HasSuffix(field, "ies") && len(field) > 3:
		return strings.TrimSuffix(field, "ies") + "y"
	case strings.HasSuffix(field, "s") && len(field) > 1:
		return strings.TrimSuffix(field, "s")
	default:
		return DefaultTaxonomyKey
	}
}

// Taxonomy returns the taxonomy with the given name, with defaults applied.
func (c *Config) Taxonomy(name string) (TaxonomyConfig, bool) {
	for _, t := range c.Taxonomies {
		if t.Name == name {
			return t.WithDefaults(), true
		}
	}
	return TaxonomyConfig{}, false
}

// CollectionNames returns the configured collection names, sorted.
func (c *Config) CollectionNames() []string {
	names := make([]string, 0, len(c.Collections))
	for name := range c.Collections {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate checks field lengths and cross references.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually (e.g., tests, library users).
func (c *Config) Validate() error {
	if err := validateFieldLength("title", c.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("baseUrl", c.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if err := c.validateBuild(); err != nil {
		return err
	}

	for _, name := range c.CollectionNames() {
		if err := validateCollection(name, c.Collections[name]); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(c.Taxonomies))
	for i, t := range c.Taxonomies {
		if err := c.validateTaxonomy(i, t); err != nil {
			return err
		}
		if seen[t.Name] {
			return fmt.Errorf("%w: taxonomies[%d]: duplicate name %q", ErrInvalidTaxonomy, i, t.Name)
		}
		seen[t.Name] = true
	}

	return nil
}

func (c *Config) validateBuild() error {
	b := c.Build
	for field, value := range map[string]string{
		"build.source":      b.Source,
		"build.destination": b.Destination,
		"build.stagingDir":  b.StagingDir,
	} {
		if err := validateFieldLength(field, value, MaxPathLength); err != nil {
			return err
		}
	}
	if b.Source == "" {
		return fmt.Errorf("%w: build.source is required", ErrInvalidBuild)
	}
	if b.Destination == "" {
		return fmt.Errorf("%w: build.destination is required", ErrInvalidBuild)
	}
	if filepath.Clean(b.Source) == filepath.Clean(b.Destination) {
		return fmt.Errorf("%w: build.destination must differ from build.source", ErrInvalidBuild)
	}
	if b.Workers < 0 || b.Workers > MaxWorkers {
		return fmt.Errorf("%w: build.workers must be between 0 and %d, got %d", ErrInvalidBuild, MaxWorkers, b.Workers)
	}
	return nil
}

func validateCollection(name string, cc CollectionConfig) error {
	prefix := "collections." + name
	if err := validateName(prefix, name); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCollection, err)
	}
	if err := validateFieldLength(prefix+".path", cc.Path, MaxTemplateLength); err != nil {
		return err
	}
	if err := validateFieldLength(prefix+".extends", cc.Extends, MaxLayoutNameLength); err != nil {
		return err
	}
	if err := validateFieldLength(prefix+".section", cc.Section, MaxLayoutNameLength); err != nil {
		return err
	}
	if cc.Path != "" {
		if _, err := content.ParsePathTemplate(cc.Path); err != nil {
			return fmt.Errorf("%w: %s.path: %v", ErrInvalidCollection, prefix, err)
		}
	}
	if _, err := cc.Sort.Keys(); err != nil {
		return fmt.Errorf("%w: %s.sort: %v", ErrInvalidCollection, prefix, err)
	}
	if len(cc.Items) > MaxInlineItems {
		return fmt.Errorf("%w: %s.items: %d items (max %d)", ErrInvalidCollection, prefix, len(cc.Items), MaxInlineItems)
	}
	if _, err := cc.InlineRecords(name); err != nil {
		return err
	}
	return nil
}

// reservedTaxonomyKeys are the record fields a derived item sets itself or
// that change how it is built.
var reservedTaxonomyKeys = []string{
	content.KeyTitle,
	content.KeyFilename,
	content.KeyPath,
	content.KeySlug,
	content.KeyExtends,
	content.KeySection,
	KeyContent,
	"collection",
}

func (c *Config) validateTaxonomy(i int, raw TaxonomyConfig) error {
	prefix := fmt.Sprintf("taxonomies[%d]", i)
	if err := validateName(prefix+".name", raw.Name); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTaxonomy, err)
	}
	if _, clash := c.Collections[raw.Name]; clash {
		return fmt.Errorf("%w: %s.name: %q is already an authored collection", ErrInvalidTaxonomy, prefix, raw.Name)
	}
	if raw.Source == "" {
		return fmt.Errorf("%w: %s.source is required", ErrInvalidTaxonomy, prefix)
	}
	if _, ok := c.Collections[raw.Source]; !ok {
		return fmt.Errorf("%w: %s.source: collection %q is not configured", ErrInvalidTaxonomy, prefix, raw.Source)
	}

	t := raw.WithDefaults()
	if err := validateFieldLength(prefix+".path", t.Path, MaxTemplateLength); err != nil {
		return err
	}
	if err := validateFieldLength(prefix+".extends", t.Extends, MaxLayoutNameLength); err != nil {
		return err
	}
	if err := validateFieldLength(prefix+".section", t.Section, MaxLayoutNameLength); err != nil {
		return err
	}
	if slices.Contains(reservedTaxonomyKeys, t.Key) {
		return fmt.Errorf("%w: %s.key: %q is reserved", ErrInvalidTaxonomy, prefix, t.Key)
	}
	pt, err := content.ParsePathTemplate(t.Path)
	if err != nil {
		return fmt.Errorf("%w: %s.path: %v", ErrInvalidTaxonomy, prefix, err)
	}
	fields := pt.Fields()
	if !slices.Contains(fields, t.Key) && !slices.Contains(fields, content.KeyFilename) && !slices.Contains(fields, content.KeySlug) {
		return fmt.Errorf("%w: %s.path: %q must reference {%s}, {slug} or {filename}", ErrInvalidTaxonomy, prefix, t.Path, t.Key)
	}
	return nil
}

// validateName rejects names that cannot be used as a source directory
// suffix (_<name>) or a URL segment.
func validateName(field, name string) error {
	if name == "" {
		return fmt.Errorf("%s is required", field)
	}
	if err := validateFieldLength(field, name, MaxNameLength); err != nil {
		return err
	}
	if fileutil.IsHidden(name) || strings.ContainsAny(name, `/\ {}`) {
		return fmt.Errorf("%s: invalid name %q", field, name)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration: default directories, no
// collections, no taxonomies, in-memory re-entrant loading.
func DefaultConfig() *Config {
	return &Config{
		Build: BuildConfig{
			Source:      DefaultSource,
			Destination: DefaultDestination,
		},
		Collections: map[string]CollectionConfig{},
	}
}

// applyDefaults fills build settings left empty in a config file.
func (c *Config) applyDefaults() {
	if c.Build.Source == "" {
		c.Build.Source = DefaultSource
	}
	if c.Build.Destination == "" {
		c.Build.Destination = DefaultDestination
	}
	if c.Collections == nil {
		c.Collections = map[string]CollectionConfig{}
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a config document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/md2site/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "md2site", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
