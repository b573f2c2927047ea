package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/content"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage      = errors.New("invalid usage")
	ErrNoTaxonomy = errors.New("no taxonomy configured")
)

// hintFor returns an actionable hint for err, or "".
func (c *cli) hintFor(err error) string {
	var matErr *md2site.MaterializationError
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(configSearchPaths(c.configName()))
	case errors.Is(err, md2site.ErrLayoutNotFound):
		return hints.ForLayoutNotFound(assets.NewEmbeddedLoader().LayoutNames())
	case errors.Is(err, md2site.ErrDuplicateOutput), errors.Is(err, content.ErrDuplicatePath):
		return hints.ForDuplicateOutput()
	case errors.As(err, &matErr):
		return hints.ForStaging(c.stagingDir)
	case errors.Is(err, md2site.ErrUnknownTaxonomy), errors.Is(err, ErrNoTaxonomy):
		return hints.ForUnknownTaxonomy(c.taxonomies)
	case errors.Is(err, os.ErrNotExist) && strings.Contains(err.Error(), "source directory"):
		return hints.ForSourceNotFound()
	case errors.Is(err, os.ErrPermission):
		return hints.ForOutputDirectory()
	}
	return ""
}

func (c *cli) configName() string {
	if name := c.v.GetString("config"); name != "" {
		return name
	}
	return defaultConfigName
}

// configSearchPaths mirrors the lookup order of config.LoadConfig.
func configSearchPaths(name string) []string {
	if fileutil.IsFilePath(name) {
		return []string{name}
	}
	paths := []string{name + ".yaml", name + ".yml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths,
			filepath.Join(dir, "md2site", name+".yaml"),
			filepath.Join(dir, "md2site", name+".yml"))
	}
	return paths
}
