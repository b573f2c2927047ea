// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and, when one of the searched paths is in the user
// config directory, creating the file there.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/site.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "md2site") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForSourceNotFound returns hints for a missing source directory.
func ForSourceNotFound() string {
	return format("run from the site root, or set build.source, --source or MD2SITE_SOURCE")
}

// ForLayoutNotFound lists the layouts that can be extended.
func ForLayoutNotFound(available []string) string {
	if len(available) == 0 {
		return format("add the layout under source/_layouts/")
	}
	return format("available: " + strings.Join(available, ", ") + "; or add it under source/_layouts/")
}

// ForStaging returns hints for staging directory failures.
func ForStaging(stagingDir string) string {
	var hints []string
	if stagingDir != "" {
		hints = append(hints, "check that "+stagingDir+" is writable")
	}
	hints = append(hints, "set build.staging: false to derive collections in memory")
	return formatHints(hints)
}

// ForDuplicateOutput returns hints for two pages mapping to one URL.
func ForDuplicateOutput() string {
	return format("rename one of the sources or change the collection's path template")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForUnknownTaxonomy lists the configured taxonomies.
func ForUnknownTaxonomy(available []string) string {
	if len(available) == 0 {
		return format("no taxonomies configured; add one under taxonomies: in site.yaml")
	}
	return format("configured: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
