// Package md2site builds a static site from a tree of markdown and HTML
// sources.
//
// # Quick Start
//
// Load a config, create a builder, and build:
//
//	cfg, err := md2site.LoadConfig("site")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	b, err := md2site.NewBuilder(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := b.Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(result.Pages), "pages")
//
// # Build Pipeline
//
// A build runs these stages in order, exactly once:
//
//  1. Authored collections are read from source/_<name>/ and from inline
//     items in the config, sorted, and given output paths and neighbours
//  2. Each taxonomy extracts its facet values (tags) from its source
//     collection and synthesizes one record per value
//  3. The synthesized collection is registered and loaded through the same
//     record pipeline as authored content, in memory or via a staging tree
//  4. The site data is frozen and every page is rendered in parallel
//     against its layout chain, then swapped into the destination
//
// # Configuration
//
// Use functional options to override build settings from the config:
//
//	b, err := md2site.NewBuilder(cfg,
//	    md2site.WithLogger(logger),
//	    md2site.WithWorkers(4),
//	    md2site.WithStaging(true),
//	)
//
// # Templates
//
// Layouts are html/template files under source/_layouts/ with an optional
// "extends" key in their front matter. Built-in layouts (master, post, tag,
// presentation) are used when the site does not provide its own. Templates
// can call postsByTag, tagURL, date, excerpt, where, url and slugify.
//
// # Error Handling
//
// Configuration problems are reported as *ConfigurationError, staging I/O
// failures as *MaterializationError, and template failures as *PageError.
// Use errors.As to inspect them and errors.Is for the sentinel errors.
package md2site
