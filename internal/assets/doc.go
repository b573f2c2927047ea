// Package assets provides page layouts and stylesheets for site rendering.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (default layouts)
//	    ├── FilesystemLoader  - loads from the site's _layouts directory
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in layouts (master, post, tag,
// presentation) and the default stylesheet, embedded at compile time.
//
// FilesystemLoader reads layouts authored with the site, with path traversal
// protection and symlink resolution.
//
// AssetResolver is the loader used by the renderer. It tries the site's
// layouts first, falling back to the embedded ones when a layout is not
// found. A site can override one layout and keep the other defaults.
//
// # Layout Files
//
// A layout is an html/template source with optional front matter:
//
//	---
//	extends: master
//	---
//	{{define "content"}}<article>{{block "post" .}}{{end}}</article>{{end}}
//
// Layout references accept the forms "post", "post.html", "_layouts.post"
// and "_layouts/post"; NormalizeLayoutName reduces them to the bare name.
//
// # Security
//
// Layout names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
