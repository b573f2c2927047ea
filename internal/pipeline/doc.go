// Package pipeline turns markdown bodies into HTML fragments for layouts.
//
// The stages run in order for every markdown page and collection item:
//   - Markdown preprocessing (line normalization, ==highlight== syntax)
//   - Markdown to HTML conversion via Goldmark, with GFM and Chroma highlighting
//   - Highlight placeholder finalization
//   - Relative URL rewriting against the page's source directory
//
// Template pages (.html) skip this package; they are executed by the
// renderer directly. Text extraction for excerpts lives here as well since it
// operates on the converted HTML.
package pipeline
