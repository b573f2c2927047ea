// Package render turns the frozen site data into the output tree.
//
// Rendering runs in two parallel phases bounded by the worker limit:
//
//  1. Every collection item body is converted from markdown once, so that
//     any page can show any item's content or excerpt.
//  2. Every item with a layout and every standalone page is executed
//     against its layout chain and written to a staging output directory.
//
// The output directory replaces the destination only when every page
// succeeded; a failed build leaves the previous output in place.
//
// Layouts are html/template sources. A chain is parsed root-first so child
// layouts override the blocks of their parents, and the page body is bound
// last to the template named by the page's section.
package render
