// Package targets assembles the ordered set of paths handed to every checker.
//
// A Specifier is one hand-maintained entry relative to the package root: a
// directory (trailing slash, meaning everything beneath it) or an individual
// file. Build prefixes each specifier with the package root without touching
// the filesystem, so the same inputs always yield the same Set. Validate is the
// separate, optional load-time pass that confirms every specifier exists inside
// the package tree and is readable.
package targets
