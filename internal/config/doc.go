// Package config loads, normalizes, and validates checkgate configuration.
//
// It supplies built-in defaults, expands user paths (including tilde
// shortcuts), reads TOML or YAML files, and honours environment fallbacks such
// as CHECKGATE_LOG_LEVEL. The Config type describes the package root, the
// typed target specifiers, and the ordered checker list in one place.
//
// Always obtain settings through this package so the gate receives cleaned
// paths, an absolute working directory, and clear validation errors.
package config
