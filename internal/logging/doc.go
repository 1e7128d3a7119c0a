// Package logging assembles the structured slog loggers used by checkgate.
//
// Diagnostics from checkgate itself always go to stderr so they never mix
// with a checker's stdout. The console format renders compact key=value
// lines; the json format is meant for CI log collectors. Prefer these
// constructors over hand-rolled slog setup so every component tags its lines
// with the same run and component fields.
package logging
