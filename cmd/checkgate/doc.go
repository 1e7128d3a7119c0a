// Package main hosts the checkgate CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, builds the gate from it,
// and maps the outcome onto the process exit status: a failing checker's own
// status, 2 for configuration or target errors, 3 when doctor finds the gate
// cannot run, and 1 for anything else.
//
// Keep this package lean: behaviour belongs in the internal packages and is
// surfaced here through commands and flags.
package main
