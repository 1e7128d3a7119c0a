// Package gate runs the configured checkers against the target set and
// decides whether the gate passes.
//
// A Pipeline is an ordered list of Stages. Every stage receives its own copy
// of the same resolved path list, stages run one at a time, and the first
// stage that does not exit zero ends the run: later stages are recorded as
// skipped, never invoked. The Report's exit code is zero only when every
// stage ran and passed; otherwise it is the first non-zero status.
//
// Gate wires configuration to a Pipeline: it builds the target set, optionally
// validates it against the package tree, optionally takes an exclusive lock on
// the package root, and returns an *ExitError the CLI turns into the process
// exit status.
package gate
