// Package checker invokes one external static-analysis tool against a list of
// paths and reports how it terminated.
//
// A Definition names the tool and the fixed arguments placed before the
// target paths. Runner executes it through an Executor, streaming the tool's
// stdout and stderr straight through to the caller untouched; the only thing
// read back is the exit status, captured in an Invocation.
package checker
