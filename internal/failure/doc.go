// Package failure defines the error markers shared across checkgate and the
// mapping from a failed command to the process exit status.
//
// Markers are attached with Wrap and recovered with errors.Is; ExitStatus
// turns any error returned by the CLI into the status the process exits
// with. A checker failure carries its own status through the ExitStatuser
// interface so the gate's status is always the first failing checker's.
package failure
