package gate

import (
	"fmt"

	"checkgate/internal/checker"
)

// Report summarizes one gate run.
type Report struct {
	RunID       string
	Targets     []string
	Invocations []checker.Invocation
	Skipped     []string
	ExitCode    int
}

// Passed reports whether every stage ran and exited zero.
func (r Report) Passed() bool {
	return r.ExitCode == 0 && len(r.Skipped) == 0
}

// Failure returns the invocation that stopped the run.
func (r Report) Failure() (checker.Invocation, bool) {
	for _, inv := range r.Invocations {
		if !inv.Passed() {
			return inv, true
		}
	}
	return checker.Invocation{}, false
}

// Err converts a failed report into an *ExitError.
func (r Report) Err() error {
	inv, failed := r.Failure()
	if !failed {
		return nil
	}
	return &ExitError{Checker: inv.Checker, Code: r.ExitCode, Kind: inv.Kind, Err: inv.Err}
}

// ExitError carries the exit status of the first failing checker.
type ExitError struct {
	Checker string
	Code    int
	Kind    checker.FailureKind
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("checker %s failed with exit status %d: %v", e.Checker, e.Code, e.Err)
	}
	return fmt.Sprintf("checker %s failed with exit status %d", e.Checker, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitStatus returns the status the gate process should exit with.
func (e *ExitError) ExitStatus() int { return e.Code }

// Silent reports whether the checker produced its own output. A checker that
// never launched did not.
func (e *ExitError) Silent() bool { return e.Kind != checker.FailureLaunch }
