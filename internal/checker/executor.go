package checker

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"syscall"
)

const (
	// StatusNotExecutable follows the shell convention for a command that
	// exists but cannot be run.
	StatusNotExecutable = 126
	// StatusNotFound follows the shell convention for a missing command.
	StatusNotFound = 127
)

// Request is one subprocess invocation.
type Request struct {
	Binary string
	Args   []string
	Env    []string
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Executor abstracts command execution for testability. Run blocks until the
// process exits and returns its exit status. A non-nil error means the process
// could not be started; the returned status is still non-zero in that case.
type Executor interface {
	Run(ctx context.Context, req Request) (int, error)
}

// CommandExecutor runs checkers as real subprocesses.
type CommandExecutor struct{}

// Run implements Executor.
func (CommandExecutor) Run(ctx context.Context, req Request) (int, error) {
	cmd := exec.CommandContext(ctx, req.Binary, req.Args...) //nolint:gosec
	cmd.Dir = req.Dir
	if len(req.Env) > 0 {
		cmd.Env = append(os.Environ(), req.Env...)
	}
	cmd.Stdin = req.Stdin
	cmd.Stdout = req.Stdout
	cmd.Stderr = req.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code, nil
		}
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return 128 + int(status.Signal()), nil
		}
		return 1, nil
	}
	return launchStatus(err), err
}

func launchStatus(err error) int {
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return StatusNotFound
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.ENOEXEC):
		return StatusNotExecutable
	default:
		return 1
	}
}
