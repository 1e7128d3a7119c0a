package checker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Option configures a Runner.
type Option func(*Runner)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithWorkDir sets the directory the checker runs in. Checkers find their
// own configuration files (pylintrc, mypy.ini, ...) relative to it.
func WithWorkDir(dir string) Option {
	return func(r *Runner) {
		r.dir = dir
	}
}

// WithStdio overrides the streams the checker inherits.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdin = stdin
		if stdout != nil {
			r.stdout = stdout
		}
		if stderr != nil {
			r.stderr = stderr
		}
	}
}

// Runner invokes a single checker.
type Runner struct {
	def    Definition
	exec   Executor
	dir    string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

// New constructs a Runner for def.
func New(def Definition, opts ...Option) (*Runner, error) {
	def.Name = strings.TrimSpace(def.Name)
	def.Command = strings.TrimSpace(def.Command)
	if def.Name == "" {
		return nil, errors.New("checker name required")
	}
	if def.Command == "" {
		return nil, fmt.Errorf("checker %s: command required", def.Name)
	}
	r := &Runner{
		def:    def,
		exec:   CommandExecutor{},
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Name returns the checker identity.
func (r *Runner) Name() string { return r.def.Name }

// Run invokes the checker once with every path as an argument and waits for
// it to exit. An empty path list still invokes the checker.
func (r *Runner) Run(ctx context.Context, paths []string) Invocation {
	start := r.now()
	code, err := r.exec.Run(ctx, Request{
		Binary: r.def.Command,
		Args:   r.def.Argv(paths),
		Env:    r.def.Environ(),
		Dir:    r.dir,
		Stdin:  r.stdin,
		Stdout: r.stdout,
		Stderr: r.stderr,
	})

	inv := Invocation{
		Checker:  r.def.Name,
		ExitCode: code,
		Duration: r.now().Sub(start),
	}
	switch {
	case err != nil:
		inv.Kind = FailureLaunch
		inv.Err = fmt.Errorf("launch %s: %w", r.def.Command, err)
		if inv.ExitCode == 0 {
			inv.ExitCode = 1
		}
	case code != 0:
		inv.Kind = FailureFindings
	}
	return inv
}
