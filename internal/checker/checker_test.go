package checker_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"checkgate/internal/checker"
)

type stubExecutor struct {
	code  int
	err   error
	calls int
	reqs  []checker.Request
}

func (s *stubExecutor) Run(_ context.Context, req checker.Request) (int, error) {
	s.calls++
	req.Args = append([]string(nil), req.Args...)
	s.reqs = append(s.reqs, req)
	return s.code, s.err
}

func TestNewRequiresNameAndCommand(t *testing.T) {
	if _, err := checker.New(checker.Definition{Command: "mypy"}); err == nil {
		t.Fatal("expected error for missing name")
	}
	if _, err := checker.New(checker.Definition{Name: "mypy"}); err == nil {
		t.Fatal("expected error for missing command")
	}
}

func TestRunPassesFixedArgsThenPaths(t *testing.T) {
	exec := &stubExecutor{}
	r, err := checker.New(checker.Definition{
		Name:    "pylint",
		Command: "python3",
		Args:    []string{"-m", "pylint"},
		Env:     map[string]string{"PYTHONPATH": "/src", "A": "1"},
	}, checker.WithExecutor(exec), checker.WithWorkDir("/work"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	inv := r.Run(context.Background(), []string{"/src/pkg/base.py", "/src/pkg/tools/"})
	if !inv.Passed() || inv.Status() != 0 {
		t.Fatalf("expected pass, got %+v", inv)
	}
	if inv.Checker != "pylint" {
		t.Fatalf("unexpected checker identity %q", inv.Checker)
	}
	if exec.calls != 1 {
		t.Fatalf("expected one invocation, got %d", exec.calls)
	}
	req := exec.reqs[0]
	wantArgs := []string{"-m", "pylint", "/src/pkg/base.py", "/src/pkg/tools/"}
	if req.Binary != "python3" || !reflect.DeepEqual(req.Args, wantArgs) {
		t.Fatalf("unexpected request %s %v", req.Binary, req.Args)
	}
	if req.Dir != "/work" {
		t.Fatalf("expected workdir /work, got %q", req.Dir)
	}
	if !reflect.DeepEqual(req.Env, []string{"A=1", "PYTHONPATH=/src"}) {
		t.Fatalf("expected sorted env, got %v", req.Env)
	}
}

func TestRunWithNoPaths(t *testing.T) {
	exec := &stubExecutor{}
	r, err := checker.New(checker.Definition{Name: "mypy", Command: "mypy"}, checker.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.Run(context.Background(), nil)
	if exec.calls != 1 || len(exec.reqs[0].Args) != 0 {
		t.Fatalf("expected one call with zero arguments, got %d calls %v", exec.calls, exec.reqs)
	}
}

func TestRunClassifiesFailures(t *testing.T) {
	findings := &stubExecutor{code: 4}
	r, _ := checker.New(checker.Definition{Name: "pylint", Command: "pylint"}, checker.WithExecutor(findings))
	inv := r.Run(context.Background(), nil)
	if inv.Passed() || inv.Kind != checker.FailureFindings || inv.Status() != 4 {
		t.Fatalf("expected findings failure with status 4, got %+v", inv)
	}

	launch := &stubExecutor{code: checker.StatusNotFound, err: errors.New("not found")}
	r, _ = checker.New(checker.Definition{Name: "mypy", Command: "mypy"}, checker.WithExecutor(launch))
	inv = r.Run(context.Background(), nil)
	if inv.Kind != checker.FailureLaunch || inv.Status() != checker.StatusNotFound || inv.Err == nil {
		t.Fatalf("expected launch failure with status 127, got %+v", inv)
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"pylint":     "Pylint",
		"type-check": "Type Check",
		"":           "mypy",
	}
	for name, want := range tests {
		def := checker.Definition{Name: name, Command: "mypy"}
		if got := def.DisplayName(); got != want {
			t.Fatalf("DisplayName(%q) = %q, want %q", name, got, want)
		}
	}
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestCommandExecutorPropagatesExitStatus(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts unavailable")
	}
	dir := t.TempDir()
	script := writeScript(t, dir, "lint", "echo \"findings in $1\"\necho \"env=$GATE_TEST\" >&2\nexit 3\n")

	var stdout, stderr bytes.Buffer
	code, err := checker.CommandExecutor{}.Run(context.Background(), checker.Request{
		Binary: script,
		Args:   []string{"a.file"},
		Env:    []string{"GATE_TEST=yes"},
		Dir:    dir,
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		t.Fatalf("unexpected launch error: %v", err)
	}
	if code != 3 {
		t.Fatalf("expected exit status 3, got %d", code)
	}
	if strings.TrimSpace(stdout.String()) != "findings in a.file" {
		t.Fatalf("stdout not passed through verbatim: %q", stdout.String())
	}
	if strings.TrimSpace(stderr.String()) != "env=yes" {
		t.Fatalf("stderr not passed through verbatim: %q", stderr.String())
	}
}

func TestCommandExecutorMissingBinary(t *testing.T) {
	code, err := checker.CommandExecutor{}.Run(context.Background(), checker.Request{
		Binary: filepath.Join(t.TempDir(), "no-such-checker"),
	})
	if err == nil {
		t.Fatal("expected launch error")
	}
	if code != checker.StatusNotFound {
		t.Fatalf("expected status %d, got %d", checker.StatusNotFound, code)
	}
}

func TestCommandExecutorNotExecutable(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits not enforced")
	}
	path := filepath.Join(t.TempDir(), "lint")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	code, err := checker.CommandExecutor{}.Run(context.Background(), checker.Request{Binary: path})
	if err == nil || code != checker.StatusNotExecutable {
		t.Fatalf("expected status %d with error, got %d (%v)", checker.StatusNotExecutable, code, err)
	}
}
