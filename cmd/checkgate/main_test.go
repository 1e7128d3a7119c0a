package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"checkgate/internal/checker"
	"checkgate/internal/config"
	"checkgate/internal/failure"
	"checkgate/internal/targets"
	"checkgate/internal/testsupport"
)

func isolateCLI(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub checkers need /bin/sh")
	}
	home := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("CHECKGATE_CONFIG", "")
	t.Setenv("CHECKGATE_LOG_LEVEL", "")
	t.Setenv("CHECKGATE_LOG_FORMAT", "")
}

func writeTestConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	var buf bytes.Buffer
	if err := cfg.Encode(&buf, "toml"); err != nil {
		t.Fatalf("encode config: %v", err)
	}
	path := filepath.Join(testsupport.BaseDir(cfg), "checkgate.toml")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestRunPassesAndForwardsCheckerOutput(t *testing.T) {
	isolateCLI(t)
	cfg := testsupport.NewConfig(t, testsupport.WithCheckers(
		testsupport.Stub{Name: "pylint", Output: "Your code has been rated at 10.00/10"},
		testsupport.Stub{Name: "mypy", Output: "Success: no issues found in 5 source files"},
	))
	path := writeTestConfig(t, cfg)

	out, stderr, err := runCLI(t, []string{"run"}, path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "rated at 10.00/10")
	requireContains(t, out, "Success: no issues found")
	if stderr != "" {
		t.Fatalf("expected a quiet passing run, got stderr %q", stderr)
	}
	calls := testsupport.Calls(t, cfg)
	if len(calls) != 2 || len(calls[0].Args) != len(cfg.Targets) {
		t.Fatalf("expected both checkers with every target, got %+v", calls)
	}
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	isolateCLI(t)
	cfg := testsupport.NewConfig(t, testsupport.WithCheckers(
		testsupport.Stub{Name: "pylint", Exit: 3, Output: "base.py:1:0: C0114"},
		testsupport.Stub{Name: "mypy"},
	))
	path := writeTestConfig(t, cfg)

	out, _, err := runCLI(t, []string{"run"}, path)
	if err == nil {
		t.Fatal("expected failure")
	}
	if code := failure.ExitStatus(err); code != 3 {
		t.Fatalf("expected exit status 3, got %d (%v)", code, err)
	}
	if !failure.Silent(err) {
		t.Fatalf("checker failures should not be printed again: %v", err)
	}
	requireContains(t, out, "C0114")
	if calls := testsupport.Calls(t, cfg); len(calls) != 1 || calls[0].Checker != "pylint" {
		t.Fatalf("mypy must not run after pylint fails, got %+v", calls)
	}
}

func TestExecuteReportsCheckerThatCannotStart(t *testing.T) {
	isolateCLI(t)
	cfg := testsupport.NewConfig(t)
	missing := filepath.Join(testsupport.BaseDir(cfg), "absent", "pylint")
	cfg.Checkers[0].Command = missing
	path := writeTestConfig(t, cfg)

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--config", path, "run"})

	code := execute(cmd, &stderr)
	if code != checker.StatusNotFound {
		t.Fatalf("expected status %d, got %d", checker.StatusNotFound, code)
	}
	requireContains(t, stderr.String(), missing)
	requireContains(t, stderr.String(), "checker pylint failed")
	if calls := testsupport.Calls(t, cfg); len(calls) != 0 {
		t.Fatalf("mypy must not run after pylint fails to start, got %+v", calls)
	}
}

func TestExecuteStaysQuietForFindings(t *testing.T) {
	isolateCLI(t)
	cfg := testsupport.NewConfig(t, testsupport.WithCheckers(
		testsupport.Stub{Name: "pylint", Exit: 4},
		testsupport.Stub{Name: "mypy"},
	))
	path := writeTestConfig(t, cfg)

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--config", path, "run"})

	if code := execute(cmd, &stderr); code != 4 {
		t.Fatalf("expected status 4, got %d", code)
	}
	if stderr.Len() != 0 {
		t.Fatalf("expected checkgate to add nothing to the checker's output, got %q", stderr.String())
	}
}

func TestRunVerboseLogsToStderr(t *testing.T) {
	isolateCLI(t)
	cfg := testsupport.NewConfig(t)
	path := writeTestConfig(t, cfg)

	out, stderr, err := runCLI(t, []string{"-v", "run"}, path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, stderr, "running checker")
	requireContains(t, stderr, "gate passed")
	if strings.Contains(out, "running checker") {
		t.Fatalf("diagnostics leaked into stdout: %q", out)
	}
}

func TestRunInvalidTargetExitsWithUsageStatus(t *testing.T) {
	isolateCLI(t)
	cfg := testsupport.NewConfig(t)
	cfg.Targets = append(cfg.Targets, targets.File("removed.py"))
	path := writeTestConfig(t, cfg)

	_, _, err := runCLI(t, []string{"run"}, path)
	if !errors.Is(err, targets.ErrInvalidTarget) {
		t.Fatalf("expected invalid target error, got %v", err)
	}
	if code := failure.ExitStatus(err); code != failure.StatusUsage {
		t.Fatalf("expected status %d, got %d", failure.StatusUsage, code)
	}
	if calls := testsupport.Calls(t, cfg); len(calls) != 0 {
		t.Fatalf("no checker should run, got %+v", calls)
	}

	if _, _, err := runCLI(t, []string{"run", "--no-validate"}, path); err != nil {
		t.Fatalf("expected --no-validate to hand paths through, got %v", err)
	}
	calls := testsupport.Calls(t, cfg)
	if len(calls) != 2 || !strings.HasSuffix(calls[0].Args[len(calls[0].Args)-1], "removed.py") {
		t.Fatalf("expected removed.py passed to checkers, got %+v", calls)
	}
}

func TestRunPackageRootOverride(t *testing.T) {
	isolateCLI(t)
	cfg := testsupport.NewConfig(t, testsupport.WithTargets("a.file"))
	path := writeTestConfig(t, cfg)
	other := filepath.Join(testsupport.BaseDir(cfg), "other")
	testsupport.WriteTree(t, other, targets.File("a.file"))

	if _, _, err := runCLI(t, []string{"run", "--package-root", other}, path); err != nil {
		t.Fatalf("run: %v", err)
	}
	calls := testsupport.Calls(t, cfg)
	if len(calls) == 0 || calls[0].Args[0] != filepath.Join(other, "a.file") {
		t.Fatalf("expected override root in arguments, got %+v", calls)
	}
}

func TestInvalidConfigExitsWithUsageStatus(t *testing.T) {
	isolateCLI(t)
	path := filepath.Join(t.TempDir(), "checkgate.toml")
	if err := os.WriteFile(path, []byte("targets = [\"../escape.py\"]\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, err := runCLI(t, []string{"run"}, path)
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected invalid config, got %v", err)
	}
	if code := failure.ExitStatus(err); code != failure.StatusUsage {
		t.Fatalf("expected status %d, got %d", failure.StatusUsage, code)
	}
}

func TestTargetsPrintsOnePathPerLine(t *testing.T) {
	isolateCLI(t)
	cfg := testsupport.NewConfig(t, testsupport.WithTargets("tools/", "base.py", "base.py"))
	path := writeTestConfig(t, cfg)

	out, stderr, err := runCLI(t, []string{"targets"}, path)
	if err != nil {
		t.Fatalf("targets: %v", err)
	}
	root := cfg.Package.Root
	want := strings.Join([]string{
		root + string(filepath.Separator) + "tools" + string(filepath.Separator),
		filepath.Join(root, "base.py"),
		filepath.Join(root, "base.py"),
	}, "\n") + "\n"
	if out != want {
		t.Fatalf("unexpected targets output\n got: %q\nwant: %q", out, want)
	}
	requireContains(t, stderr, "target listed more than once")
	if calls := testsupport.Calls(t, cfg); len(calls) != 0 {
		t.Fatalf("targets must not run checkers, got %+v", calls)
	}
}

func TestDoctor(t *testing.T) {
	isolateCLI(t)
	cfg := testsupport.NewConfig(t)
	path := writeTestConfig(t, cfg)

	out, _, err := runCLI(t, []string{"doctor"}, path)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	requireContains(t, out, "== Checkgate doctor ==")
	requireContains(t, out, "[OK] Ready (command:")
	requireContains(t, out, "Pylint")

	cfg.Checkers[1].Args = []string{"-m", "mypy"}
	path = writeTestConfig(t, cfg)
	out, _, err = runCLI(t, []string{"doctor"}, path)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	requireContains(t, out, "; module mypy not verified)")

	cfg.Checkers = append(cfg.Checkers, config.Checker{Name: "ruff", Command: "checkgate-missing-ruff"})
	path = writeTestConfig(t, cfg)
	out, _, err = runCLI(t, []string{"doctor"}, path)
	if code := failure.ExitStatus(err); code != failure.StatusUnavailable {
		t.Fatalf("expected status %d, got %d (%v)", failure.StatusUnavailable, code, err)
	}
	requireContains(t, out, "Missing checkers")
	requireContains(t, out, "checkgate-missing-ruff")
}

func TestConfigInitValidateAndShow(t *testing.T) {
	isolateCLI(t)
	target := filepath.Join(t.TempDir(), "checkgate.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Checkers: pylint -> mypy")

	out, _, err = runCLI(t, []string{"config", "show", "--format", "yaml"}, target)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "# source: "+target)
	requireContains(t, out, "- tools/qvm_check.py")
}

func TestRenderStatusLine(t *testing.T) {
	got := renderStatusLine("Package root", statusError, "missing", false)
	want := "  Package root:        [ERROR] missing"
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
	colored := renderStatusLine("mypy", statusOK, "Ready", true)
	if !strings.HasPrefix(colored, "\x1b[32m") || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected green line, got %q", colored)
	}
}

func TestRenderTablePadsRows(t *testing.T) {
	out := renderTable([]string{"#", "Target"}, [][]string{{"1"}}, []columnAlignment{alignRight})
	requireContains(t, out, "Target")
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty table without headers")
	}
}
