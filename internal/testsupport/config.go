package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"checkgate/internal/config"
	"checkgate/internal/targets"
)

const callLogName = "calls.log"

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// Stub describes a fake checker executable. It records its argv in the call
// log, prints Output to stdout, and exits with Exit.
type Stub struct {
	Name   string
	Exit   int
	Output string
}

// NewConfig produces a config rooted in a fresh temp directory. The package
// tree for the default targets is created so validation passes, and both
// default checkers are replaced by passing stubs.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Package.WorkDir = base
	cfgVal.Package.Root = filepath.Join(base, "pkg")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	builder.cfg.Checkers = []config.Checker{
		builder.stub(Stub{Name: "pylint"}),
		builder.stub(Stub{Name: "mypy"}),
	}

	for _, opt := range opts {
		opt(builder)
	}

	WriteTree(t, builder.cfg.Package.Root, builder.cfg.Targets...)
	return builder.cfg
}

// WithTargets replaces the target specifiers. Each one is created in the
// package tree.
func WithTargets(raw ...string) ConfigOption {
	return func(b *configBuilder) {
		specs := make([]targets.Specifier, 0, len(raw))
		for _, r := range raw {
			spec, err := targets.ParseSpecifier(r)
			if err != nil {
				b.t.Fatalf("parse target %q: %v", r, err)
			}
			specs = append(specs, spec)
		}
		b.cfg.Targets = specs
	}
}

// WithCheckers replaces the configured checkers with stub scripts, in order.
func WithCheckers(stubs ...Stub) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Checkers = b.cfg.Checkers[:0]
		for _, s := range stubs {
			b.cfg.Checkers = append(b.cfg.Checkers, b.stub(s))
		}
	}
}

// WithStubbedBinaries writes passing stub executables for the provided names
// and prepends them to PATH for the rest of the test. Use it for checkers
// configured by bare command name.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "path-bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

func (b *configBuilder) stub(s Stub) config.Checker {
	b.t.Helper()
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	logPath := filepath.Join(b.baseDir, callLogName)

	var script strings.Builder
	script.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&script, "printf '%%s' '%s' >> '%s'\n", s.Name, logPath)
	fmt.Fprintf(&script, "for arg in \"$@\"; do printf '\\t%%s' \"$arg\" >> '%s'; done\n", logPath)
	fmt.Fprintf(&script, "printf '\\n' >> '%s'\n", logPath)
	if s.Output != "" {
		fmt.Fprintf(&script, "printf '%%s\\n' '%s'\n", s.Output)
	}
	fmt.Fprintf(&script, "exit %d\n", s.Exit)

	path := filepath.Join(binDir, s.Name)
	if err := os.WriteFile(path, []byte(script.String()), 0o755); err != nil {
		b.t.Fatalf("write stub %s: %v", s.Name, err)
	}
	return config.Checker{Name: s.Name, Command: path}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return cfg.Package.WorkDir
}
