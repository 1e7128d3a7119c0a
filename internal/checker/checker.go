package checker

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Definition describes one configured checker.
type Definition struct {
	Name    string
	Role    string
	Command string
	Args    []string
	Env     map[string]string
}

// DisplayName returns a human-facing label such as "Pylint" for "pylint".
func (d Definition) DisplayName() string {
	name := strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(d.Name))
	if name == "" {
		return d.Command
	}
	return cases.Title(language.Und).String(name)
}

// Argv returns the fixed arguments followed by the target paths.
func (d Definition) Argv(paths []string) []string {
	argv := make([]string, 0, len(d.Args)+len(paths))
	argv = append(argv, d.Args...)
	argv = append(argv, paths...)
	return argv
}

// Environ renders Env as sorted KEY=VALUE pairs.
func (d Definition) Environ() []string {
	if len(d.Env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(d.Env))
	for key := range d.Env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, key+"="+d.Env[key])
	}
	return out
}

// FailureKind separates "ran and reported findings" from "never ran". Both are
// fatal to the gate and share the same exit-status channel.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureFindings
	FailureLaunch
)

func (k FailureKind) String() string {
	switch k {
	case FailureFindings:
		return "findings"
	case FailureLaunch:
		return "launch"
	default:
		return "none"
	}
}

// Invocation records how one checker run terminated.
type Invocation struct {
	Checker  string
	ExitCode int
	Kind     FailureKind
	Duration time.Duration
	Err      error
}

// Passed reports whether the checker exited zero.
func (i Invocation) Passed() bool {
	return i.ExitCode == 0 && i.Err == nil
}

// Status returns the exit status the gate should propagate. A failed
// invocation never reports zero.
func (i Invocation) Status() int {
	if i.Passed() {
		return 0
	}
	if i.ExitCode == 0 {
		return 1
	}
	return i.ExitCode
}
