package preflight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"checkgate/internal/config"
	"checkgate/internal/deps"
	"checkgate/internal/targets"
)

// CheckDirectoryAccess verifies that the directory exists and can be listed.
// Checkers only read the tree, so write access is not required.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckTargets validates every configured target against the package tree.
// It runs even when validation is disabled for gate runs.
func CheckTargets(cfg *config.Config) Result {
	const name = "Targets"

	if len(cfg.Targets) == 0 {
		return Result{Name: name, Passed: true, Detail: "no targets configured; checkers run without paths"}
	}
	err := targets.Validate(cfg.Package.WorkDir, cfg.Package.Root, cfg.Targets)
	if err == nil {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d target(s) resolve", len(cfg.Targets))}
	}

	var targetErr *targets.TargetError
	count := 0
	for _, line := range strings.Split(err.Error(), "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	if count == 1 && errors.As(err, &targetErr) {
		return Result{Name: name, Detail: fmt.Sprintf("%s: %s", targetErr.Specifier, targetErr.Reason)}
	}
	return Result{Name: name, Detail: fmt.Sprintf("%d problem(s): %s", count, strings.ReplaceAll(err.Error(), "\n", "; "))}
}

// CheckCheckers looks up the executable behind every configured checker. For
// checkers run as an interpreter module the detail notes that the module
// itself was not checked.
func CheckCheckers(cfg *config.Config) []deps.Status {
	requirements := make([]deps.Requirement, 0, len(cfg.Checkers))
	for _, c := range cfg.Checkers {
		requirements = append(requirements, deps.Requirement{
			Name:        c.Name,
			Command:     c.Command,
			Description: describeRole(c.Role),
		})
	}
	statuses := deps.CheckBinaries(requirements)
	for i, c := range cfg.Checkers {
		if module := interpreterModule(c.Args); module != "" && statuses[i].Available {
			statuses[i].Detail = fmt.Sprintf("module %s not verified", module)
		}
	}
	return statuses
}

// interpreterModule returns the module named by a leading "-m <module>", as
// in "python3 -m pylint". Only the interpreter is looked up on PATH.
func interpreterModule(args []string) string {
	if len(args) >= 2 && args[0] == "-m" {
		return strings.TrimSpace(args[1])
	}
	return ""
}

// PackageRootPath returns the package root resolved against the working
// directory.
func PackageRootPath(cfg *config.Config) string {
	root := cfg.Package.Root
	if !filepath.IsAbs(root) && cfg.Package.WorkDir != "" {
		root = filepath.Join(cfg.Package.WorkDir, root)
	}
	return root
}

func describeRole(role string) string {
	switch role {
	case config.RoleLint:
		return "Required for lint checks"
	case config.RoleTypecheck:
		return "Required for type checks"
	case "":
		return "Required checker"
	default:
		return fmt.Sprintf("Required for %s checks", role)
	}
}
