package preflight

import (
	"checkgate/internal/config"
	"checkgate/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Report groups filesystem checks with checker availability.
type Report struct {
	Checks   []Result
	Checkers []deps.Status
}

// Ready reports whether every check passed and no required checker is missing.
func (r Report) Ready() bool {
	for _, check := range r.Checks {
		if !check.Passed {
			return false
		}
	}
	return len(deps.Missing(r.Checkers)) == 0
}

// RunAll executes every preflight check for the given config.
func RunAll(cfg *config.Config) Report {
	if cfg == nil {
		return Report{}
	}

	var report Report
	report.Checks = append(report.Checks, CheckDirectoryAccess("Working directory", cfg.Package.WorkDir))
	report.Checks = append(report.Checks, CheckDirectoryAccess("Package root", PackageRootPath(cfg)))
	report.Checks = append(report.Checks, CheckTargets(cfg))
	report.Checkers = CheckCheckers(cfg)
	return report
}
