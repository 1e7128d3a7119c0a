package config

import "checkgate/internal/targets"

const (
	defaultPackageRoot = "qubesadmin"
	defaultLogLevel    = "warn"
	defaultLogFormat   = "console"
	projectConfigName  = "checkgate"
	userConfigPath     = "~/.config/checkgate/config.toml"
)

// Default returns a Config populated with the built-in gate: pylint then mypy
// over the modules of the qubesadmin package that are ready for checking.
func Default() Config {
	return Config{
		Package: Package{
			Root: defaultPackageRoot,
		},
		Targets: targets.MustParse(
			"tools/qvm_check.py",
			"base.py",
			"features.py",
			"label.py",
			"storage.py",
		),
		TargetOptions: TargetOptions{
			Validate: true,
		},
		Checkers: []Checker{
			{
				Name:    "pylint",
				Role:    RoleLint,
				Command: "python3",
				Args:    []string{"-m", "pylint"},
			},
			{
				Name:    "mypy",
				Role:    RoleTypecheck,
				Command: "python3",
				Args:    []string{"-m", "mypy"},
			},
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
