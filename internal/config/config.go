package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"checkgate/internal/failure"
	"checkgate/internal/targets"
)

//go:embed sample_config.toml
var sampleConfig string

// ErrInvalid marks every error caused by configuration content rather than by
// the environment.
var ErrInvalid = failure.ErrConfiguration

// Checker roles. They are descriptive only; run order is the list order.
const (
	RoleLint      = "lint"
	RoleTypecheck = "typecheck"
)

// Package locates the source package under check.
type Package struct {
	// Root is the package's top-level directory. Every target is prefixed
	// with it. Relative roots are resolved against WorkDir.
	Root string `toml:"root" yaml:"root"`
	// WorkDir is where checkers run and where they find their own
	// configuration files. Defaults to the config file's directory.
	WorkDir string `toml:"workdir,omitempty" yaml:"workdir,omitempty"`
}

// TargetOptions controls load-time target validation.
type TargetOptions struct {
	Validate bool `toml:"validate" yaml:"validate"`
}

// Checker declares one external checker.
type Checker struct {
	Name    string            `toml:"name" yaml:"name"`
	Role    string            `toml:"role,omitempty" yaml:"role,omitempty"`
	Command string            `toml:"command" yaml:"command"`
	Args    []string          `toml:"args,omitempty" yaml:"args,omitempty"`
	Env     map[string]string `toml:"env,omitempty" yaml:"env,omitempty"`
}

// Logging contains configuration for checkgate's own diagnostics.
type Logging struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Run contains per-run behaviour.
type Run struct {
	// Exclusive serializes gate runs on the same package root.
	Exclusive bool   `toml:"exclusive" yaml:"exclusive"`
	LockPath  string `toml:"lock_path,omitempty" yaml:"lock_path,omitempty"`
}

// Config encapsulates all configuration values for checkgate.
type Config struct {
	Package       Package             `toml:"package" yaml:"package"`
	Targets       []targets.Specifier `toml:"targets" yaml:"targets"`
	TargetOptions TargetOptions       `toml:"target_options" yaml:"target_options"`
	Checkers      []Checker           `toml:"checkers" yaml:"checkers"`
	Logging       Logging             `toml:"logging" yaml:"logging"`
	Run           Run                 `toml:"run" yaml:"run"`
}

// DefaultConfigPath returns the absolute path of the per-user configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath(userConfigPath)
}

// Load locates, parses, and validates a configuration file. When no file
// exists the built-in defaults are used. It returns the config, the path that
// was considered, and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	defaults := Default()
	cfg := defaults
	cfg.Targets = nil
	cfg.Checkers = nil

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		if err := decodeFile(resolvedPath, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	if cfg.Targets == nil {
		cfg.Targets = defaults.Targets
	}
	if cfg.Checkers == nil {
		cfg.Checkers = defaults.Checkers
	}

	baseDir := ""
	if exists {
		baseDir = filepath.Dir(resolvedPath)
	}
	if err := cfg.normalize(baseDir); err != nil {
		return nil, "", false, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return &cfg, resolvedPath, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if isYAML(path) {
		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse config: %w", err)
		}
		return nil
	}

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("parse config: %s", strings.TrimSpace(strict.String()))
		}
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		path = strings.TrimSpace(os.Getenv("CHECKGATE_CONFIG"))
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	var candidates []string
	for _, ext := range []string{".toml", ".yaml", ".yml"} {
		projectPath, err := filepath.Abs(projectConfigName + ext)
		if err != nil {
			return "", false, err
		}
		candidates = append(candidates, projectPath)
	}
	userPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	candidates = append(candidates, userPath)

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return candidates[0], false, nil
}

// Encode writes the configuration as TOML, or YAML when format is "yaml".
func (c *Config) Encode(w io.Writer, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml", "yml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(c); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return encoder.Close()
	case "toml", "":
		encoder := toml.NewEncoder(w)
		encoder.SetIndentTables(true)
		if err := encoder.Encode(c); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	pathValue = expandHome(pathValue)
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

func expandHome(pathValue string) string {
	if !strings.HasPrefix(pathValue, "~") {
		return pathValue
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return pathValue
	}
	if pathValue == "~" {
		return home
	}
	if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
		return filepath.Join(home, pathValue[2:])
	}
	return pathValue
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
