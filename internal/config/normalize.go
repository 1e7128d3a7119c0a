package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// normalize trims values, applies environment fallbacks, and resolves the
// working directory. baseDir is the directory of the loaded config file, or
// empty when defaults were used.
func (c *Config) normalize(baseDir string) error {
	if err := c.normalizePackage(baseDir); err != nil {
		return err
	}
	c.normalizeCheckers()
	c.normalizeLogging()
	return c.normalizeRun(baseDir)
}

func (c *Config) normalizePackage(baseDir string) error {
	c.Package.Root = expandHome(strings.TrimSpace(c.Package.Root))
	if c.Package.Root != "" {
		c.Package.Root = filepath.Clean(c.Package.Root)
	}

	workDir := expandHome(strings.TrimSpace(c.Package.WorkDir))
	switch {
	case workDir == "" && baseDir != "":
		workDir = baseDir
	case workDir == "":
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("package.workdir: %w", err)
		}
		workDir = wd
	case !filepath.IsAbs(workDir) && baseDir != "":
		workDir = filepath.Join(baseDir, workDir)
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return fmt.Errorf("package.workdir: %w", err)
	}
	c.Package.WorkDir = abs
	return nil
}

func (c *Config) normalizeCheckers() {
	for i := range c.Checkers {
		ch := &c.Checkers[i]
		ch.Name = strings.TrimSpace(ch.Name)
		ch.Role = strings.ToLower(strings.TrimSpace(ch.Role))
		ch.Command = expandHome(strings.TrimSpace(ch.Command))
	}
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("CHECKGATE_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	if value, ok := os.LookupEnv("CHECKGATE_LOG_FORMAT"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Format = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}

func (c *Config) normalizeRun(baseDir string) error {
	lockPath := expandHome(strings.TrimSpace(c.Run.LockPath))
	if lockPath == "" {
		c.Run.LockPath = ""
		return nil
	}
	if !filepath.IsAbs(lockPath) && baseDir != "" {
		lockPath = filepath.Join(baseDir, lockPath)
	}
	abs, err := filepath.Abs(lockPath)
	if err != nil {
		return fmt.Errorf("run.lock_path: %w", err)
	}
	c.Run.LockPath = abs
	return nil
}
