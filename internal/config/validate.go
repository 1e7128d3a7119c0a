package config

import (
	"errors"
	"fmt"
	"strings"

	"checkgate/internal/logging"
)

// Validate ensures the configuration is usable. Target paths are checked
// against the filesystem separately, by the gate.
func (c *Config) Validate() error {
	if err := c.validatePackage(); err != nil {
		return err
	}
	if err := c.validateCheckers(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePackage() error {
	if strings.TrimSpace(c.Package.Root) == "" {
		return errors.New("package.root must be set")
	}
	return nil
}

func (c *Config) validateCheckers() error {
	if len(c.Checkers) == 0 {
		return errors.New("at least one [[checkers]] entry is required")
	}
	seen := make(map[string]struct{}, len(c.Checkers))
	for i, ch := range c.Checkers {
		if ch.Name == "" {
			return fmt.Errorf("checkers[%d].name must be set", i)
		}
		if _, dup := seen[ch.Name]; dup {
			return fmt.Errorf("checkers[%d].name %q is used more than once", i, ch.Name)
		}
		seen[ch.Name] = struct{}{}
		if ch.Command == "" {
			return fmt.Errorf("checkers.%s.command must be set", ch.Name)
		}
		for key := range ch.Env {
			if strings.TrimSpace(key) == "" || strings.ContainsAny(key, "= \t") {
				return fmt.Errorf("checkers.%s.env has invalid variable name %q", ch.Name, key)
			}
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if !logging.ValidFormat(c.Logging.Format) {
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
