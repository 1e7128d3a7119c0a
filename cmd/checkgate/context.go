package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"checkgate/internal/config"
	"checkgate/internal/failure"
	"checkgate/internal/logging"
)

type globalFlags struct {
	config    string
	logLevel  string
	logFormat string
	verbose   bool
}

type commandContext struct {
	flags *globalFlags

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// resolvedLogLevel applies the flag precedence: --log-level, then --verbose,
// then the configured level.
func (c *commandContext) resolvedLogLevel(cfg *config.Config) string {
	if level := strings.TrimSpace(c.flags.logLevel); level != "" {
		return level
	}
	if c.flags.verbose {
		return "info"
	}
	if cfg != nil {
		return cfg.Logging.Level
	}
	return ""
}

func (c *commandContext) resolvedLogFormat(cfg *config.Config) string {
	if format := strings.TrimSpace(c.flags.logFormat); format != "" {
		return format
	}
	if cfg != nil {
		return cfg.Logging.Format
	}
	return ""
}

// logger builds checkgate's own diagnostic logger. It always writes to the
// command's stderr so stdout carries nothing but checker output.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg := c.configValue()
	logger, err := logging.New(logging.Options{
		Level:  c.resolvedLogLevel(cfg),
		Format: c.resolvedLogFormat(cfg),
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, failure.Wrap(failure.ErrConfiguration, "cli", "setup logging", "", err)
	}
	return logger, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
