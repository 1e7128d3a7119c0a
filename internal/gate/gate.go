package gate

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"checkgate/internal/checker"
	"checkgate/internal/config"
	"checkgate/internal/failure"
	"checkgate/internal/logging"
	"checkgate/internal/targets"
)

// Options configures a Gate.
type Options struct {
	PackageRoot     string
	WorkDir         string
	Targets         []targets.Specifier
	Checkers        []checker.Definition
	ValidateTargets bool
	Exclusive       bool
	LockPath        string

	Executor checker.Executor
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
}

// OptionsFromConfig maps a loaded configuration onto gate options.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{}
	}
	defs := make([]checker.Definition, 0, len(cfg.Checkers))
	for _, c := range cfg.Checkers {
		defs = append(defs, checker.Definition{
			Name:    c.Name,
			Role:    c.Role,
			Command: c.Command,
			Args:    append([]string(nil), c.Args...),
			Env:     c.Env,
		})
	}
	return Options{
		PackageRoot:     cfg.Package.Root,
		WorkDir:         cfg.Package.WorkDir,
		Targets:         append([]targets.Specifier(nil), cfg.Targets...),
		Checkers:        defs,
		ValidateTargets: cfg.TargetOptions.Validate,
		Exclusive:       cfg.Run.Exclusive,
		LockPath:        cfg.Run.LockPath,
	}
}

// Gate runs every checker against one package's target set.
type Gate struct {
	opts   Options
	set    targets.Set
	stages []Stage
	logger *slog.Logger
}

// New validates options and prepares one runner per checker.
func New(opts Options) (*Gate, error) {
	if len(opts.Checkers) == 0 {
		return nil, failure.Wrap(failure.ErrConfiguration, "gate", "setup", "at least one checker is required", nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	runnerOpts := []checker.Option{
		checker.WithWorkDir(opts.WorkDir),
		checker.WithStdio(opts.Stdin, opts.Stdout, opts.Stderr),
	}
	if opts.Executor != nil {
		runnerOpts = append(runnerOpts, checker.WithExecutor(opts.Executor))
	}

	stages := make([]Stage, 0, len(opts.Checkers))
	for _, def := range opts.Checkers {
		runner, err := checker.New(def, runnerOpts...)
		if err != nil {
			return nil, failure.Wrap(failure.ErrConfiguration, "gate", "setup", "", err)
		}
		stages = append(stages, runner)
	}

	return &Gate{
		opts:   opts,
		set:    BuildTargets(opts),
		stages: stages,
		logger: logging.NewComponentLogger(logger, "gate"),
	}, nil
}

// BuildTargets builds the target set opts describe without touching the
// filesystem.
func BuildTargets(opts Options) targets.Set {
	return targets.Build(opts.PackageRoot, opts.Targets)
}

// Targets returns the built target set.
func (g *Gate) Targets() targets.Set { return g.set }

// Checkers returns checker names in run order.
func (g *Gate) Checkers() []string {
	names := make([]string, len(g.stages))
	for i, stage := range g.stages {
		names[i] = stage.Name()
	}
	return names
}

// Validate checks the configured specifiers against the package tree.
func (g *Gate) Validate() error {
	if err := targets.Validate(g.opts.WorkDir, g.opts.PackageRoot, g.opts.Targets); err != nil {
		return fmt.Errorf("validate targets: %w", err)
	}
	return nil
}

// Run executes the pipeline once. The returned error is an *ExitError when a
// checker failed; other errors mean no checker ran.
func (g *Gate) Run(ctx context.Context) (Report, error) {
	runID := uuid.NewString()
	logger := g.logger.With(slog.String(logging.FieldRunID, runID))

	if g.opts.ValidateTargets {
		if err := g.Validate(); err != nil {
			return Report{RunID: runID}, err
		}
	}
	for _, path := range g.set.Duplicates() {
		logger.Warn("target listed more than once", slog.String("path", path))
	}
	for _, path := range g.set.Redundant() {
		logger.Warn("target already covered by a directory target", slog.String("path", path))
	}

	if g.opts.Exclusive {
		lockPath := g.opts.LockPath
		if lockPath == "" {
			lockPath = DefaultLockPath(g.opts.WorkDir, g.opts.PackageRoot)
		}
		lock, err := acquireLock(lockPath)
		if err != nil {
			return Report{RunID: runID}, err
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				logger.Warn("failed to release run lock", slog.String("lock", lockPath), logging.Error(err))
			}
		}()
	}

	paths, err := g.set.Resolve(g.opts.WorkDir)
	if err != nil {
		return Report{RunID: runID}, err
	}
	logger.Debug("resolved targets", slog.Any("paths", paths))

	report := NewPipeline(logger, g.stages...).Run(ctx, paths)
	report.RunID = runID
	report.Targets = paths
	return report, report.Err()
}
