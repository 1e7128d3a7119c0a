package gate

import (
	"context"
	"log/slog"

	"checkgate/internal/checker"
	"checkgate/internal/logging"
)

// Stage is one step of the pipeline. *checker.Runner satisfies it.
type Stage interface {
	Name() string
	Run(ctx context.Context, paths []string) checker.Invocation
}

// Pipeline runs stages sequentially and stops at the first failure.
type Pipeline struct {
	stages []Stage
	logger *slog.Logger
}

// NewPipeline builds a pipeline that runs stages in the given order.
func NewPipeline(logger *slog.Logger, stages ...Stage) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{stages: append([]Stage(nil), stages...), logger: logger}
}

// Stages returns the stage names in run order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, stage := range p.stages {
		names[i] = stage.Name()
	}
	return names
}

// Run invokes each stage with its own copy of paths. It blocks on every stage
// and never retries.
func (p *Pipeline) Run(ctx context.Context, paths []string) Report {
	report := Report{Invocations: make([]checker.Invocation, 0, len(p.stages))}
	for i, stage := range p.stages {
		p.logger.Info("running checker",
			slog.String(logging.FieldChecker, stage.Name()),
			slog.Int("targets", len(paths)),
		)

		inv := stage.Run(ctx, append([]string(nil), paths...))
		if inv.Checker == "" {
			inv.Checker = stage.Name()
		}
		report.Invocations = append(report.Invocations, inv)

		if inv.Passed() {
			p.logger.Info("checker passed",
				slog.String(logging.FieldChecker, inv.Checker),
				slog.Duration("duration", inv.Duration),
			)
			continue
		}

		report.ExitCode = inv.Status()
		for _, rest := range p.stages[i+1:] {
			report.Skipped = append(report.Skipped, rest.Name())
		}
		attrs := []any{
			slog.String(logging.FieldChecker, inv.Checker),
			slog.Int(logging.FieldExitCode, report.ExitCode),
			slog.String("failure", inv.Kind.String()),
			slog.Any("skipped", report.Skipped),
		}
		if inv.Err != nil {
			attrs = append(attrs, logging.Error(inv.Err))
		}
		p.logger.Info("checker failed; stopping", attrs...)
		return report
	}
	return report
}
