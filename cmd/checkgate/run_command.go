package main

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"checkgate/internal/config"
	"checkgate/internal/failure"
	"checkgate/internal/gate"
	"checkgate/internal/logging"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var packageRoot string
	var workDir string
	var noValidate bool
	var exclusive bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every checker over the target set, stopping at the first failure",
		Long: "Run invokes each configured checker in order with the full target set as\n" +
			"arguments. Checker output passes through unchanged. The command exits with\n" +
			"status zero when every checker passed, otherwise with the status of the\n" +
			"first checker that failed; later checkers are not run.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			opts := gate.OptionsFromConfig(cfg)
			if root := strings.TrimSpace(packageRoot); root != "" {
				opts.PackageRoot = root
			}
			if dir := strings.TrimSpace(workDir); dir != "" {
				expanded, err := config.ExpandPath(dir)
				if err != nil {
					return failure.Wrap(failure.ErrConfiguration, "run", "workdir", "", err)
				}
				opts.WorkDir = expanded
			}
			if noValidate {
				opts.ValidateTargets = false
			}
			if exclusive {
				opts.Exclusive = true
			}
			opts.Stdin = cmd.InOrStdin()
			opts.Stdout = cmd.OutOrStdout()
			opts.Stderr = cmd.ErrOrStderr()
			opts.Logger = logger

			g, err := gate.New(opts)
			if err != nil {
				return err
			}
			report, err := g.Run(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("gate passed",
				slog.String(logging.FieldRunID, report.RunID),
				slog.Int("checkers", len(report.Invocations)),
				slog.Int("targets", len(report.Targets)),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&packageRoot, "package-root", "", "Override the package root every target is prefixed with")
	cmd.Flags().StringVar(&workDir, "workdir", "", "Directory the checkers run in")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "Skip target validation and hand paths to the checkers as-is")
	cmd.Flags().BoolVar(&exclusive, "exclusive", false, "Refuse to start while another run holds the package root's lock")
	return cmd
}
