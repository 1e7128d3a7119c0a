package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"checkgate/internal/checker"
	"checkgate/internal/config"
	"checkgate/internal/deps"
	"checkgate/internal/failure"
	"checkgate/internal/logging"
	"checkgate/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the package tree and every checker executable are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := logging.IsTerminal(out)

			report := preflight.RunAll(cfg)
			lines := renderSectionHeader("Checkgate doctor", colorize)
			source := ctx.configPath
			if !ctx.configExists {
				source = "built-in defaults"
			}
			lines = append(lines, renderStatusLine("Config", statusInfo, source, colorize))
			for _, check := range report.Checks {
				kind := statusOK
				if !check.Passed {
					kind = statusError
				}
				lines = append(lines, renderStatusLine(check.Name, kind, check.Detail, colorize))
			}
			lines = append(lines, dependencyLines(report.Checkers, colorize)...)
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable(
				[]string{"Order", "Checker", "Role", "Invocation"},
				checkerRows(cfg),
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))

			if report.Ready() {
				return nil
			}
			problems := len(deps.Missing(report.Checkers))
			for _, check := range report.Checks {
				if !check.Passed {
					problems++
				}
			}
			return failure.Wrap(failure.ErrUnavailable, "doctor", "", fmt.Sprintf("%d problem(s) found", problems), nil)
		},
	}
}

func dependencyLines(statuses []deps.Status, colorize bool) []string {
	lines := make([]string, 0, len(statuses)+1)
	missing := make([]string, 0)
	for _, dep := range statuses {
		if dep.Available {
			var notes []string
			if dep.Path != "" {
				notes = append(notes, "command: "+dep.Path)
			}
			if detail := strings.TrimSpace(dep.Detail); detail != "" {
				notes = append(notes, detail)
			}
			message := "Ready"
			if len(notes) > 0 {
				message = fmt.Sprintf("Ready (%s)", strings.Join(notes, "; "))
			}
			lines = append(lines, renderStatusLine(dep.Name, statusOK, message, colorize))
			continue
		}

		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if dep.Optional {
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(dep.Name, kind, detail, colorize))
		if !dep.Optional {
			missing = append(missing, dep.Name)
		}
	}
	if len(missing) > 0 {
		lines = append(lines, renderStatusLine("Missing checkers", statusWarn, strings.Join(missing, ", "), colorize))
	}
	return lines
}

func checkerRows(cfg *config.Config) [][]string {
	rows := make([][]string, 0, len(cfg.Checkers))
	for i, c := range cfg.Checkers {
		def := checker.Definition{Name: c.Name, Role: c.Role, Command: c.Command, Args: c.Args}
		role := c.Role
		if role == "" {
			role = "-"
		}
		invocation := strings.Join(def.Argv([]string{"<targets>"}), " ")
		rows = append(rows, []string{fmt.Sprint(i + 1), def.DisplayName(), role, c.Command + " " + invocation})
	}
	return rows
}
