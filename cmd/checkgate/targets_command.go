package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"checkgate/internal/gate"
	"checkgate/internal/logging"
)

func newTargetsCommand(ctx *commandContext) *cobra.Command {
	var absolute bool

	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Print the target set handed to every checker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "targets")

			opts := gate.OptionsFromConfig(cfg)
			set := gate.BuildTargets(opts)
			for _, path := range set.Duplicates() {
				logger.Warn("target listed more than once", slog.String("path", path))
			}
			for _, path := range set.Redundant() {
				logger.Warn("target already covered by a directory target", slog.String("path", path))
			}

			paths := set.Paths()
			if absolute {
				paths, err = set.Resolve(opts.WorkDir)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if !logging.IsTerminal(out) {
				for _, path := range paths {
					fmt.Fprintln(out, path)
				}
				return nil
			}

			entries := set.Entries()
			rows := make([][]string, 0, len(paths))
			for i, path := range paths {
				rows = append(rows, []string{strconv.Itoa(i + 1), path, entries[i].Specifier.Kind.String()})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Target", "Kind"}, rows, []columnAlignment{alignRight, alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&absolute, "absolute", false, "Resolve targets against the working directory")
	return cmd
}
