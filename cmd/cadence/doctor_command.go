package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cadence/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, the release queue, and profile configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			printLines(out, renderSectionHeader("Configuration", colorize)...)
			configDetail := ctx.configPath
			if !ctx.configExists {
				configDetail += " (not found; using defaults)"
			}
			printLines(out, renderStatusLine("Config file", statusInfo, configDetail, colorize))

			printLines(out, renderSectionHeader("Checks", colorize)...)
			failed := 0
			for _, result := range preflight.RunAll(commandCtx(cmd), cfg, logger) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failed++
				}
				printLines(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}
