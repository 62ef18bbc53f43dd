package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediabackup/internal/organizer"
	"mediabackup/internal/preflight"
	"mediabackup/internal/stage"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var paths pathFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify directories and external tools before a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.invocationConfig()
			if err != nil {
				return err
			}
			if err := paths.apply(cfg); err != nil {
				return err
			}
			logger, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			org := organizer.New(cfg, logger)

			configDetail := ctx.configPath
			if !ctx.configExists {
				configDetail = "defaults (no file at " + ctx.configPath + ")"
			}

			var required int64
			if preview, err := org.Scan(cmd.Context()); err == nil {
				required = preview.TotalBytes
			}
			results := preflight.RunAll(cfg, required)

			lines := renderSectionHeader("Configuration", colorize)
			lines = append(lines, renderStatusLine("Config", statusInfo, configDetail, colorize))
			lines = append(lines, renderStatusLine("Dry run default", statusInfo, yesNo(cfg.Organize.DryRun), colorize))
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Preflight", colorize)...)
			lines = append(lines, preflightLines(results, colorize)...)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Components", colorize)...)
			lines = append(lines, healthLines(stage.CheckAll(cmd.Context(), org.Components()...), colorize)...)
			printLines(out, lines)

			if err := preflight.Blocking(results); err != nil {
				return fmt.Errorf("check failed: %w", err)
			}
			return nil
		},
	}

	paths.register(cmd)
	return cmd
}
