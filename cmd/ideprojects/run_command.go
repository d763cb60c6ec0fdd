package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ideprojects/internal/config"
	"ideprojects/internal/export"
	"ideprojects/internal/history"
	"ideprojects/internal/report"
)

// runDefault performs one scan in the mode selected by configuration.
func runDefault(cmd *cobra.Command, cc *commandContext) error {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return err
	}
	logger, runID, err := cc.runLogger(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	mode := history.ModeInteractive
	if cfg.SilentMode() {
		mode = history.ModeSilent
	} else {
		fmt.Fprintln(out, "Scanning JetBrains IDE configurations...")
	}

	run, err := scan(ctx, cfg, logger, runID, mode)
	if err != nil {
		return err
	}

	exporter := export.New(cfg, "", logger)
	if cfg.SilentMode() {
		if _, err := exporter.Export(ctx, run.col.Records); err != nil {
			return err
		}
		run.recordHistory(ctx, nil, exporter.Path())
		return nil
	}

	global := run.col.Global(nil)
	if err := report.New(cfg).Render(out, run.col.Grouped(nil), global); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if _, err := exporter.Export(ctx, run.col.Records); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nExported to %s\n", exporter.Path())
	run.recordHistory(ctx, global, exporter.Path())
	return nil
}

func newReportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the recent projects report without exporting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, runID, err := ctx.runLogger(cmd)
			if err != nil {
				return err
			}
			run, err := scan(cmd.Context(), cfg, logger, runID, history.ModeReport)
			if err != nil {
				return err
			}
			global := run.col.Global(nil)
			if err := report.New(cfg).Render(cmd.OutOrStdout(), run.col.Grouped(nil), global); err != nil {
				return fmt.Errorf("render report: %w", err)
			}
			run.recordHistory(cmd.Context(), global, "")
			return nil
		},
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the JSON export without printing the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, runID, err := ctx.runLogger(cmd)
			if err != nil {
				return err
			}
			run, err := scan(cmd.Context(), cfg, logger, runID, history.ModeExport)
			if err != nil {
				return err
			}
			target := output
			if target != "" {
				if target, err = config.ExpandPath(target); err != nil {
					return fmt.Errorf("resolve --output: %w", err)
				}
			}
			exporter := export.New(cfg, target, logger)
			count, err := exporter.Export(cmd.Context(), run.col.Records)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d projects to %s\n", count, exporter.Path())
			run.recordHistory(cmd.Context(), nil, exporter.Path())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (overrides export.path and JSON_OUTPUT_PATH)")
	return cmd
}
