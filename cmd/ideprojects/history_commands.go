package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ideprojects/internal/config"
	"ideprojects/internal/history"
	"ideprojects/internal/report"
)

const shortIDLength = 8

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect stored scan runs",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))

	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored scan runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					formatRunTime(run.StartedAt),
					run.Mode,
					strconv.Itoa(run.Projects),
					strconv.Itoa(run.Existing),
					strconv.Itoa(run.Failures),
				})
			}
			fmt.Fprintln(out, report.Table(
				[]string{"Run", "Started", "Mode", "Projects", "On disk", "Failures"},
				rows,
				[]report.Alignment{report.AlignLeft, report.AlignLeft, report.AlignLeft, report.AlignRight, report.AlignRight, report.AlignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the projects captured by a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			run, projects, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:          %s\n", run.ID)
			fmt.Fprintf(out, "Started:      %s\n", formatRunTime(run.StartedAt))
			fmt.Fprintf(out, "Mode:         %s\n", run.Mode)
			fmt.Fprintf(out, "Roots:        %s\n", strings.Join(run.Roots, ", "))
			if run.ExportPath != "" {
				fmt.Fprintf(out, "Export:       %s\n", run.ExportPath)
			}
			fmt.Fprintf(out, "Source files: %d (%d failed)\n", run.SourceFiles, run.Failures)
			fmt.Fprintf(out, "Projects:     %d (%d on disk)\n", run.Projects, run.Existing)
			if len(projects) == 0 {
				return nil
			}

			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				name := p.Path
				if p.DisplayName != nil {
					name = *p.DisplayName
				}
				if p.IsLastOpened {
					name += " *"
				}
				rows = append(rows, []string{
					strconv.Itoa(p.Position),
					report.Glyph(p.Exists),
					name,
					p.SourceKey(),
					report.FormatMillis(p.ActivationTimestamp),
					p.Path,
				})
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, report.Table(
				[]string{"#", "", "Project", "IDE", "Last activated", "Path"},
				rows,
				[]report.Alignment{report.AlignRight},
			))
			return nil
		},
	}
}

func openHistory(ctx *commandContext) (*history.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, fmt.Errorf("history is disabled; set [history] enabled = true in %s", configPathLabel(ctx))
	}
	return history.Open(cfg)
}

func configPathLabel(ctx *commandContext) string {
	if ctx.configPath != "" {
		return ctx.configPath
	}
	if path, err := config.DefaultConfigPath(); err == nil {
		return path
	}
	return "the config file"
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

func formatRunTime(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.In(time.Local).Format("2006-01-02 15:04:05")
}
