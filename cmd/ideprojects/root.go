package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var rootFlags []string

	ctx := newCommandContext(&configFlag, &rootFlags)

	rootCmd := &cobra.Command{
		Use:           "ideprojects",
		Short:         "List recent projects recorded by JetBrains IDEs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDefault(cmd, ctx)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringArrayVar(&rootFlags, "root", nil, "Configuration root to scan (repeatable; replaces scan.roots)")

	rootCmd.AddCommand(newReportCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
