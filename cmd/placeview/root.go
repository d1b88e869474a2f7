package main

import (
	"github.com/spf13/cobra"
)

// newRootCommand creates the placeview command tree around a.
func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "placeview",
		Short:        "Browse, filter and sort place listing JSON files",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&a.format, "format", "o", formatTable, "Output format: table, json or yaml")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(a.format); err != nil {
			return err
		}
		return a.setup(cmd.Context())
	}

	rootCmd.AddCommand(
		listCommand(a),
		fieldsCommand(a),
		catalogsCommand(a),
		hoursCommand(a),
		geocodeCommand(a),
	)
	return rootCmd
}
