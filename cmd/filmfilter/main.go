// Package main provides the entry point for the filmfilter CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/filmfilter/filmfilter/cmd/filmfilter/commands"
	"github.com/filmfilter/filmfilter/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "filmfilter",
		Short: "FilmFilter - movie ratings filter and dashboard",
		Long: `FilmFilter filters a movie ratings dataset by genre, release year, and
score, and projects the result into chart-ready views.

Commands:
  report    Print projection tables to the terminal
  render    Write the dashboard as a static HTML page
  serve     Serve the dashboard and projection API over HTTP
  export    Write projections as JSON, YAML, or CSV`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "config file path (default searches for .filmfilter.yaml)")

	// Add commands.
	rootCmd.AddCommand(commands.NewReportCommand())
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "filmfilter %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
