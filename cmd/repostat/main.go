// Package main provides the entry point for the repostat CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/repostat/cmd/repostat/commands"
	"github.com/Sumatoshi-tech/repostat/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "repostat",
		Short: "repostat - static repository history reports",
		Long: `repostat turns a repository statistics snapshot into a static HTML report
with data tables and gnuplot charts.

Commands:
  render    Generate the report from a snapshot
  validate  Check a snapshot against the schema
  compare   Compare the data tables of two reports`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewCompareCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(commands.ExitCode(err))
	}
}
