// Package main provides the entry point for the batchforge synthetic batch generator.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/syntheon/batchforge/config"
	"github.com/syntheon/batchforge/version"
)

// Main entry point for the batchforge tool
func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// newRootCommand builds the full command tree. The root command itself
// runs the generation pipeline.
func newRootCommand() *cobra.Command {
	options := &RunOptions{}

	rootCmd := &cobra.Command{
		Use:   "batchforge",
		Short: "Batchforge generates synthetic usage data batches",
		Long: `Batchforge produces batches of synthetic personal and network usage
records as comma-delimited files.

A run executes four stages in strict order: generate the records, write
the batch file, inject a unique id column, and normalize the access
timestamps. Each stage rewrites the file atomically, so an interrupted
run never leaves a half-patched batch behind.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, options)
		},
	}

	flags := rootCmd.Flags()
	flags.IntVarP(&options.Records, "records", "r", config.DefaultRecords, "Number of records to generate")
	flags.StringVarP(&options.OutDir, "out-dir", "o", config.DefaultOutDir, "Directory receiving the batch file")
	flags.StringVar(&options.Filename, "name", "", "Batch file name (defaults to a timestamped name)")
	flags.Uint64Var(&options.Seed, "seed", 0, "Provider seed for reproducible draws (0 picks a random seed)")
	flags.StringVar(&options.ConfigPath, "config", "", "YAML configuration file")
	flags.StringVar(&options.ReportPath, "report", "", "Write a JSON run report to this path")
	flags.StringVar(&options.LogPath, "log-file", "", "Structured log file path")
	flags.BoolVar(&options.NoProgress, "no-progress", false, "Disable the progress spinner")

	// Version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of batchforge",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("batchforge %s (built %s)\n", version.GetVersion(), version.GetBuildDate())
		},
	})

	// Add subcommands
	rootCmd.AddCommand(newVerifyCommand())
	rootCmd.AddCommand(newValidateConfigCommand())

	return rootCmd
}
