package main

import (
	"github.com/spf13/cobra"

	"github.com/syntheon/batchforge/config"
)

// newValidateConfigCommand creates the validate-config command.
func newValidateConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config FILE",
		Short: "Validate a batchforge configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(args[0])
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			cmd.Printf("Configuration %s is valid.\n", args[0])
			cmd.Printf("  Records:    %d\n", cfg.Records)
			cmd.Printf("  Output dir: %s\n", cfg.OutDir)
			if cfg.Filename != "" {
				cmd.Printf("  File name:  %s\n", cfg.Filename)
			}
			if cfg.Report != "" {
				cmd.Printf("  Report:     %s\n", cfg.Report)
			}
			cmd.Printf("  Log file:   %s\n", cfg.Log.Path)
			return nil
		},
	}
}
