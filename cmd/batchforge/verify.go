package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syntheon/batchforge/pkg/core"
	"github.com/syntheon/batchforge/pkg/readers"
	"github.com/syntheon/batchforge/pkg/schema"
)

// VerifyOptions represents the options for the verify command.
type VerifyOptions struct {
	Path         string
	RulesPath    string
	OutputFormat string
}

// newVerifyCommand creates a new verify command.
func newVerifyCommand() *cobra.Command {
	options := &VerifyOptions{
		OutputFormat: "text",
	}

	cmd := &cobra.Command{
		Use:   "verify [flags] FILE",
		Short: "Verify a batch file against the output contract",
		Long: `The verify command loads a generated batch file and checks it against
the output contract: the full column set in order, no empty values,
distinct version 4 unique ids, normalized access timestamps, numeric
bounds, and the derived traffic formula.

A rules file can replace the built-in contract to check arbitrary
delimited files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Path = args[0]
			return runVerify(cmd, options)
		},
	}

	cmd.Flags().StringVar(&options.RulesPath, "rules", "", "Rules file (JSON or YAML) replacing the built-in contract")
	cmd.Flags().StringVarP(&options.OutputFormat, "format", "f", options.OutputFormat, "Output format (text, json)")

	return cmd
}

// runVerify executes the verify command with the given options.
func runVerify(cmd *cobra.Command, options *VerifyOptions) error {
	validator := schema.NewOutputValidator()
	if options.RulesPath != "" {
		loaded, err := schema.NewValidatorFromRulesFile(options.RulesPath)
		if err != nil {
			return err
		}
		validator = loaded
	}

	reader, err := readers.NewCSVReader(core.ReaderConfig{
		Path:      options.Path,
		HasHeader: true,
	})
	if err != nil {
		return fmt.Errorf("failed to open batch file: %w", err)
	}
	defer reader.Close()

	record, err := reader.Load(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load batch file: %w", err)
	}
	defer record.Release()

	result := validator.ValidateTable(record)

	switch options.OutputFormat {
	case "json":
		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		cmd.Println(string(encoded))
	case "text":
		cmd.Print(schema.FormatResult(result))
	default:
		return fmt.Errorf("unsupported output format: %s (supported: text, json)", options.OutputFormat)
	}

	if !result.Valid {
		return fmt.Errorf("%s failed validation", options.Path)
	}

	return nil
}
