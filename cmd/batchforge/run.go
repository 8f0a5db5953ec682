package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syntheon/batchforge/config"
	"github.com/syntheon/batchforge/logger"
	"github.com/syntheon/batchforge/pkg/generate"
	"github.com/syntheon/batchforge/pkg/patch"
	"github.com/syntheon/batchforge/pkg/pipeline"
	"github.com/syntheon/batchforge/pkg/provider"
	"github.com/syntheon/batchforge/pkg/writers"
	"github.com/syntheon/batchforge/report"
)

// RunOptions represents the options for a pipeline run.
type RunOptions struct {
	Records    int
	OutDir     string
	Filename   string
	Seed       uint64
	ConfigPath string
	ReportPath string
	LogPath    string
	NoProgress bool
}

// resolveConfig merges the configuration file with explicitly set flags.
// Flags win over file values, file values win over defaults.
func resolveConfig(cmd *cobra.Command, options *RunOptions) (*config.Config, error) {
	cfg := config.Default()
	if options.ConfigPath != "" {
		loaded, err := config.LoadConfig(options.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("records") {
		cfg.Records = options.Records
	}
	if flags.Changed("out-dir") {
		cfg.OutDir = options.OutDir
	}
	if flags.Changed("name") {
		cfg.Filename = options.Filename
	}
	if flags.Changed("seed") {
		cfg.Seed = options.Seed
	}
	if flags.Changed("report") {
		cfg.Report = options.ReportPath
	}
	if flags.Changed("log-file") {
		cfg.Log.Path = options.LogPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// runPipeline executes the generation pipeline with the given options.
func runPipeline(cmd *cobra.Command, options *RunOptions) error {
	cfg, err := resolveConfig(cmd, options)
	if err != nil {
		return err
	}

	logger.SetLogPath(cfg.Log.Path)
	log := logger.GetLogger()
	defer logger.Sync()

	// Set up context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	go func() {
		select {
		case <-sig:
			fmt.Fprintln(cmd.ErrOrStderr(), "\nCancelling run...")
			cancel()
		case <-ctx.Done():
		}
	}()

	cmd.Printf("Generating:\n  Records: %d\n  Output dir: %s\n", cfg.Records, cfg.OutDir)
	if cfg.Filename != "" {
		cmd.Printf("  File name: %s\n", cfg.Filename)
	}
	if cfg.Seed != 0 {
		cmd.Printf("  Seed: %d\n", cfg.Seed)
	}

	p := pipeline.New(
		generate.New(provider.New(cfg.Seed), log),
		writers.NewBatchWriter(log),
		patch.NewPatcher(log),
		log,
	)

	var spin *spinner.Spinner
	if !options.NoProgress {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond,
			spinner.WithWriter(cmd.ErrOrStderr()))
		spin.Suffix = " running batch pipeline..."
		spin.Start()
	}

	run, runErr := p.Run(ctx, pipeline.Options{
		Records:  cfg.Records,
		OutDir:   cfg.OutDir,
		Filename: cfg.Filename,
		Seed:     cfg.Seed,
	})

	if spin != nil {
		spin.Stop()
	}

	if run != nil {
		report.WriteSummary(cmd.OutOrStdout(), *run)

		// The report is written for failed runs too
		if cfg.Report != "" {
			store := report.JSONRunStore{FilePath: cfg.Report}
			if err := store.Save(*run); err != nil {
				log.Error("Failed to write run report", zap.Error(err))
			} else {
				cmd.Printf("\nRun report written to %s\n", cfg.Report)
			}
		}
	}

	if runErr != nil {
		return fmt.Errorf("pipeline run failed: %w", runErr)
	}

	cmd.Printf("\nBatch file written to %s\n", run.OutputPath)
	return nil
}
