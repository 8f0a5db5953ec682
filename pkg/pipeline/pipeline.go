// Package pipeline drives the batch generation stages in strict order:
// generate records, write the CSV file, inject unique ids, normalize the
// access timestamps.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/syntheon/batchforge/pkg/generate"
	"github.com/syntheon/batchforge/pkg/patch"
	"github.com/syntheon/batchforge/pkg/writers"
	"github.com/syntheon/batchforge/report"
)

// Options configures a pipeline run.
type Options struct {
	// Records is the number of records to generate.
	Records int

	// OutDir is the directory receiving the batch file.
	OutDir string

	// Filename optionally fixes the output file name. Empty derives a
	// timestamped name.
	Filename string

	// Seed is recorded in the run report. Zero means the provider drew
	// its own seed.
	Seed uint64
}

// Pipeline owns the stage components of a batch run.
type Pipeline struct {
	generator *generate.Generator
	writer    *writers.BatchWriter
	patcher   *patch.Patcher
	logger    *zap.Logger
}

// New constructs a pipeline.
func New(generator *generate.Generator, writer *writers.BatchWriter, patcher *patch.Patcher, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		generator: generator,
		writer:    writer,
		patcher:   patcher,
		logger:    logger,
	}
}

// Run executes the four stages in order. A stage failure stops the run and
// leaves the file in the state the last completed stage produced. The
// returned report covers every stage that ran, the failed one included.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*report.RunReport, error) {
	run := &report.RunReport{
		Records:   opts.Records,
		Seed:      opts.Seed,
		StartTime: time.Now(),
	}

	p.logger.Info("Creating records", zap.Int("records", opts.Records))
	start := time.Now()
	batch, err := p.generator.CreateData(ctx, opts.Records)
	if err := p.finishStage(run, report.StageGenerate, int64(len(batch)), start, err); err != nil {
		return p.fail(run, err)
	}

	p.logger.Info("Writing batch file", zap.String("dir", opts.OutDir))
	start = time.Now()
	path, err := p.writer.WriteBatch(ctx, batch, opts.OutDir, opts.Filename)
	if err := p.finishStage(run, report.StageWrite, int64(len(batch)), start, err); err != nil {
		return p.fail(run, err)
	}
	run.OutputPath = path

	p.logger.Info("Adding unique ids", zap.String("path", path))
	start = time.Now()
	err = p.patcher.AddID(ctx, path)
	if err := p.finishStage(run, report.StageAddID, int64(len(batch)), start, err); err != nil {
		return p.fail(run, err)
	}

	p.logger.Info("Normalizing timestamps", zap.String("path", path))
	start = time.Now()
	err = p.patcher.UpdateDatetime(ctx, path)
	if err := p.finishStage(run, report.StageNormalize, int64(len(batch)), start, err); err != nil {
		return p.fail(run, err)
	}

	run.EndTime = time.Now()
	run.Duration = run.EndTime.Sub(run.StartTime)
	run.Success = true

	p.logger.Info("Pipeline complete",
		zap.String("path", path),
		zap.Int("records", len(batch)),
		zap.Duration("duration", run.Duration))
	return run, nil
}

// finishStage records the outcome of one stage and passes the error along.
func (p *Pipeline) finishStage(run *report.RunReport, name string, rows int64, start time.Time, err error) error {
	stage := report.StageResult{
		Name:     name,
		Status:   report.StatusOK,
		Rows:     rows,
		Duration: time.Since(start),
	}
	if err != nil {
		stage.Status = report.StatusFailed
		stage.Error = err.Error()
	}
	run.Stages = append(run.Stages, stage)
	return err
}

// fail closes out the report for an aborted run.
func (p *Pipeline) fail(run *report.RunReport, err error) (*report.RunReport, error) {
	run.EndTime = time.Now()
	run.Duration = run.EndTime.Sub(run.StartTime)
	run.Success = false

	p.logger.Error("Pipeline failed", zap.Error(err))
	return run, err
}
