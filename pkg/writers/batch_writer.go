package writers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/syntheon/batchforge/pkg/core"
)

// Naming scheme for derived batch file names.
const (
	batchFilePrefix      = "batch_"
	batchFileExt         = ".csv"
	batchTimestampLayout = "20060102_150405"
)

// BatchWriter persists generated batches as CSV files with a header row.
type BatchWriter struct {
	mem    memory.Allocator
	logger *zap.Logger
}

// NewBatchWriter constructs a batch writer.
func NewBatchWriter(logger *zap.Logger) *BatchWriter {
	return &BatchWriter{
		mem:    memory.NewGoAllocator(),
		logger: logger,
	}
}

// DeriveFilename returns the timestamped file name for a batch written at t.
// Names are second-granular; separate process invocations within the same
// second would collide, which a single run never does.
func DeriveFilename(t time.Time) string {
	return batchFilePrefix + t.Format(batchTimestampLayout) + batchFileExt
}

// WriteBatch serializes batch under outDir and returns the written path.
// The directory is created if absent. An empty filename derives a
// timestamped name; an empty batch produces a header-only file.
func (w *BatchWriter) WriteBatch(ctx context.Context, batch core.Batch, outDir, filename string) (string, error) {
	if outDir == "" {
		return "", errors.New("output directory is required")
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	if filename == "" {
		filename = DeriveFilename(time.Now())
	}
	path := filepath.Join(outDir, filename)

	record := core.BatchRecord(w.mem, batch)
	defer record.Release()

	writer, err := NewCSVWriter(core.WriterConfig{Path: path, IncludeHeader: true})
	if err != nil {
		return "", err
	}

	if err := writer.Write(ctx, record); err != nil {
		writer.Close()
		return "", err
	}

	if err := writer.Close(); err != nil {
		return "", err
	}

	w.logger.Debug("Batch written", zap.String("path", path), zap.Int("records", len(batch)))
	return path, nil
}
