// Package writers serializes Arrow records to delimited files.
package writers

import (
	"context"
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/google/renameio/v2"

	"github.com/syntheon/batchforge/pkg/core"
)

// CSVWriter writes Arrow records to a CSV file as an atomic replace. The
// destination either keeps its previous content or receives the complete
// new table; a failed write never leaves a truncated file behind.
type CSVWriter struct {
	pending  *renameio.PendingFile
	writer   *csv.Writer
	config   core.WriterConfig
	writeErr error
}

// NewCSVWriter creates a writer targeting config.Path.
func NewCSVWriter(config core.WriterConfig) (*CSVWriter, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for CSV writer")
	}
	if config.Delimiter == 0 {
		config.Delimiter = ','
	}

	pending, err := renameio.NewPendingFile(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create pending file: %w", err)
	}

	return &CSVWriter{
		pending: pending,
		config:  config,
	}, nil
}

// Write writes a record to the pending file. The underlying CSV writer is
// created on the first call so the header row comes from the record's own
// schema. A zero-row record still produces the header.
func (w *CSVWriter) Write(ctx context.Context, record arrow.Record) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if w.pending == nil {
		return errors.New("writer is closed")
	}

	if w.writer == nil {
		w.writer = csv.NewWriter(
			w.pending,
			record.Schema(),
			csv.WithComma(w.config.Delimiter),
			csv.WithHeader(w.config.IncludeHeader),
		)
	}

	if err := w.writer.Write(record); err != nil {
		w.writeErr = fmt.Errorf("failed to write record: %w", err)
		return w.writeErr
	}

	return nil
}

// Close flushes pending data and atomically replaces the destination file.
// If nothing was written, or a write failed, the pending file is discarded
// and the destination is left untouched.
func (w *CSVWriter) Close() error {
	if w.pending == nil {
		return nil
	}
	pending := w.pending
	w.pending = nil

	if w.writer == nil || w.writeErr != nil {
		cleanupErr := pending.Cleanup()
		if w.writeErr != nil {
			return w.writeErr
		}
		return cleanupErr
	}

	if err := w.writer.Flush(); err != nil {
		pending.Cleanup()
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to replace destination file: %w", err)
	}

	return nil
}
