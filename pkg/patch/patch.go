// Package patch applies in-place column transforms to written batch files.
// Each operation is a full read-modify-write: the table is loaded whole,
// one column changes and the file is atomically rewritten.
package patch

import (
	"context"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/syntheon/batchforge/pkg/core"
	"github.com/syntheon/batchforge/pkg/readers"
	"github.com/syntheon/batchforge/pkg/writers"
)

// Patcher rewrites batch files column by column.
type Patcher struct {
	mem    memory.Allocator
	logger *zap.Logger
}

// NewPatcher constructs a patcher.
func NewPatcher(logger *zap.Logger) *Patcher {
	return &Patcher{
		mem:    memory.NewGoAllocator(),
		logger: logger,
	}
}

// AddID gives every row a fresh random UUIDv4 in a trailing unique_id
// column and rewrites the file. An existing unique_id column is replaced.
// Row order and all other columns are untouched.
func (p *Patcher) AddID(ctx context.Context, path string) error {
	record, err := p.load(ctx, path)
	if err != nil {
		return err
	}
	defer record.Release()

	ids := p.buildIDColumn(int(record.NumRows()))
	defer ids.Release()

	patched := setStringColumn(record, core.ColUniqueID, ids)
	defer patched.Release()

	if err := p.rewrite(ctx, path, patched); err != nil {
		return err
	}

	p.logger.Debug("Unique ids assigned",
		zap.String("path", path),
		zap.Int64("rows", record.NumRows()))
	return nil
}

// UpdateDatetime normalizes the accessed_at column by appending a literal
// "Z" suffix to every value and rewrites the file. Values are not converted
// between zones; the suffix is purely textual. Any value that does not
// match the generated layout is a fatal parse error naming row and value.
func (p *Patcher) UpdateDatetime(ctx context.Context, path string) error {
	record, err := p.load(ctx, path)
	if err != nil {
		return err
	}
	defer record.Release()

	indices := record.Schema().FieldIndices(core.ColAccessedAt)
	if len(indices) == 0 {
		return fmt.Errorf("column %s not found in %s", core.ColAccessedAt, path)
	}

	col, ok := record.Column(indices[0]).(*array.String)
	if !ok {
		return fmt.Errorf("column %s in %s is not textual", core.ColAccessedAt, path)
	}

	normalized, err := p.normalizeTimestamps(col)
	if err != nil {
		return fmt.Errorf("failed to normalize %s in %s: %w", core.ColAccessedAt, path, err)
	}
	defer normalized.Release()

	patched := setStringColumn(record, core.ColAccessedAt, normalized)
	defer patched.Release()

	if err := p.rewrite(ctx, path, patched); err != nil {
		return err
	}

	p.logger.Debug("Timestamps normalized",
		zap.String("path", path),
		zap.Int64("rows", record.NumRows()))
	return nil
}

// load reads the whole table at path.
func (p *Patcher) load(ctx context.Context, path string) (arrow.Record, error) {
	reader, err := readers.NewCSVReader(core.ReaderConfig{Path: path, HasHeader: true})
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return reader.Load(ctx)
}

// rewrite replaces the file at path with the given table.
func (p *Patcher) rewrite(ctx context.Context, path string, record arrow.Record) error {
	writer, err := writers.NewCSVWriter(core.WriterConfig{Path: path, IncludeHeader: true})
	if err != nil {
		return err
	}

	if err := writer.Write(ctx, record); err != nil {
		writer.Close()
		return err
	}

	return writer.Close()
}

// buildIDColumn builds a utf8 array of rows fresh UUIDs, collision checked
// within this run.
func (p *Patcher) buildIDColumn(rows int) arrow.Array {
	b := array.NewStringBuilder(p.mem)
	defer b.Release()

	seen := make(map[string]bool, rows)
	for i := 0; i < rows; i++ {
		b.Append(nextUniqueID(seen))
	}
	return b.NewArray()
}

// normalizeTimestamps parses each value with the generated layout and
// reformats it with the trailing zone suffix.
func (p *Patcher) normalizeTimestamps(col *array.String) (arrow.Array, error) {
	b := array.NewStringBuilder(p.mem)
	defer b.Release()

	for i := 0; i < col.Len(); i++ {
		v := col.Value(i)
		ts, err := time.Parse(core.DatetimeLayout, v)
		if err != nil {
			return nil, fmt.Errorf("row %d: value %q does not match layout %s", i, v, core.DatetimeLayout)
		}
		b.Append(ts.Format(core.DatetimeLayout) + "Z")
	}
	return b.NewArray(), nil
}

// nextUniqueID draws UUIDs until one is unused in this run.
func nextUniqueID(seen map[string]bool) string {
	for {
		id := uuid.New().String()
		if !seen[id] {
			seen[id] = true
			return id
		}
	}
}
