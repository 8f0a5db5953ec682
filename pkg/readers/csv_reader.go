// Package readers loads delimited files into Arrow records.
package readers

import (
	"context"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/syntheon/batchforge/pkg/core"
)

// CSVReader loads a whole CSV file into a single Arrow record. Every column
// is read as a string with the header naming the fields, so values such as
// zero-padded digit strings and preformatted timestamps round-trip
// unchanged through a load and rewrite.
type CSVReader struct {
	schema *arrow.Schema
	file   *os.File
	reader *csv.Reader
	alloc  memory.Allocator
}

// NewCSVReader creates a reader for the file in config. The file must start
// with a header row.
func NewCSVReader(config core.ReaderConfig) (*CSVReader, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for CSV reader")
	}

	delim := config.Delimiter
	if delim == 0 {
		delim = ','
	}

	file, err := os.Open(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}

	header, err := sniffHeader(file, delim)
	if err != nil {
		file.Close()
		return nil, err
	}

	schema := textSchema(header)
	alloc := memory.NewGoAllocator()

	// A negative chunk size makes the Arrow reader deliver the entire
	// file as one record.
	reader := csv.NewReader(
		file,
		schema,
		csv.WithComma(delim),
		csv.WithHeader(true),
		csv.WithChunk(-1),
		csv.WithAllocator(alloc),
	)

	return &CSVReader{
		schema: schema,
		file:   file,
		reader: reader,
		alloc:  alloc,
	}, nil
}

// Load reads the complete table. A file holding only a header row yields a
// record with the header schema and zero rows. The caller must release the
// returned record.
func (r *CSVReader) Load(ctx context.Context) (arrow.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if !r.reader.Next() {
		if err := r.reader.Err(); err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		return emptyRecord(r.alloc, r.schema), nil
	}

	record := r.reader.Record()
	record.Retain()
	return record, nil
}

// Schema returns the header-derived schema of the table.
func (r *CSVReader) Schema() *arrow.Schema {
	return r.schema
}

// Close closes the reader and releases resources.
func (r *CSVReader) Close() error {
	if r.reader != nil {
		r.reader.Release()
		r.reader = nil
	}

	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}

	return nil
}

// sniffHeader reads the first row of f and rewinds. The Arrow reader needs
// the column list up front; deriving it from the header keeps every column
// textual instead of letting type inference rewrite values.
func sniffHeader(f *os.File, delim rune) ([]string, error) {
	cr := stdcsv.NewReader(f)
	cr.Comma = delim

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("file is empty, expected a header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind file: %w", err)
	}
	return header, nil
}

// textSchema builds an all-string schema from header names.
func textSchema(header []string) *arrow.Schema {
	fields := make([]arrow.Field, len(header))
	for i, name := range header {
		fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String}
	}
	return arrow.NewSchema(fields, nil)
}

// emptyRecord builds a zero-row record for the given schema.
func emptyRecord(mem memory.Allocator, schema *arrow.Schema) arrow.Record {
	bldr := array.NewRecordBuilder(mem, schema)
	defer bldr.Release()
	return bldr.NewRecord()
}
