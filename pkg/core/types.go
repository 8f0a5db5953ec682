// Package core provides the core types and interfaces for the batchforge
// synthetic data pipeline.
package core

import (
	"context"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
)

// RecordProvider defines the fake-data capability injected into the record
// generator. Implementations seeded with the same value must produce the
// same sequence of values.
type RecordProvider interface {
	// PersonName returns a full personal name.
	PersonName() string

	// Username returns a login-style user name.
	Username() string

	// Email returns an email address.
	Email() string

	// Phone returns a formatted phone number.
	Phone() string

	// Address returns a postal address on a single line.
	Address() string

	// MACAddress returns a hardware address.
	MACAddress() string

	// IPv4 returns an IPv4 address in dotted-quad form.
	IPv4() string

	// IBAN returns an international bank account number.
	IBAN() string

	// BirthDate returns a date of birth for a person aged between
	// minAge and maxAge years, inclusive.
	BirthDate(minAge, maxAge int) time.Time

	// AccessTime returns a timestamp in the interval [from, to].
	AccessTime(from, to time.Time) time.Time

	// Digits returns a string of exactly n decimal digits.
	Digits(n int) string

	// IntBetween returns a uniformly distributed integer in [min, max].
	IntBetween(min, max int) int
}

// TableReader defines an interface for loading a delimited file into memory.
type TableReader interface {
	// Load reads the entire table and returns it as a single record.
	// The caller must release the returned record.
	Load(ctx context.Context) (arrow.Record, error)

	// Schema returns the schema of the table.
	Schema() *arrow.Schema

	// Close closes the reader and releases resources.
	Close() error
}

// TableWriter defines an interface for writing a full table to a destination.
type TableWriter interface {
	// Write writes a record to the destination.
	Write(ctx context.Context, record arrow.Record) error

	// Close closes the writer and flushes any pending data.
	Close() error
}

// ReaderConfig provides configuration for creating a reader.
type ReaderConfig struct {
	// Path is the path to the delimited file.
	Path string

	// Delimiter is the field delimiter. Zero means comma.
	Delimiter rune

	// HasHeader indicates whether the first row is a header row.
	HasHeader bool
}

// WriterConfig provides configuration for creating a writer.
type WriterConfig struct {
	// Path is the destination path for the file.
	Path string

	// Delimiter is the field delimiter. Zero means comma.
	Delimiter rune

	// IncludeHeader indicates whether to write a header row.
	IncludeHeader bool
}
