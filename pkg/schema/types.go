// Package schema provides rule-based validation for generated batch tables.
package schema

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Rule defines an interface for batch table validation rules. Rules run
// against the textual table a delimited file reads back as, so value
// checks operate on the serialized forms.
type Rule interface {
	// Validate checks if the table meets the rule's criteria.
	Validate(record arrow.Record) (bool, error)

	// Name returns the human-readable name of the rule.
	Name() string

	// Description returns a detailed description of what the rule validates.
	Description() string
}

// Result represents the result of a table validation.
type Result struct {
	// Valid indicates whether the table is valid according to all rules.
	Valid bool `json:"valid"`

	// Errors contains validation errors grouped by rule name.
	Errors map[string][]string `json:"errors,omitempty"`

	// Warnings contains validation warnings grouped by rule name.
	Warnings map[string][]string `json:"warnings,omitempty"`
}

// TableValidator defines an interface for batch table validators.
type TableValidator interface {
	// ValidateTable checks if a table is valid according to the validator's rules.
	ValidateTable(record arrow.Record) Result

	// AddRule adds a validation rule to the validator.
	AddRule(rule Rule)
}

// stringColumn resolves a named column as its string array. The second
// return is false when the column is missing or not textual.
func stringColumn(record arrow.Record, name string) (*array.String, bool) {
	indices := record.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return nil, false
	}
	col, ok := record.Column(indices[0]).(*array.String)
	return col, ok
}

// RequiredColumnsRule is a validation rule that checks for required columns.
type RequiredColumnsRule struct {
	// Columns is the list of column names that must be present in the table.
	Columns []string
}

// Validate implements Rule.Validate.
func (r *RequiredColumnsRule) Validate(record arrow.Record) (bool, error) {
	if len(r.Columns) == 0 {
		return true, nil
	}

	var missing []string
	for _, name := range r.Columns {
		if len(record.Schema().FieldIndices(name)) == 0 {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return false, fmt.Errorf("required columns missing: %s", strings.Join(missing, ", "))
	}

	return true, nil
}

// Name implements Rule.Name.
func (r *RequiredColumnsRule) Name() string {
	return "RequiredColumnsRule"
}

// Description implements Rule.Description.
func (r *RequiredColumnsRule) Description() string {
	return "Validates that all required columns are present in the table"
}

// ColumnOrderRule is a validation rule that checks the exact column sequence.
type ColumnOrderRule struct {
	// Columns is the full expected header, in order.
	Columns []string
}

// Validate implements Rule.Validate.
func (r *ColumnOrderRule) Validate(record arrow.Record) (bool, error) {
	if len(r.Columns) == 0 {
		return true, nil
	}

	schema := record.Schema()
	if schema.NumFields() != len(r.Columns) {
		return false, fmt.Errorf(
			"column count mismatch: got %d, expected %d",
			schema.NumFields(), len(r.Columns),
		)
	}

	var errors []string
	for i, expected := range r.Columns {
		if got := schema.Field(i).Name; got != expected {
			errors = append(errors, fmt.Sprintf(
				"column mismatch at index %d: got '%s', expected '%s'", i, got, expected,
			))
		}
	}

	if len(errors) > 0 {
		return false, fmt.Errorf("column order validation failed: %s", strings.Join(errors, "; "))
	}

	return true, nil
}

// Name implements Rule.Name.
func (r *ColumnOrderRule) Name() string {
	return "ColumnOrderRule"
}

// Description implements Rule.Description.
func (r *ColumnOrderRule) Description() string {
	return "Validates that the table carries exactly the expected columns in order"
}

// NonEmptyRule is a validation rule that checks columns for empty values.
type NonEmptyRule struct {
	// Columns is the list of column names whose every value must be non-empty.
	Columns []string
}

// Validate implements Rule.Validate.
func (r *NonEmptyRule) Validate(record arrow.Record) (bool, error) {
	if len(r.Columns) == 0 {
		return true, nil
	}

	var errors []string
	for _, name := range r.Columns {
		col, ok := stringColumn(record, name)
		if !ok {
			// Presence is RequiredColumnsRule's concern, skip it
			continue
		}

		for i := 0; i < col.Len(); i++ {
			if col.Value(i) == "" {
				errors = append(errors, fmt.Sprintf("column '%s' has an empty value at row %d", name, i))
				break
			}
		}
	}

	if len(errors) > 0 {
		return false, fmt.Errorf("non-empty validation failed: %s", strings.Join(errors, "; "))
	}

	return true, nil
}

// Name implements Rule.Name.
func (r *NonEmptyRule) Name() string {
	return "NonEmptyRule"
}

// Description implements Rule.Description.
func (r *NonEmptyRule) Description() string {
	return "Validates that specified columns contain no empty values"
}
