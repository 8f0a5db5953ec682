package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/google/uuid"
)

// How many offending rows a single rule reports before truncating.
const maxReportedRows = 5

// UniqueUUIDRule checks that a column holds distinct version 4 UUIDs.
type UniqueUUIDRule struct {
	// Column is the name of the column to check.
	Column string
}

// Validate implements Rule.Validate.
func (r *UniqueUUIDRule) Validate(record arrow.Record) (bool, error) {
	col, ok := stringColumn(record, r.Column)
	if !ok {
		return false, fmt.Errorf("column '%s' not found in table", r.Column)
	}

	var errors []string
	seen := make(map[string]int, col.Len())
	for i := 0; i < col.Len() && len(errors) < maxReportedRows; i++ {
		value := col.Value(i)

		id, err := uuid.Parse(value)
		if err != nil {
			errors = append(errors, fmt.Sprintf("row %d: '%s' is not a valid UUID", i, value))
			continue
		}
		if id.Version() != 4 {
			errors = append(errors, fmt.Sprintf("row %d: '%s' is UUID version %d, expected 4", i, value, id.Version()))
			continue
		}

		if first, dup := seen[value]; dup {
			errors = append(errors, fmt.Sprintf("row %d: '%s' duplicates row %d", i, value, first))
			continue
		}
		seen[value] = i
	}

	if len(errors) > 0 {
		return false, fmt.Errorf("unique id validation failed for column '%s': %s",
			r.Column, strings.Join(errors, "; "))
	}

	return true, nil
}

// Name implements Rule.Name.
func (r *UniqueUUIDRule) Name() string {
	return "UniqueUUIDRule"
}

// Description implements Rule.Description.
func (r *UniqueUUIDRule) Description() string {
	return "Validates that a column holds distinct version 4 UUIDs"
}

// PatternRule checks that every value of a column matches a regular expression.
type PatternRule struct {
	// Column is the name of the column to check.
	Column string

	// Pattern is the expression every value must match.
	Pattern *regexp.Regexp
}

// Validate implements Rule.Validate.
func (r *PatternRule) Validate(record arrow.Record) (bool, error) {
	if r.Pattern == nil {
		return true, nil
	}

	col, ok := stringColumn(record, r.Column)
	if !ok {
		return false, fmt.Errorf("column '%s' not found in table", r.Column)
	}

	var errors []string
	for i := 0; i < col.Len() && len(errors) < maxReportedRows; i++ {
		if value := col.Value(i); !r.Pattern.MatchString(value) {
			errors = append(errors, fmt.Sprintf("row %d: '%s' does not match %s", i, value, r.Pattern))
		}
	}

	if len(errors) > 0 {
		return false, fmt.Errorf("pattern validation failed for column '%s': %s",
			r.Column, strings.Join(errors, "; "))
	}

	return true, nil
}

// Name implements Rule.Name.
func (r *PatternRule) Name() string {
	return "PatternRule"
}

// Description implements Rule.Description.
func (r *PatternRule) Description() string {
	return "Validates that every value of a column matches a regular expression"
}

// IntRangeRule checks that a column holds integers within a closed range.
type IntRangeRule struct {
	// Column is the name of the column to check.
	Column string

	// Min and Max bound the allowed values, both inclusive.
	Min int64
	Max int64
}

// Validate implements Rule.Validate.
func (r *IntRangeRule) Validate(record arrow.Record) (bool, error) {
	col, ok := stringColumn(record, r.Column)
	if !ok {
		return false, fmt.Errorf("column '%s' not found in table", r.Column)
	}

	var errors []string
	for i := 0; i < col.Len() && len(errors) < maxReportedRows; i++ {
		value := col.Value(i)

		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			errors = append(errors, fmt.Sprintf("row %d: '%s' is not an integer", i, value))
			continue
		}
		if n < r.Min || n > r.Max {
			errors = append(errors, fmt.Sprintf("row %d: %d is outside [%d, %d]", i, n, r.Min, r.Max))
		}
	}

	if len(errors) > 0 {
		return false, fmt.Errorf("integer range validation failed for column '%s': %s",
			r.Column, strings.Join(errors, "; "))
	}

	return true, nil
}

// Name implements Rule.Name.
func (r *IntRangeRule) Name() string {
	return "IntRangeRule"
}

// Description implements Rule.Description.
func (r *IntRangeRule) Description() string {
	return "Validates that a column holds integers within a closed range"
}

// TrafficFormulaRule checks that the consumed traffic column equals the
// value derived from the speed and duration columns.
type TrafficFormulaRule struct {
	// DownloadColumn and UploadColumn hold the speeds in Mbps.
	DownloadColumn string
	UploadColumn   string

	// DurationColumn holds the session length in seconds.
	DurationColumn string

	// TrafficColumn holds the derived megabyte total.
	TrafficColumn string

	// Derive recomputes the expected traffic from the three inputs.
	Derive func(download, upload, duration int) float64
}

// Validate implements Rule.Validate.
func (r *TrafficFormulaRule) Validate(record arrow.Record) (bool, error) {
	if r.Derive == nil {
		return true, nil
	}

	columns := make(map[string][]string, 4)
	for _, name := range []string{r.DownloadColumn, r.UploadColumn, r.DurationColumn, r.TrafficColumn} {
		col, ok := stringColumn(record, name)
		if !ok {
			return false, fmt.Errorf("column '%s' not found in table", name)
		}
		values := make([]string, col.Len())
		for i := range values {
			values[i] = col.Value(i)
		}
		columns[name] = values
	}

	var errors []string
	for i := 0; i < int(record.NumRows()) && len(errors) < maxReportedRows; i++ {
		download, err := strconv.Atoi(columns[r.DownloadColumn][i])
		if err != nil {
			errors = append(errors, fmt.Sprintf("row %d: '%s' is not an integer", i, columns[r.DownloadColumn][i]))
			continue
		}
		upload, err := strconv.Atoi(columns[r.UploadColumn][i])
		if err != nil {
			errors = append(errors, fmt.Sprintf("row %d: '%s' is not an integer", i, columns[r.UploadColumn][i]))
			continue
		}
		duration, err := strconv.Atoi(columns[r.DurationColumn][i])
		if err != nil {
			errors = append(errors, fmt.Sprintf("row %d: '%s' is not an integer", i, columns[r.DurationColumn][i]))
			continue
		}
		traffic, err := strconv.ParseFloat(columns[r.TrafficColumn][i], 64)
		if err != nil {
			errors = append(errors, fmt.Sprintf("row %d: '%s' is not a number", i, columns[r.TrafficColumn][i]))
			continue
		}

		// Tolerance absorbs decimal text that re-serialized with extra digits.
		if expected := r.Derive(download, upload, duration); math.Abs(traffic-expected) >= 0.005 {
			errors = append(errors, fmt.Sprintf("row %d: traffic %v does not match derived %v", i, traffic, expected))
		}
	}

	if len(errors) > 0 {
		return false, fmt.Errorf("traffic formula validation failed: %s", strings.Join(errors, "; "))
	}

	return true, nil
}

// Name implements Rule.Name.
func (r *TrafficFormulaRule) Name() string {
	return "TrafficFormulaRule"
}

// Description implements Rule.Description.
func (r *TrafficFormulaRule) Description() string {
	return "Validates that the traffic column equals the value derived from speeds and duration"
}
