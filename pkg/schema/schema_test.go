package schema

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syntheon/batchforge/pkg/core"
)

// textRecord builds an all-string table from column values, the shape a
// delimited file reads back as.
func textRecord(names []string, columns ...[]string) arrow.Record {
	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()

	for i, values := range columns {
		sb := builder.Field(i).(*array.StringBuilder)
		for _, v := range values {
			sb.Append(v)
		}
	}
	return builder.NewRecord()
}

// outputRecord builds a table with n rows satisfying the output contract.
func outputRecord(n int) arrow.Record {
	names := append(core.FieldNames(), core.ColUniqueID)
	columns := make([][]string, len(names))

	for r := 0; r < n; r++ {
		traffic := core.DeriveTraffic(100, 50, 3600)
		values := []string{
			"Jane Roe",
			"jroe",
			"jane.roe@example.com",
			"555-0100",
			"12 Main St, Springfield",
			"aa:bb:cc:dd:ee:ff",
			"10.0.0.1",
			"DE43100200300400500600",
			"1990-04-12",
			"2024-12-31T23:59:59Z",
			"3600",
			"100",
			"50",
			strconv.FormatFloat(traffic, 'g', -1, 64),
			"0123456789",
			uuid.NewString(),
		}
		for c, v := range values {
			columns[c] = append(columns[c], v)
		}
	}
	return textRecord(names, columns...)
}

func TestRequiredColumnsRule(t *testing.T) {
	// Build a table with columns "person_name" and "unique_id"
	record := textRecord([]string{"person_name", "unique_id"},
		[]string{"Ada"}, []string{uuid.NewString()})
	defer record.Release()

	// Test valid case
	rule := &RequiredColumnsRule{
		Columns: []string{"person_name", "unique_id"},
	}
	valid, err := rule.Validate(record)
	assert.True(t, valid)
	assert.NoError(t, err)

	// Test invalid case
	rule = &RequiredColumnsRule{
		Columns: []string{"person_name", "unique_id", "accessed_at"},
	}
	valid, err = rule.Validate(record)
	assert.False(t, valid)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accessed_at")
}

func TestColumnOrderRule(t *testing.T) {
	record := textRecord([]string{"person_name", "accessed_at"},
		[]string{"Ada"}, []string{"2024-01-01T00:00:00Z"})
	defer record.Release()

	// Test valid case
	rule := &ColumnOrderRule{
		Columns: []string{"person_name", "accessed_at"},
	}
	valid, err := rule.Validate(record)
	assert.True(t, valid)
	assert.NoError(t, err)

	// Test swapped order
	rule = &ColumnOrderRule{
		Columns: []string{"accessed_at", "person_name"},
	}
	valid, err = rule.Validate(record)
	assert.False(t, valid)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "column mismatch at index 0")

	// Test count mismatch
	rule = &ColumnOrderRule{
		Columns: []string{"person_name"},
	}
	valid, err = rule.Validate(record)
	assert.False(t, valid)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "column count mismatch")
}

func TestNonEmptyRule(t *testing.T) {
	record := textRecord([]string{"person_name", "email"},
		[]string{"Ada", "Bo"}, []string{"ada@example.com", ""})
	defer record.Release()

	// Test valid case
	rule := &NonEmptyRule{
		Columns: []string{"person_name"},
	}
	valid, err := rule.Validate(record)
	assert.True(t, valid)
	assert.NoError(t, err)

	// Test invalid case
	rule = &NonEmptyRule{
		Columns: []string{"person_name", "email"},
	}
	valid, err = rule.Validate(record)
	assert.False(t, valid)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "column 'email' has an empty value at row 1")
}

func TestUniqueUUIDRule(t *testing.T) {
	rule := &UniqueUUIDRule{Column: "unique_id"}

	// Test valid case
	record := textRecord([]string{"unique_id"},
		[]string{uuid.NewString(), uuid.NewString()})
	valid, err := rule.Validate(record)
	record.Release()
	assert.True(t, valid)
	assert.NoError(t, err)

	// Test malformed value
	record = textRecord([]string{"unique_id"}, []string{"not-a-uuid"})
	valid, err = rule.Validate(record)
	record.Release()
	assert.False(t, valid)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid UUID")

	// Test wrong version
	record = textRecord([]string{"unique_id"},
		[]string{"f47ac10b-58cc-1372-a567-0e02b2c3d479"})
	valid, err = rule.Validate(record)
	record.Release()
	assert.False(t, valid)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "version 1")

	// Test duplicate values
	id := uuid.NewString()
	record = textRecord([]string{"unique_id"}, []string{id, id})
	valid, err = rule.Validate(record)
	record.Release()
	assert.False(t, valid)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicates row 0")

	// Test missing column
	record = textRecord([]string{"person_name"}, []string{"Ada"})
	valid, err = rule.Validate(record)
	record.Release()
	assert.False(t, valid)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPatternRule(t *testing.T) {
	record := textRecord([]string{"personal_number"},
		[]string{"0123456789", "12345"})
	defer record.Release()

	rule := &PatternRule{
		Column:  "personal_number",
		Pattern: regexp.MustCompile(`^\d{10}$`),
	}
	valid, err := rule.Validate(record)
	assert.False(t, valid)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "row 1: '12345'")

	// A nil pattern matches everything
	rule = &PatternRule{Column: "personal_number"}
	valid, err = rule.Validate(record)
	assert.True(t, valid)
	assert.NoError(t, err)
}

func TestIntRangeRule(t *testing.T) {
	record := textRecord([]string{"session_duration"},
		[]string{"30", "7200", "7201", "abc"})
	defer record.Release()

	rule := &IntRangeRule{Column: "session_duration", Min: 30, Max: 7200}
	valid, err := rule.Validate(record)
	assert.False(t, valid)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "7201 is outside [30, 7200]")
	assert.Contains(t, err.Error(), "'abc' is not an integer")
}

func TestTrafficFormulaRule(t *testing.T) {
	rule := &TrafficFormulaRule{
		DownloadColumn: "download_speed",
		UploadColumn:   "upload_speed",
		DurationColumn: "session_duration",
		TrafficColumn:  "consumed_traffic",
		Derive:         core.DeriveTraffic,
	}
	names := []string{"download_speed", "upload_speed", "session_duration", "consumed_traffic"}

	// Test valid case: (10+5)*35/8 rounds to 65.63
	record := textRecord(names,
		[]string{"10"}, []string{"5"}, []string{"35"}, []string{"65.63"})
	valid, err := rule.Validate(record)
	record.Release()
	assert.True(t, valid)
	assert.NoError(t, err)

	// Test mismatched traffic
	record = textRecord(names,
		[]string{"10"}, []string{"5"}, []string{"35"}, []string{"65.62"})
	valid, err = rule.Validate(record)
	record.Release()
	assert.False(t, valid)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "does not match derived")
}

func TestBatchTableValidator(t *testing.T) {
	record := textRecord([]string{"person_name", "unique_id"},
		[]string{"Ada"}, []string{uuid.NewString()})
	defer record.Release()

	validator := NewBatchTableValidator()
	validator.AddRule(&RequiredColumnsRule{Columns: []string{"person_name", "unique_id"}})
	validator.AddRule(&UniqueUUIDRule{Column: "unique_id"})

	// Test valid table
	result := validator.ValidateTable(record)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)

	// Test invalid table by adding a failing rule
	validator.AddRule(&RequiredColumnsRule{Columns: []string{"person_name", "unique_id", "email"}})
	result = validator.ValidateTable(record)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors["RequiredColumnsRule"][0], "email")
}

func TestOutputValidator(t *testing.T) {
	validator := NewOutputValidator()

	// A conforming table passes every rule
	record := outputRecord(3)
	result := validator.ValidateTable(record)
	record.Release()
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)

	// A header-only table passes with a warning
	record = outputRecord(0)
	result = validator.ValidateTable(record)
	record.Release()
	assert.True(t, result.Valid)
	assert.Contains(t, result.Warnings["TableShape"][0], "no data rows")
}

func TestOutputValidatorRejectsBadID(t *testing.T) {
	record := outputRecord(2)
	defer record.Release()

	// Rebuild with the id column blanked out
	names := append(core.FieldNames(), core.ColUniqueID)
	columns := make([][]string, len(names))
	for c := range names {
		col := record.Column(c).(*array.String)
		for r := 0; r < col.Len(); r++ {
			columns[c] = append(columns[c], col.Value(r))
		}
	}
	columns[len(columns)-1] = []string{"", "bogus"}

	bad := textRecord(names, columns...)
	defer bad.Release()

	result := NewOutputValidator().ValidateTable(bad)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors["UniqueUUIDRule"][0], "not a valid UUID")
	assert.Contains(t, result.Errors["NonEmptyRule"][0], "unique_id")
}

func TestNewValidatorFromRulesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")

	rules := `required_columns:
  - person_name
  - score
  - unique_id
column_order:
  - person_name
  - score
  - unique_id
non_empty_columns:
  - person_name
uuid_columns:
  - unique_id
patterns:
  person_name: "^[A-Z]"
int_ranges:
  score: [1, 10]
`
	require.NoError(t, os.WriteFile(path, []byte(rules), 0o644))

	validator, err := NewValidatorFromRulesFile(path)
	require.NoError(t, err)

	names := []string{"person_name", "score", "unique_id"}

	record := textRecord(names,
		[]string{"Ada", "Bo"}, []string{"7", "3"},
		[]string{uuid.NewString(), uuid.NewString()})
	result := validator.ValidateTable(record)
	record.Release()
	assert.True(t, result.Valid, "errors: %v", result.Errors)

	record = textRecord(names,
		[]string{"ada"}, []string{"42"}, []string{uuid.NewString()})
	result = validator.ValidateTable(record)
	record.Release()
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors["PatternRule"][0], "person_name")
	assert.Contains(t, result.Errors["IntRangeRule"][0], "outside [1, 10]")
}

func TestNewValidatorFromRulesFileErrors(t *testing.T) {
	dir := t.TempDir()

	// Missing file
	_, err := NewValidatorFromRulesFile(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	// Unsupported extension
	path := filepath.Join(dir, "rules.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))
	_, err = NewValidatorFromRulesFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported rules file format")

	// Invalid pattern
	path = filepath.Join(dir, "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"patterns": {"name": "["}}`), 0o644))
	_, err = NewValidatorFromRulesFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

func TestFormatResult(t *testing.T) {
	valid := Result{Valid: true}
	assert.Contains(t, FormatResult(valid), "passed")

	invalid := Result{
		Valid: false,
		Errors: map[string][]string{
			"UniqueUUIDRule": {"row 0: 'x' is not a valid UUID"},
		},
		Warnings: map[string][]string{
			"TableShape": {"table has a header but no data rows"},
		},
	}
	out := FormatResult(invalid)
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "Rule 'UniqueUUIDRule'")
	assert.Contains(t, out, "not a valid UUID")
	assert.Contains(t, out, "Warnings:")
	assert.Contains(t, out, "no data rows")
}
