package schema

import (
	"regexp"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/syntheon/batchforge/pkg/core"
)

// Documented bounds for the generated numeric columns. The validator keeps
// its own copy of the contract rather than importing the generator's
// internals, so a drifting generator fails verification.
const (
	sessionDurationMin = 30
	sessionDurationMax = 7200

	downloadSpeedMin = 10
	downloadSpeedMax = 150

	uploadSpeedMin = 5
	uploadSpeedMax = 100
)

// Serialized forms of the patterned columns in a finished batch file.
var (
	birthDatePattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	accessedAtPattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)
	personalNumberPattern = regexp.MustCompile(`^\d{10}$`)
	macAddressPattern     = regexp.MustCompile(`^([0-9a-fA-F]{2}:){5}[0-9a-fA-F]{2}$`)
	ipAddressPattern      = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)
	ibanPattern           = regexp.MustCompile(`^[A-Z]{2}\d{14,25}$`)
)

// BatchTableValidator implements the TableValidator interface.
type BatchTableValidator struct {
	rules []Rule
}

// NewBatchTableValidator creates a new instance of BatchTableValidator.
func NewBatchTableValidator() *BatchTableValidator {
	return &BatchTableValidator{
		rules: []Rule{},
	}
}

// NewOutputValidator creates a validator preloaded with the rules a
// finished batch file must satisfy.
func NewOutputValidator() *BatchTableValidator {
	validator := NewBatchTableValidator()
	for _, rule := range OutputRules() {
		validator.AddRule(rule)
	}
	return validator
}

// ValidateTable checks if a table is valid according to the validator's rules.
func (v *BatchTableValidator) ValidateTable(record arrow.Record) Result {
	result := Result{
		Valid:    true,
		Errors:   make(map[string][]string),
		Warnings: make(map[string][]string),
	}

	for _, rule := range v.rules {
		valid, err := rule.Validate(record)
		if !valid {
			result.Valid = false
			if err != nil {
				result.Errors[rule.Name()] = append(result.Errors[rule.Name()], err.Error())
			}
		}
	}

	// A header with no rows is well formed but worth calling out.
	if record.NumRows() == 0 {
		result.Warnings["TableShape"] = append(result.Warnings["TableShape"],
			"table has a header but no data rows")
	}

	return result
}

// AddRule adds a validation rule to the validator.
func (v *BatchTableValidator) AddRule(rule Rule) {
	v.rules = append(v.rules, rule)
}

// Rules returns the validator's rules in the order they run.
func (v *BatchTableValidator) Rules() []Rule {
	return v.rules
}

// OutputRules returns the contract of a finished batch file: the full
// column set in order, no empty values, distinct v4 UUIDs, serialized
// temporal and identifier forms, numeric bounds, and the traffic formula.
func OutputRules() []Rule {
	columns := append(core.FieldNames(), core.ColUniqueID)

	return []Rule{
		&RequiredColumnsRule{Columns: columns},
		&ColumnOrderRule{Columns: columns},
		&NonEmptyRule{Columns: columns},
		&UniqueUUIDRule{Column: core.ColUniqueID},
		&PatternRule{Column: core.ColBirthDate, Pattern: birthDatePattern},
		&PatternRule{Column: core.ColAccessedAt, Pattern: accessedAtPattern},
		&PatternRule{Column: core.ColPersonalNumber, Pattern: personalNumberPattern},
		&PatternRule{Column: core.ColMACAddress, Pattern: macAddressPattern},
		&PatternRule{Column: core.ColIPAddress, Pattern: ipAddressPattern},
		&PatternRule{Column: core.ColIBAN, Pattern: ibanPattern},
		&IntRangeRule{Column: core.ColSessionDuration, Min: sessionDurationMin, Max: sessionDurationMax},
		&IntRangeRule{Column: core.ColDownloadSpeed, Min: downloadSpeedMin, Max: downloadSpeedMax},
		&IntRangeRule{Column: core.ColUploadSpeed, Min: uploadSpeedMin, Max: uploadSpeedMax},
		&TrafficFormulaRule{
			DownloadColumn: core.ColDownloadSpeed,
			UploadColumn:   core.ColUploadSpeed,
			DurationColumn: core.ColSessionDuration,
			TrafficColumn:  core.ColConsumedTraffic,
			Derive:         core.DeriveTraffic,
		},
	}
}
