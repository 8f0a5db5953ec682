package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"gopkg.in/yaml.v3"
)

// RulesConfig represents the validation rules loaded from a rules file
type RulesConfig struct {
	// RequiredColumns lists column names that must be present
	RequiredColumns []string `json:"required_columns" yaml:"required_columns"`

	// ColumnOrder fixes the full expected header, in order
	ColumnOrder []string `json:"column_order" yaml:"column_order"`

	// NonEmptyColumns lists columns that must not hold empty values
	NonEmptyColumns []string `json:"non_empty_columns" yaml:"non_empty_columns"`

	// UUIDColumns lists columns that must hold distinct v4 UUIDs
	UUIDColumns []string `json:"uuid_columns" yaml:"uuid_columns"`

	// Patterns maps column names to regular expressions their values must match
	Patterns map[string]string `json:"patterns" yaml:"patterns"`

	// IntRanges maps column names to inclusive [min, max] bounds
	IntRanges map[string][2]int64 `json:"int_ranges" yaml:"int_ranges"`
}

// NewValidatorFromRulesFile creates a validator from a rules definition file.
// This is a convenience function for creating a validator with predefined rules.
// The file can be either JSON or YAML format.
func NewValidatorFromRulesFile(path string) (*BatchTableValidator, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("rules file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var config RulesConfig
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON rules file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML rules file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported rules file format: %s (supported: .json, .yaml, .yml)", ext)
	}

	return NewValidatorFromConfig(config)
}

// NewValidatorFromConfig creates a validator from an in-memory rules
// configuration. Rules derived from maps are added in sorted column order.
func NewValidatorFromConfig(config RulesConfig) (*BatchTableValidator, error) {
	validator := NewBatchTableValidator()

	if len(config.RequiredColumns) > 0 {
		validator.AddRule(&RequiredColumnsRule{Columns: config.RequiredColumns})
	}

	if len(config.ColumnOrder) > 0 {
		validator.AddRule(&ColumnOrderRule{Columns: config.ColumnOrder})
	}

	if len(config.NonEmptyColumns) > 0 {
		validator.AddRule(&NonEmptyRule{Columns: config.NonEmptyColumns})
	}

	for _, column := range config.UUIDColumns {
		validator.AddRule(&UniqueUUIDRule{Column: column})
	}

	for _, column := range sortedKeys(config.Patterns) {
		pattern, err := regexp.Compile(config.Patterns[column])
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for column '%s': %w", column, err)
		}
		validator.AddRule(&PatternRule{Column: column, Pattern: pattern})
	}

	for _, column := range sortedKeys(config.IntRanges) {
		bounds := config.IntRanges[column]
		if bounds[0] > bounds[1] {
			return nil, fmt.Errorf("invalid range for column '%s': min %d exceeds max %d",
				column, bounds[0], bounds[1])
		}
		validator.AddRule(&IntRangeRule{Column: column, Min: bounds[0], Max: bounds[1]})
	}

	return validator, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SchemaToString converts an Arrow schema to a human-readable string.
func SchemaToString(schema *arrow.Schema) string {
	var builder strings.Builder
	builder.WriteString("Schema:\n")

	for i := 0; i < schema.NumFields(); i++ {
		field := schema.Field(i)
		builder.WriteString(fmt.Sprintf("  %s: %s\n", field.Name, field.Type))
	}

	return builder.String()
}

// FormatResult renders a validation result in a human-readable format.
// Rule sections appear in sorted order so the output is stable.
func FormatResult(result Result) string {
	var builder strings.Builder

	if result.Valid {
		builder.WriteString("Table validation passed.\n")
	} else {
		builder.WriteString("Table validation failed!\n")
	}

	if len(result.Errors) > 0 {
		builder.WriteString("\nErrors:\n")
		for _, ruleName := range sortedKeys(result.Errors) {
			builder.WriteString(fmt.Sprintf("  Rule '%s':\n", ruleName))
			for _, err := range result.Errors[ruleName] {
				builder.WriteString(fmt.Sprintf("    - %s\n", err))
			}
		}
	}

	if len(result.Warnings) > 0 {
		builder.WriteString("\nWarnings:\n")
		for _, ruleName := range sortedKeys(result.Warnings) {
			builder.WriteString(fmt.Sprintf("  Rule '%s':\n", ruleName))
			for _, warning := range result.Warnings[ruleName] {
				builder.WriteString(fmt.Sprintf("    - %s\n", warning))
			}
		}
	}

	return builder.String()
}
