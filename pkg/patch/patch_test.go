package patch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/syntheon/batchforge/pkg/core"
	"github.com/syntheon/batchforge/pkg/readers"
)

// writeFixture drops CSV content into a temp file and returns its path.
func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// loadColumns reads the file back as header names plus per-column values.
func loadColumns(t *testing.T, path string) ([]string, map[string][]string) {
	t.Helper()

	reader, err := readers.NewCSVReader(core.ReaderConfig{Path: path, HasHeader: true})
	require.NoError(t, err)
	defer reader.Close()

	record, err := reader.Load(context.Background())
	require.NoError(t, err)
	defer record.Release()

	header := make([]string, 0, record.NumCols())
	values := make(map[string][]string, record.NumCols())
	for i := 0; i < int(record.NumCols()); i++ {
		name := record.ColumnName(i)
		header = append(header, name)

		col := record.Column(i).(*array.String)
		vals := make([]string, 0, col.Len())
		for j := 0; j < col.Len(); j++ {
			vals = append(vals, col.Value(j))
		}
		values[name] = vals
	}
	return header, values
}

const fixture = "person_name,accessed_at,personal_number\n" +
	"Alice,2025-01-02T03:04:05,0123456789\n" +
	"Bob,2024-12-31T23:59:59,9876543210\n"

// TestAddID ensures a trailing unique_id column appears with fresh UUIDs
// and no other column changes.
func TestAddID(t *testing.T) {
	path := writeFixture(t, fixture)
	p := NewPatcher(zap.NewNop())

	require.NoError(t, p.AddID(context.Background(), path))

	header, values := loadColumns(t, path)
	require.Equal(t, []string{"person_name", "accessed_at", "personal_number", "unique_id"}, header)

	assert.Equal(t, []string{"Alice", "Bob"}, values["person_name"])
	assert.Equal(t, []string{"2025-01-02T03:04:05", "2024-12-31T23:59:59"}, values["accessed_at"])
	assert.Equal(t, []string{"0123456789", "9876543210"}, values["personal_number"])

	ids := values["unique_id"]
	require.Len(t, ids, 2)
	for _, id := range ids {
		parsed, err := uuid.Parse(id)
		require.NoError(t, err, "unique_id %q is not a UUID", id)
		assert.Equal(t, uuid.Version(4), parsed.Version())
	}
	assert.NotEqual(t, ids[0], ids[1])
}

// TestAddIDReplacesExisting ensures an existing unique_id column gets fresh
// values instead of a duplicate column.
func TestAddIDReplacesExisting(t *testing.T) {
	path := writeFixture(t, "name,unique_id\nAlice,old-value\n")
	p := NewPatcher(zap.NewNop())

	require.NoError(t, p.AddID(context.Background(), path))

	header, values := loadColumns(t, path)
	require.Equal(t, []string{"name", "unique_id"}, header)

	id := values["unique_id"][0]
	assert.NotEqual(t, "old-value", id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

// TestAddIDHeaderOnly ensures an empty table gains the column name only.
func TestAddIDHeaderOnly(t *testing.T) {
	path := writeFixture(t, "person_name,accessed_at\n")
	p := NewPatcher(zap.NewNop())

	require.NoError(t, p.AddID(context.Background(), path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "person_name,accessed_at,unique_id\n", string(content))
}

// TestUpdateDatetime ensures every accessed_at value gains the zone suffix
// while remaining columns stay untouched.
func TestUpdateDatetime(t *testing.T) {
	path := writeFixture(t, fixture)
	p := NewPatcher(zap.NewNop())

	require.NoError(t, p.UpdateDatetime(context.Background(), path))

	header, values := loadColumns(t, path)
	require.Equal(t, []string{"person_name", "accessed_at", "personal_number"}, header)

	assert.Equal(t, []string{"2025-01-02T03:04:05Z", "2024-12-31T23:59:59Z"}, values["accessed_at"])
	assert.Equal(t, []string{"Alice", "Bob"}, values["person_name"])
	assert.Equal(t, []string{"0123456789", "9876543210"}, values["personal_number"])
}

// TestUpdateDatetimeTwice ensures the second run fails: suffixed values no
// longer match the generated layout.
func TestUpdateDatetimeTwice(t *testing.T) {
	path := writeFixture(t, fixture)
	p := NewPatcher(zap.NewNop())

	require.NoError(t, p.UpdateDatetime(context.Background(), path))

	err := p.UpdateDatetime(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0")
}

// TestUpdateDatetimeBadValue ensures a malformed timestamp names its row.
func TestUpdateDatetimeBadValue(t *testing.T) {
	path := writeFixture(t, "accessed_at\n2025-01-02T03:04:05\nnot-a-timestamp\n")
	p := NewPatcher(zap.NewNop())

	err := p.UpdateDatetime(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
	assert.Contains(t, err.Error(), "not-a-timestamp")
}

// TestUpdateDatetimeBadValueLeavesFile ensures a failed pass leaves the
// file exactly as it was.
func TestUpdateDatetimeBadValueLeavesFile(t *testing.T) {
	content := "accessed_at\nbroken\n"
	path := writeFixture(t, content)
	p := NewPatcher(zap.NewNop())

	require.Error(t, p.UpdateDatetime(context.Background(), path))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(after))
}

// TestUpdateDatetimeMissingColumn ensures a missing accessed_at is fatal.
func TestUpdateDatetimeMissingColumn(t *testing.T) {
	path := writeFixture(t, "name\nAlice\n")
	p := NewPatcher(zap.NewNop())

	err := p.UpdateDatetime(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), core.ColAccessedAt)
}

// TestUpdateDatetimeHeaderOnly ensures zero rows normalize without error.
func TestUpdateDatetimeHeaderOnly(t *testing.T) {
	path := writeFixture(t, "person_name,accessed_at\n")
	p := NewPatcher(zap.NewNop())

	require.NoError(t, p.UpdateDatetime(context.Background(), path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "person_name,accessed_at\n", string(content))
}

// TestPatchQuotedValues ensures values with delimiters survive both passes.
func TestPatchQuotedValues(t *testing.T) {
	path := writeFixture(t, "address,accessed_at\n\"1 Main St, Springfield\",2025-01-02T03:04:05\n")
	p := NewPatcher(zap.NewNop())

	require.NoError(t, p.AddID(context.Background(), path))
	require.NoError(t, p.UpdateDatetime(context.Background(), path))

	_, values := loadColumns(t, path)
	assert.Equal(t, []string{"1 Main St, Springfield"}, values["address"])
	assert.Equal(t, []string{"2025-01-02T03:04:05Z"}, values["accessed_at"])

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `"1 Main St, Springfield"`), "address should stay quoted on disk")
}
