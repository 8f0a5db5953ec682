package patch

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// setStringColumn returns a copy of record with the named utf8 column
// replaced in place, or appended as the trailing column when absent. The
// returned record owns its own references; the caller releases it.
func setStringColumn(record arrow.Record, name string, col arrow.Array) arrow.Record {
	schema := record.Schema()
	replaced := schema.FieldIndices(name)

	n := len(schema.Fields())
	fields := make([]arrow.Field, 0, n+1)
	cols := make([]arrow.Array, 0, n+1)

	for i, f := range schema.Fields() {
		if len(replaced) > 0 && i == replaced[0] {
			fields = append(fields, arrow.Field{Name: name, Type: arrow.BinaryTypes.String})
			cols = append(cols, col)
			continue
		}
		fields = append(fields, f)
		cols = append(cols, record.Column(i))
	}

	if len(replaced) == 0 {
		fields = append(fields, arrow.Field{Name: name, Type: arrow.BinaryTypes.String})
		cols = append(cols, col)
	}

	return array.NewRecord(arrow.NewSchema(fields, nil), cols, record.NumRows())
}
