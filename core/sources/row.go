// Package sources adapts tabular inputs (PostgreSQL result sets, XLSX
// worksheets, YAML documents) into csvstream records.
package sources

import (
	"errors"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/fbz-tec/csvstream/core/csvstream"
	"github.com/fbz-tec/csvstream/core/formatters"
)

// Field is a single typed value. OID is the PostgreSQL type of the column
// it came from, or 0 for values read from files.
type Field struct {
	Value any
	OID   uint32
}

// Row maps column names to fields in source column order.
type Row = *orderedmap.OrderedMap[string, Field]

var errNilRow = errors.New("nil row")

// NewRow returns an empty row.
func NewRow() Row {
	return orderedmap.NewOrderedMap[string, Field]()
}

// Project returns the projection that renders a row as one cell per column,
// in the order given. Columns missing from a row become empty cells.
func Project(columns []string, timeFormat, timeZone string) csvstream.Projection[Row] {
	columns = append([]string(nil), columns...)
	f := formatters.NewCellFormatter(timeFormat, timeZone)

	return func(row Row) ([]string, error) {
		if row == nil {
			return nil, errNilRow
		}
		cells := make([]string, len(columns))
		for i, col := range columns {
			if field, ok := row.Get(col); ok {
				cells[i] = f.Format(field.Value, field.OID)
			}
		}
		return cells, nil
	}
}
