package sources

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgRecords streams query rows as records. It keeps only the current row
// in memory.
type PgRecords struct {
	rows    pgx.Rows
	fields  []pgconn.FieldDescription
	columns []string
	current Row
	err     error
}

// NewPgRecords wraps rows. Closing the records closes the rows.
func NewPgRecords(rows pgx.Rows) *PgRecords {
	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = fd.Name
	}
	return &PgRecords{rows: rows, fields: fields, columns: columns}
}

// Columns returns the result set column names.
func (r *PgRecords) Columns() []string {
	return r.columns
}

func (r *PgRecords) Next() bool {
	if r.err != nil || !r.rows.Next() {
		return false
	}

	values, err := r.rows.Values()
	if err != nil {
		r.err = fmt.Errorf("error reading row: %w", err)
		return false
	}

	row := NewRow()
	for i, v := range values {
		row.Set(r.columns[i], Field{Value: v, OID: r.fields[i].DataTypeOID})
	}
	r.current = row
	return true
}

func (r *PgRecords) Record() Row {
	return r.current
}

func (r *PgRecords) Err() error {
	if r.err != nil {
		return r.err
	}
	if err := r.rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}
	return nil
}

func (r *PgRecords) Close() {
	r.rows.Close()
}
