package sources

import (
	"errors"
	"strings"
	"testing"

	"github.com/fbz-tec/csvstream/core/csvstream"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// fakeRows is an in-memory pgx.Rows.
type fakeRows struct {
	fields []pgconn.FieldDescription
	values [][]any
	pos    int
	err    error
	closed bool
}

func (f *fakeRows) Close()                                       { f.closed = true }
func (f *fakeRows) Err() error                                   { return f.err }
func (f *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (f *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return f.fields }
func (f *fakeRows) Scan(dest ...any) error                       { return errors.New("not supported") }
func (f *fakeRows) RawValues() [][]byte                          { return nil }
func (f *fakeRows) Conn() *pgx.Conn                              { return nil }

func (f *fakeRows) Next() bool {
	if f.pos >= len(f.values) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeRows) Values() ([]any, error) {
	return f.values[f.pos-1], nil
}

func TestPgRecords_EncodesRows(t *testing.T) {
	rows := &fakeRows{
		fields: []pgconn.FieldDescription{
			{Name: "id", DataTypeOID: pgtype.Int4OID},
			{Name: "label", DataTypeOID: pgtype.TextOID},
			{Name: "active", DataTypeOID: pgtype.BoolOID},
		},
		values: [][]any{
			{int32(1), "plain", true},
			{int32(2), "with \"quotes\"", false},
			{int32(3), nil, nil},
		},
	}

	records := NewPgRecords(rows)
	enc, err := csvstream.NewEncoder[Row](records, Project(records.Columns(), "yyyy-MM-dd", ""),
		csvstream.WithHeader(records.Columns()...), csvstream.WithNewLine("\n"))
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}

	var out strings.Builder
	if _, err := csvstream.Export(enc, &out); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	want := "id,label,active\n1,plain,true\n2,\"with \"\"quotes\"\"\",false\n3,,\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	if !rows.closed {
		t.Error("closing the encoder should close the rows")
	}
}

func TestPgRecords_IterationError(t *testing.T) {
	rows := &fakeRows{
		fields: []pgconn.FieldDescription{{Name: "id", DataTypeOID: pgtype.Int4OID}},
		values: [][]any{{int32(1)}},
		err:    errors.New("connection reset"),
	}

	records := NewPgRecords(rows)
	for records.Next() {
	}
	err := records.Err()
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("Err() = %v, want the rows error", err)
	}
}
