package sources

import (
	"errors"
	"fmt"

	"github.com/fbz-tec/csvstream/internal/logger"
	"github.com/xuri/excelize/v2"
)

// XLSXRecords streams the rows of one worksheet. The first row holds the
// column names.
type XLSXRecords struct {
	file    *excelize.File
	rows    *excelize.Rows
	sheet   string
	columns []string
	current Row
	line    int
	done    bool
	err     error
}

// OpenXLSX opens sheet of the workbook at path, or its first sheet when
// sheet is empty.
func OpenXLSX(path, sheet string) (*XLSXRecords, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			f.Close()
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error reading sheet %q: %w", sheet, err)
	}

	x := &XLSXRecords{file: f, rows: rows, sheet: sheet}
	if err := x.readHeader(); err != nil {
		x.Close()
		return nil, err
	}

	logger.Debug("Reading sheet %q with %d columns", sheet, len(x.columns))
	return x, nil
}

func (x *XLSXRecords) readHeader() error {
	if !x.rows.Next() {
		x.done = true
		return x.rows.Error()
	}
	x.line++

	header, err := x.rows.Columns()
	if err != nil {
		return fmt.Errorf("error reading header row: %w", err)
	}
	x.columns = make([]string, len(header))
	for i, name := range header {
		if name == "" {
			name = fmt.Sprintf("column%d", i+1)
		}
		x.columns[i] = name
	}
	return nil
}

// Columns returns the header row.
func (x *XLSXRecords) Columns() []string {
	return x.columns
}

// Sheet is the name of the sheet being read.
func (x *XLSXRecords) Sheet() string {
	return x.sheet
}

func (x *XLSXRecords) Next() bool {
	if x.done || x.err != nil {
		return false
	}
	if !x.rows.Next() {
		x.done = true
		return false
	}
	x.line++

	cells, err := x.rows.Columns()
	if err != nil {
		x.err = fmt.Errorf("error reading sheet %q row %d: %w", x.sheet, x.line, err)
		return false
	}

	row := NewRow()
	for i, col := range x.columns {
		var v string
		if i < len(cells) {
			v = cells[i]
		}
		row.Set(col, Field{Value: v})
	}
	x.current = row
	return true
}

func (x *XLSXRecords) Record() Row {
	return x.current
}

func (x *XLSXRecords) Err() error {
	if x.err != nil {
		return x.err
	}
	return x.rows.Error()
}

// Close releases the row iterator and the workbook.
func (x *XLSXRecords) Close() error {
	err := x.rows.Close()
	if ferr := x.file.Close(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}
