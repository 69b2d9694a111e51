package csvstream

import "fmt"

// lineSource yields the cells of every output line: the header first when
// one is configured, then one line per record. It is consumed once.
type lineSource[T any] struct {
	header     []string
	headerDone bool
	records    Records[T]
	project    Projection[T]
	index      int
}

func newLineSource[T any](header []string, records Records[T], project Projection[T]) *lineSource[T] {
	return &lineSource[T]{
		header:     header,
		headerDone: header == nil,
		records:    records,
		project:    project,
	}
}

// next returns the cells of the next line. ok is false once the header and
// every record have been produced.
func (s *lineSource[T]) next() (cells []string, ok bool, err error) {
	if !s.headerDone {
		s.headerDone = true
		return s.header, true, nil
	}

	if !s.records.Next() {
		if err := s.records.Err(); err != nil {
			return nil, false, fmt.Errorf("error reading record %d: %w", s.index+1, err)
		}
		return nil, false, nil
	}

	s.index++
	cells, err = s.project(s.records.Record())
	if err != nil {
		return nil, false, &ProjectionError{Index: s.index, Err: err}
	}
	return cells, true, nil
}

// count returns the number of records projected so far.
func (s *lineSource[T]) count() int {
	return s.index
}
