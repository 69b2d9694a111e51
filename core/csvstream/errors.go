package csvstream

import (
	"errors"
	"fmt"
)

var (
	ErrNilRecords    = errors.New("csvstream: records cannot be nil")
	ErrNilProjection = errors.New("csvstream: projection cannot be nil")
)

// ProjectionError reports a record the projection could not convert.
// Index is 1-based and counts records, not lines.
type ProjectionError struct {
	Index int
	Err   error
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("error projecting record %d: %v", e.Index, e.Err)
}

func (e *ProjectionError) Unwrap() error {
	return e.Err
}
