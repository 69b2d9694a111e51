package csvstream

import (
	"fmt"
	"io"
)

type encoderState int

const (
	stateFilling encoderState = iota
	stateDraining
	stateDone
)

// Encoder turns records into CSV and hands the output out in chunks of at
// most BufferSize characters. Memory use is bounded by the threshold plus
// the longest line, whatever the number of records.
//
// An Encoder serves one export and one consumer; it is not safe for
// concurrent use.
type Encoder[T any] struct {
	opts      Options
	charset   Charset
	lines     *lineSource[T]
	records   Records[T]
	buf       *textBuffer
	threshold int

	state        encoderState
	exhausted    bool
	preambleSent bool
	lineCount    int
	err          error
}

// NewEncoder validates its inputs and prepares an encoder. Nothing is read
// from records until the first call to Next.
func NewEncoder[T any](records Records[T], project Projection[T], opts ...Option) (*Encoder[T], error) {
	if records == nil {
		return nil, ErrNilRecords
	}
	if project == nil {
		return nil, ErrNilProjection
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return NewEncoderWithOptions(records, project, o)
}

// NewEncoderWithOptions is NewEncoder for a prebuilt Options value.
func NewEncoderWithOptions[T any](records Records[T], project Projection[T], o Options) (*Encoder[T], error) {
	if records == nil {
		return nil, ErrNilRecords
	}
	if project == nil {
		return nil, ErrNilProjection
	}
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("invalid csv options: %w", err)
	}
	cs, err := LookupCharset(o.Charset)
	if err != nil {
		return nil, fmt.Errorf("invalid csv options: %w", err)
	}

	o = o.clone()
	o.Charset = cs.Name

	return &Encoder[T]{
		opts:      o,
		charset:   cs,
		lines:     newLineSource(o.Header, records, project),
		records:   records,
		buf:       newTextBuffer(BufferSize * 2),
		threshold: BufferSize,
	}, nil
}

// Options returns the options snapshot the encoder runs with.
func (e *Encoder[T]) Options() Options {
	return e.opts.clone()
}

// Charset returns the resolved output charset.
func (e *Encoder[T]) Charset() Charset {
	return e.charset
}

// ContentType returns the media type with its charset parameter,
// e.g. "text/csv; charset=utf-8".
func (e *Encoder[T]) ContentType() string {
	return fmt.Sprintf("%s; charset=%s", e.opts.ContentType, e.charset.Name)
}

// Lines returns the number of lines buffered so far, header included.
func (e *Encoder[T]) Lines() int {
	return e.lineCount
}

// Records returns the number of records projected so far.
func (e *Encoder[T]) Records() int {
	return e.lines.count()
}

// Next returns the next chunk of encoded output. It returns io.EOF once
// everything has been emitted. Errors are sticky: after a failure every
// call returns the same error.
func (e *Encoder[T]) Next() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}

	for {
		switch e.state {
		case stateFilling:
			if e.buf.Len() >= e.threshold || e.exhausted {
				e.state = stateDraining
				continue
			}
			cells, ok, err := e.lines.next()
			if err != nil {
				e.fail(err)
				return nil, err
			}
			if !ok {
				e.exhausted = true
				continue
			}
			e.appendLine(cells)

		case stateDraining:
			if e.buf.Len() == 0 {
				e.state = stateDone
				continue
			}
			chunk, err := e.drain()
			if err != nil {
				e.fail(err)
				return nil, err
			}
			if e.exhausted && e.buf.Len() == 0 {
				e.state = stateDone
			} else {
				e.state = stateFilling
			}
			return chunk, nil

		default:
			return nil, io.EOF
		}
	}
}

// Close releases the record source when it holds resources
// (database rows, open workbooks, pulled iterators).
func (e *Encoder[T]) Close() error {
	if e.state != stateDone && e.err == nil {
		e.state = stateDone
	}
	switch c := e.records.(type) {
	case interface{ Close() error }:
		return c.Close()
	case interface{ Close() }:
		c.Close()
	}
	return nil
}

func (e *Encoder[T]) appendLine(cells []string) {
	delim := e.opts.Delimiter
	e.buf.appendFunc(func(dst []byte) []byte {
		for i, cell := range cells {
			if i > 0 {
				dst = append(dst, string(delim)...)
			}
			dst = AppendCell(dst, cell, delim)
		}
		return append(dst, e.opts.NewLine...)
	})
	e.lineCount++
}

// drain slices at most threshold characters off the buffer. A line that
// pushed the buffer past the threshold is split; its tail stays buffered
// for the next chunk.
func (e *Encoder[T]) drain() ([]byte, error) {
	n := e.buf.Len()
	if n > e.threshold {
		n = e.threshold
	}
	text := e.buf.Take(n, nil)

	var chunk []byte
	if e.opts.IncludePreamble && !e.preambleSent {
		chunk = append(chunk, e.charset.Preamble...)
	}
	chunk, err := e.charset.encode(chunk, text)
	if err != nil {
		return nil, err
	}
	e.preambleSent = true
	return chunk, nil
}

func (e *Encoder[T]) fail(err error) {
	e.err = err
	e.state = stateDone
	e.buf.Reset()
}
