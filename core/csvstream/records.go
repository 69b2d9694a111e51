package csvstream

import "iter"

// Records is a forward-only record iterator, shaped like pgx.Rows:
// Next advances, Record returns the current value and Err reports the
// error that stopped the iteration, if any.
type Records[T any] interface {
	Next() bool
	Record() T
	Err() error
}

// Projection turns one record into the ordered raw cells of its line.
type Projection[T any] func(record T) ([]string, error)

// Cells adapts a projection that cannot fail.
func Cells[T any](fn func(record T) []string) Projection[T] {
	if fn == nil {
		return nil
	}
	return func(record T) ([]string, error) {
		return fn(record), nil
	}
}

type sliceRecords[T any] struct {
	items []T
	pos   int
}

// FromSlice iterates over an in-memory slice.
func FromSlice[T any](items []T) Records[T] {
	return &sliceRecords[T]{items: items, pos: -1}
}

func (s *sliceRecords[T]) Next() bool {
	if s.pos+1 >= len(s.items) {
		s.pos = len(s.items)
		return false
	}
	s.pos++
	return true
}

func (s *sliceRecords[T]) Record() T {
	return s.items[s.pos]
}

func (s *sliceRecords[T]) Err() error { return nil }

// SeqRecords pulls from a range-over-func iterator.
type SeqRecords[T any] struct {
	next    func() (T, bool)
	stop    func()
	current T
}

// FromSeq converts a push iterator into Records. Close must be called when
// the records are abandoned before the sequence ends.
func FromSeq[T any](seq iter.Seq[T]) *SeqRecords[T] {
	next, stop := iter.Pull(seq)
	return &SeqRecords[T]{next: next, stop: stop}
}

func (s *SeqRecords[T]) Next() bool {
	v, ok := s.next()
	if !ok {
		var zero T
		s.current = zero
		return false
	}
	s.current = v
	return true
}

func (s *SeqRecords[T]) Record() T  { return s.current }
func (s *SeqRecords[T]) Err() error { return nil }

func (s *SeqRecords[T]) Close() error {
	s.stop()
	return nil
}
