package csvstream

import "unicode/utf8"

// textBuffer is the encoder's line arena. Text is stored as UTF-8 while its
// length is counted in characters, so slicing by length never cuts a
// multi-byte character in half.
type textBuffer struct {
	data  []byte
	runes int
}

func newTextBuffer(capacity int) *textBuffer {
	return &textBuffer{data: make([]byte, 0, capacity)}
}

// Len returns the number of characters held.
func (b *textBuffer) Len() int {
	return b.runes
}

// Append adds a complete line.
func (b *textBuffer) Append(line []byte) {
	b.data = append(b.data, line...)
	b.runes += utf8.RuneCount(line)
}

// appendFunc lets the caller write directly into the arena; the characters
// added by fn are counted afterwards.
func (b *textBuffer) appendFunc(fn func(dst []byte) []byte) {
	start := len(b.data)
	b.data = fn(b.data)
	b.runes += utf8.RuneCount(b.data[start:])
}

// Take removes the first n characters and appends their bytes to dst.
// The remainder is moved to the front so the backing array is reused.
func (b *textBuffer) Take(n int, dst []byte) []byte {
	if n >= b.runes {
		dst = append(dst, b.data...)
		b.Reset()
		return dst
	}

	offset := 0
	for i := 0; i < n; i++ {
		_, size := utf8.DecodeRune(b.data[offset:])
		offset += size
	}
	dst = append(dst, b.data[:offset]...)

	remaining := copy(b.data, b.data[offset:])
	b.data = b.data[:remaining]
	b.runes -= n
	return dst
}

func (b *textBuffer) Reset() {
	b.data = b.data[:0]
	b.runes = 0
}
