package csvstream

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	DefaultContentType = "text/csv"
	DefaultDelimiter   = ','
	DefaultCharset     = "utf-8"

	// BufferSize is the number of characters accumulated before a chunk is emitted.
	BufferSize = 0x1000
)

// Options holds the formatting configuration of one encode operation.
// The encoder keeps its own copy, so changing an Options value after
// NewEncoder returns has no effect on a running export.
type Options struct {
	Delimiter       rune
	NewLine         string
	Charset         string
	IncludePreamble bool
	// Header is written as the first line when non-nil.
	Header []string
	// BufferOutput tells sinks to hold the whole body before sending it.
	BufferOutput bool
	ContentType  string
}

// Option configures Options.
type Option func(*Options)

// DefaultOptions returns the options used when no Option is given.
func DefaultOptions() Options {
	return Options{
		Delimiter:    DefaultDelimiter,
		NewLine:      NativeNewLine(),
		Charset:      DefaultCharset,
		BufferOutput: true,
		ContentType:  DefaultContentType,
	}
}

// NativeNewLine returns the line terminator of the running platform.
func NativeNewLine() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

func WithDelimiter(d rune) Option {
	return func(o *Options) { o.Delimiter = d }
}

func WithNewLine(nl string) Option {
	return func(o *Options) { o.NewLine = nl }
}

// WithCharset selects the output encoding by name (utf-8, utf-16le, windows-1252, ...).
func WithCharset(name string) Option {
	return func(o *Options) { o.Charset = name }
}

// WithPreamble emits the byte order mark of the charset before the first chunk.
func WithPreamble(enabled bool) Option {
	return func(o *Options) { o.IncludePreamble = enabled }
}

// WithHeader sets the header cells. Calling it without cells still produces
// a header line, which is then empty.
func WithHeader(cells ...string) Option {
	return func(o *Options) { o.Header = append([]string{}, cells...) }
}

func WithBufferOutput(enabled bool) Option {
	return func(o *Options) { o.BufferOutput = enabled }
}

func WithContentType(contentType string) Option {
	return func(o *Options) { o.ContentType = contentType }
}

// Validate checks that the options can produce well-formed CSV.
func (o Options) Validate() error {
	switch o.Delimiter {
	case 0:
		return fmt.Errorf("delimiter cannot be empty")
	case '"', '\n', '\r':
		return fmt.Errorf("delimiter %q is not allowed", o.Delimiter)
	}
	if o.NewLine == "" {
		return fmt.Errorf("line terminator cannot be empty")
	}
	if strings.TrimSpace(o.ContentType) == "" {
		return fmt.Errorf("content type cannot be empty")
	}
	return nil
}

// clone returns a deep copy so the caller cannot mutate the header slice
// of a running encoder.
func (o Options) clone() Options {
	if o.Header != nil {
		o.Header = append([]string{}, o.Header...)
	}
	return o
}
