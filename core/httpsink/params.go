package httpsink

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"github.com/fbz-tec/csvstream/core/csvstream"
)

// OptionsFromQuery overrides base with the query parameters delimiter,
// newline (lf, crlf, cr), charset, bom, buffer and header (false drops the
// header line). Unknown parameters are ignored.
func OptionsFromQuery(q url.Values, base csvstream.Options) (csvstream.Options, error) {
	o := base
	o.Header = slices.Clone(base.Header)

	if v := q.Get("delimiter"); v != "" {
		d, err := csvstream.ParseDelimiter(v)
		if err != nil {
			return o, err
		}
		o.Delimiter = d
	}
	if v := q.Get("newline"); v != "" {
		nl, err := csvstream.ParseNewLine(v)
		if err != nil {
			return o, err
		}
		o.NewLine = nl
	}
	if v := q.Get("charset"); v != "" {
		o.Charset = v
	}
	if v := q.Get("bom"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return o, fmt.Errorf("invalid bom %q: %w", v, err)
		}
		o.IncludePreamble = b
	}
	if v := q.Get("buffer"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return o, fmt.Errorf("invalid buffer %q: %w", v, err)
		}
		o.BufferOutput = b
	}

	if v := q.Get("header"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return o, fmt.Errorf("invalid header %q: %w", v, err)
		}
		if !b {
			o.Header = nil
		}
	}

	if err := o.Validate(); err != nil {
		return o, err
	}
	return o, nil
}
