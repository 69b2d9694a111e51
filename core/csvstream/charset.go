package csvstream

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Charset couples a text encoding with the byte order mark that
// identifies it at the start of a stream.
type Charset struct {
	Name     string
	Encoding encoding.Encoding
	Preamble []byte
}

var unicodeCharsets = map[string]Charset{
	"utf-8": {
		Name:     "utf-8",
		Encoding: unicode.UTF8,
		Preamble: []byte{0xEF, 0xBB, 0xBF},
	},
	"utf-16le": {
		Name:     "utf-16le",
		Encoding: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
		Preamble: []byte{0xFF, 0xFE},
	},
	"utf-16be": {
		Name:     "utf-16be",
		Encoding: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
		Preamble: []byte{0xFE, 0xFF},
	},
	"utf-32le": {
		Name:     "utf-32le",
		Encoding: utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
		Preamble: []byte{0xFF, 0xFE, 0x00, 0x00},
	},
	"utf-32be": {
		Name:     "utf-32be",
		Encoding: utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
		Preamble: []byte{0x00, 0x00, 0xFE, 0xFF},
	},
}

// Unprefixed UTF-16/32 names default to little endian.
var charsetAliases = map[string]string{
	"utf8":    "utf-8",
	"utf-16":  "utf-16le",
	"utf16":   "utf-16le",
	"unicode": "utf-16le",
	"utf-32":  "utf-32le",
	"utf32":   "utf-32le",
}

// LookupCharset resolves a charset name. Unicode encodings carry their byte
// order mark; every other IANA charset known to x/text has no preamble.
func LookupCharset(name string) (Charset, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultCharset
	}
	if alias, ok := charsetAliases[key]; ok {
		key = alias
	}
	if cs, ok := unicodeCharsets[key]; ok {
		return cs, nil
	}

	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil {
		return Charset{}, fmt.Errorf("unknown charset %q: %w", name, err)
	}
	if enc == nil {
		return Charset{}, fmt.Errorf("charset %q is not supported", name)
	}

	// Prefer the MIME name: it is what Content-Type headers carry.
	canonical := key
	if n, err := ianaindex.MIME.Name(enc); err == nil {
		canonical = strings.ToLower(n)
	} else if n, err := ianaindex.IANA.Name(enc); err == nil {
		canonical = strings.ToLower(n)
	}
	return Charset{Name: canonical, Encoding: enc}, nil
}

func (c Charset) isUTF8() bool {
	return c.Name == "utf-8"
}

// encode converts UTF-8 text to the charset. Characters the charset cannot
// represent are replaced rather than failing the export.
func (c Charset) encode(dst, text []byte) ([]byte, error) {
	if c.isUTF8() {
		return append(dst, text...), nil
	}
	out, err := encoding.ReplaceUnsupported(c.Encoding.NewEncoder()).Bytes(text)
	if err != nil {
		return nil, fmt.Errorf("error encoding chunk as %s: %w", c.Name, err)
	}
	return append(dst, out...), nil
}
