package csvstream

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ParseDelimiter accepts a single character or one of the names tab,
// comma, semicolon and pipe.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "tab", `\t`:
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// ParseNewLine accepts lf, crlf, cr and native, or the escaped forms.
func ParseNewLine(s string) (string, error) {
	switch strings.ToLower(s) {
	case "lf", `\n`:
		return "\n", nil
	case "crlf", `\r\n`:
		return "\r\n", nil
	case "cr", `\r`:
		return "\r", nil
	case "native":
		return NativeNewLine(), nil
	}
	return "", fmt.Errorf("unsupported newline %q (use lf, crlf, cr or native)", s)
}
