package csvstream

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// EscapeCell returns the text written to a CSV line for one raw cell.
func EscapeCell(cell string, delimiter rune) string {
	quote, escape := needsQuoting(cell, delimiter)
	if !quote {
		return cell
	}
	if escape {
		cell = strings.ReplaceAll(cell, `"`, `""`)
	}
	return `"` + cell + `"`
}

// AppendCell appends the escaped form of cell to dst.
func AppendCell(dst []byte, cell string, delimiter rune) []byte {
	quote, escape := needsQuoting(cell, delimiter)
	if !quote {
		return append(dst, cell...)
	}

	dst = append(dst, '"')
	if !escape {
		dst = append(dst, cell...)
		return append(dst, '"')
	}

	start := 0
	for i := 0; i < len(cell); i++ {
		if cell[i] == '"' {
			dst = append(dst, cell[start:i+1]...)
			dst = append(dst, '"')
			start = i + 1
		}
	}
	dst = append(dst, cell[start:]...)
	return append(dst, '"')
}

// needsQuoting scans the cell once. Line feeds, the delimiter and leading or
// trailing whitespace force quoting; a double quote forces quoting and
// escaping and ends the scan.
func needsQuoting(cell string, delimiter rune) (quote, escape bool) {
	if cell == "" {
		return false, false
	}

	first, _ := utf8.DecodeRuneInString(cell)
	last, _ := utf8.DecodeLastRuneInString(cell)
	quote = unicode.IsSpace(first) || unicode.IsSpace(last)

	for _, r := range cell {
		if r == '"' {
			return true, true
		}
		if !quote && (r == '\n' || r == delimiter) {
			quote = true
		}
	}
	return quote, false
}
