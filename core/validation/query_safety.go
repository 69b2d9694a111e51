package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Statements that may start an export query.
var allowedCommands = map[string]bool{
	"SELECT": true,
	"WITH":   true,
}

// Whole words that write data or schema, wherever they appear outside
// literals and comments. COPY is included since COPY ... FROM writes.
var forbiddenPattern = regexp.MustCompile(`\b(DELETE|DROP|TRUNCATE|INSERT|UPDATE|ALTER|CREATE|GRANT|REVOKE|EXECUTE|EXEC|CALL|MERGE|COPY)\b`)

var dollarTagPattern = regexp.MustCompile(`^\$[A-Za-z_][A-Za-z0-9_]*\$|^\$\$`)

// ValidateQuery accepts a single read-only SELECT or WITH statement.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query cannot be empty")
	}

	var statements []string
	for _, stmt := range strings.Split(maskSQL(query), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			statements = append(statements, stmt)
		}
	}

	switch {
	case len(statements) == 0:
		return fmt.Errorf("query contains only comments")
	case len(statements) > 1:
		return fmt.Errorf("only a single SQL statement is allowed")
	}
	stmt := statements[0]

	words := strings.FieldsFunc(stmt, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '_'
	})
	if len(words) == 0 {
		return fmt.Errorf("unable to identify SQL command (security: unknown command)")
	}

	first := words[0]
	if !allowedCommands[first] {
		if forbiddenPattern.MatchString(first) {
			return fmt.Errorf("forbidden SQL command detected: %s (read-only mode)", first)
		}
		return fmt.Errorf("unsupported SQL command: %s (only SELECT and WITH are allowed)", first)
	}

	if cmd := forbiddenPattern.FindString(stmt); cmd != "" {
		return fmt.Errorf("forbidden SQL command detected: %s (security: command found in query)", cmd)
	}
	return nil
}

// maskSQL upper-cases query and blanks out comments, string literals, quoted
// identifiers and dollar-quoted bodies so that only SQL keywords and
// statement separators remain visible.
func maskSQL(query string) string {
	var b strings.Builder
	b.Grow(len(query))

	for i := 0; i < len(query); {
		c := query[i]
		switch {
		case strings.HasPrefix(query[i:], "--"):
			end := strings.IndexByte(query[i:], '\n')
			if end < 0 {
				end = len(query) - i
			}
			i += end
			b.WriteByte(' ')
		case strings.HasPrefix(query[i:], "/*"):
			i = skipBlockComment(query, i)
			b.WriteByte(' ')
		case c == '\'' || c == '"':
			i = skipQuoted(query, i, c)
			b.WriteByte(' ')
		case c == '$' && dollarTagPattern.MatchString(query[i:]):
			tag := dollarTagPattern.FindString(query[i:])
			body := query[i+len(tag):]
			if end := strings.Index(body, tag); end >= 0 {
				i += len(tag) + end + len(tag)
			} else {
				i = len(query)
			}
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
			i++
		}
	}

	return strings.ToUpper(b.String())
}

// skipBlockComment returns the index just past the comment starting at i.
// PostgreSQL block comments nest.
func skipBlockComment(q string, i int) int {
	depth := 0
	for i < len(q) {
		switch {
		case strings.HasPrefix(q[i:], "/*"):
			depth++
			i += 2
		case strings.HasPrefix(q[i:], "*/"):
			depth--
			i += 2
			if depth == 0 {
				return i
			}
		default:
			i++
		}
	}
	return i
}

// skipQuoted returns the index just past the literal opened at i. A doubled
// quote is an escaped quote.
func skipQuoted(q string, i int, quote byte) int {
	for i++; i < len(q); i++ {
		if q[i] != quote {
			continue
		}
		if i+1 < len(q) && q[i+1] == quote {
			i++
			continue
		}
		return i + 1
	}
	return i
}
