package formatters

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fbz-tec/csvstream/internal/logger"
	"github.com/jackc/pgx/v5/pgtype"
)

var timeFormatReplacer = strings.NewReplacer(
	"yyyy", "2006",
	"yy", "06",
	"MM", "01",
	"dd", "02",
	"HH", "15",
	"mm", "04",
	"ss", "05",
	"SSS", "000", // Milliseconds
	"S", "0", // Deciseconds
)

// CellFormatter turns typed values into CSV cell text. Layouts and the
// time zone are resolved once, not per value.
type CellFormatter struct {
	timestampLayout string
	dateLayout      string
	location        *time.Location
}

// NewCellFormatter builds a formatter from a user time format such as
// "yyyy-MM-dd HH:mm:ss" and an optional IANA time zone.
func NewCellFormatter(userTimefmt, timeZone string) CellFormatter {
	layout, loc := UserTimeZoneFormat(userTimefmt, timeZone)
	return CellFormatter{
		timestampLayout: layout,
		dateLayout:      ConvertUserTimeFormat(extractUserDateFormat(userTimefmt)),
		location:        loc,
	}
}

// Format returns the cell text for val. oid is the PostgreSQL type OID of
// the column, or 0 when the value does not come from PostgreSQL.
// NULL becomes an empty cell.
func (f CellFormatter) Format(val any, oid uint32) string {
	if val == nil {
		return ""
	}

	switch oid {
	case pgtype.DateOID:
		if t, ok := val.(time.Time); ok {
			return t.Format(f.dateLayout)
		}
	case pgtype.TimestampOID:
		if t, ok := val.(time.Time); ok {
			return t.Format(f.timestampLayout)
		}
	case pgtype.TimestamptzOID:
		if t, ok := val.(time.Time); ok {
			return t.In(f.location).Format(f.timestampLayout)
		}
	case pgtype.UUIDOID:
		if uuid, ok := val.([16]byte); ok {
			return fmt.Sprintf("%x-%x-%x-%x-%x", uuid[0:4], uuid[4:6], uuid[6:8], uuid[8:10], uuid[10:16])
		}
	case pgtype.NumericOID:
		if num, ok := val.(pgtype.Numeric); ok {
			return formatNumeric(num)
		}
	case pgtype.IntervalOID:
		if interval, ok := val.(pgtype.Interval); ok {
			if !interval.Valid {
				return ""
			}
			v, err := interval.Value()
			if err != nil || v == nil {
				return ""
			}
			return fmt.Sprintf("%v", v)
		}
	case pgtype.JSONBOID, pgtype.JSONOID:
		b, err := json.Marshal(val)
		if err != nil {
			return "{}"
		}
		return string(b)
	}

	return formatGeneric(val, f)
}

func formatGeneric(val any, f CellFormatter) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return fmt.Sprintf("%.15g", v)
	case float32:
		return fmt.Sprintf("%.15g", v)
	case time.Time:
		return v.In(f.location).Format(f.timestampLayout)
	case []any:
		if len(v) == 0 {
			return "{}"
		}
		elems := make([]string, len(v))
		for i, elem := range v {
			elems[i] = formatGeneric(elem, f)
		}
		return fmt.Sprintf("{%s}", strings.Join(elems, ","))
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return "{}"
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatNumeric keeps the exact decimal text of a numeric instead of going
// through float64.
func formatNumeric(num pgtype.Numeric) string {
	if !num.Valid {
		return ""
	}
	b, err := num.MarshalJSON()
	if err != nil {
		f, ferr := num.Float64Value()
		if ferr != nil || !f.Valid {
			return ""
		}
		return fmt.Sprintf("%.15g", f.Float64)
	}
	return strings.Trim(string(b), `"`)
}

func UserTimeZoneFormat(userTimefmt string, timeZone string) (string, *time.Location) {
	layout := ConvertUserTimeFormat(userTimefmt)
	if timeZone == "" {
		return layout, time.Local
	}
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		logger.Warn("Invalid timezone %q, using local time: %v", timeZone, err)
		return layout, time.Local
	}
	return layout, loc
}

func ConvertUserTimeFormat(userTimefmt string) string {
	return timeFormatReplacer.Replace(userTimefmt)
}

// extractUserDateFormat extracts only the date portion from a datetime format string.
// For example, "yyyy-MM-dd HH:mm:ss" becomes "yyyy-MM-dd".
func extractUserDateFormat(userFmt string) string {
	dateTokens := []string{"yyyy", "yy", "MM", "dd"}

	last := -1
	for _, tok := range dateTokens {
		idx := strings.LastIndex(userFmt, tok)
		if idx != -1 {
			end := idx + len(tok)
			if end > last {
				last = end
			}
		}
	}

	if last == -1 {
		return userFmt
	}

	return strings.TrimSpace(userFmt[:last])
}
