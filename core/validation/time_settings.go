package validation

import (
	"fmt"
	"time"

	"github.com/fbz-tec/csvstream/core/formatters"
)

// probeTime has a distinct value in every field, so a layout that drops or
// confuses a field fails the round trip.
var probeTime = time.Date(2006, 1, 2, 15, 4, 5, 123000000, time.UTC)

// ValidateTimeSettings checks the --time-format and --time-zone pair used
// to render date and timestamp cells.
func ValidateTimeSettings(format, zone string) error {
	if err := ValidateTimeFormat(format); err != nil {
		return err
	}
	return ValidateTimeZone(zone)
}

// ValidateTimeZone accepts an IANA zone name, or "" for local time.
func ValidateTimeZone(zone string) error {
	if zone == "" {
		return nil
	}
	if _, err := time.LoadLocation(zone); err != nil {
		return fmt.Errorf("invalid time zone %q: %w", zone, err)
	}
	return nil
}

// ValidateTimeFormat accepts a yyyy-MM-dd HH:mm:ss style format holding at
// least one date or time field.
func ValidateTimeFormat(format string) error {
	if format == "" {
		return fmt.Errorf("time format cannot be empty")
	}

	layout := formatters.ConvertUserTimeFormat(format)
	if layout == format {
		return fmt.Errorf("invalid time format %q: no date or time fields", format)
	}

	formatted := probeTime.Format(layout)
	if _, err := time.Parse(layout, formatted); err != nil {
		return fmt.Errorf("invalid time format %q: %w", format, err)
	}
	return nil
}
