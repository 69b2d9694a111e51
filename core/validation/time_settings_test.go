package validation

import (
	"strings"
	"testing"
)

func TestValidateTimeZone(t *testing.T) {
	tests := []struct {
		tz      string
		wantErr bool
	}{
		{"", false},
		{"UTC", false},
		{"Europe/Paris", false},
		{"Mars/Olympus", true},
	}

	for _, tt := range tests {
		t.Run(tt.tz, func(t *testing.T) {
			if err := ValidateTimeZone(tt.tz); (err != nil) != tt.wantErr {
				t.Errorf("ValidateTimeZone(%q) error = %v, wantErr %v", tt.tz, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTimeFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"yyyy-MM-dd HH:mm:ss", false},
		{"dd/MM/yyyy", false},
		{"yyyy-MM-ddTHH:mm:ss.SSS", false},
		{"", true},
		{"hello", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if err := ValidateTimeFormat(tt.format); (err != nil) != tt.wantErr {
				t.Errorf("ValidateTimeFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTimeSettings(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		zone    string
		wantErr string
	}{
		{"valid", "yyyy-MM-dd", "UTC", ""},
		{"local zone", "HH:mm", "", ""},
		{"bad format", "hello", "UTC", "time format"},
		{"bad zone", "yyyy", "Mars/Olympus", "time zone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimeSettings(tt.format, tt.zone)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateTimeSettings() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateTimeSettings() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
