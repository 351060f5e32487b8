package utils

import (
	"fmt"
	"strings"
	"time"
)

// periodLayouts are tried in order when parsing period strings.
var periodLayouts = []string{
	"2006-01",
	"2006-01-02",
	time.RFC3339,
}

// ParsePeriod parses a reporting period string into a UTC time.
// Accepted formats: "2006-01" (month), "2006-01-02" (date), and RFC3339 timestamps.
func ParsePeriod(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("period is empty")
	}

	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized period format: %q", s)
}

// FormatPeriod formats a time as a monthly period label ("2006-01") in UTC.
func FormatPeriod(t time.Time) string {
	return t.UTC().Format("2006-01")
}
