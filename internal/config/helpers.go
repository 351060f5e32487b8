package config

import (
	"fmt"
	"time"
)

// IsDevelopment reports whether the logging section selects the
// development profile (console output at debug level).
func (c *Config) IsDevelopment() bool {
	return c.Logging.Level == "debug" && c.Logging.Format == "console"
}

// IsProduction reports whether the logging section selects the
// production profile (JSON output at info level).
func (c *Config) IsProduction() bool {
	return c.Logging.Level == "info" && c.Logging.Format == "json"
}

// Location resolves the reporting timezone used for period bucketing.
// Both IANA names ("Asia/Tokyo", "UTC") and fixed offsets ("+09:00")
// are accepted; anything unparseable falls back to UTC.
func (c *ReportingConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}

	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	if loc, err := parseOffset(c.Timezone); err == nil {
		return loc
	}
	return time.UTC
}

// parseOffset turns a "+09:00" style offset into a fixed zone.
func parseOffset(v string) (*time.Location, error) {
	t, err := time.Parse("-07:00", v)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone offset %q", v)
	}
	_, seconds := t.Zone()
	return time.FixedZone(v, seconds), nil
}

// PeriodLabel formats the month label (YYYY-MM) for t in the reporting
// timezone.
func (c *ReportingConfig) PeriodLabel(t time.Time) string {
	return t.In(c.Location()).Format("2006-01")
}
