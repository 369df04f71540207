// ABOUTME: Time parsing utilities for provider date strings
// ABOUTME: Tries the layouts news providers use, reading zone-less values in a given location

package time

import (
	"strings"
	"time"
)

// Layouts carrying their own offset
var zonedFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
	time.RFC822Z,
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05 -0700",
}

// Layouts read in the caller's location
var localFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006-01-02",
}

// ParseIn parses s with the first matching layout. Values without an offset
// are read in loc. The zero time means no layout matched.
func ParseIn(s string, loc *time.Location) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range zonedFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	for _, layout := range localFormats {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseWithDefault is ParseIn falling back to def
func ParseWithDefault(s string, loc *time.Location, def time.Time) time.Time {
	if parsed := ParseIn(s, loc); !parsed.IsZero() {
		return parsed
	}
	return def
}
