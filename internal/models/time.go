package models

import (
	"fmt"
	"strings"
	"time"
)

// isoFormat is the write format for timestamps, matching the fixed-width
// UTC form the original documents were written in.
const isoFormat = "2006-01-02T15:04:05.000Z07:00"

// readFormats are accepted on load. Stored documents carry either full
// ISO-8601 timestamps or bare dates like "2025-05-20".
var readFormats = []string{
	time.RFC3339Nano,
	"2006-01-02",
}

// Time is a timestamp that round-trips the date strings found in persisted
// documents. It marshals as an ISO-8601 UTC string and unmarshals both full
// timestamps and day-granularity dates.
type Time struct {
	time.Time
}

// NewTime wraps a time.Time.
func NewTime(t time.Time) Time { return Time{Time: t} }

// ParseTime parses an ISO-8601 timestamp or a bare "2006-01-02" date.
func ParseTime(s string) (Time, error) {
	for _, layout := range readFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return Time{Time: t}, nil
		}
	}
	return Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// String formats the timestamp in its storage form.
func (t Time) String() string {
	return t.UTC().Format(isoFormat)
}

// MarshalJSON writes the timestamp as an ISO-8601 UTC string.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON accepts any of the read formats.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = Time{}
		return nil
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
