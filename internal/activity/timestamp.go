package activity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Naive layouts carry no offset and are read in the local zone, which is
// what Python's datetime.isoformat() emits for a naive datetime.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// Timestamp accepts RFC 3339 and naive ISO-8601 datetimes when decoding JSON.
// Raw keeps the string exactly as it was submitted.
type Timestamp struct {
	time.Time
	Raw string
}

// ParseTimestamp parses s as RFC 3339, falling back to naive local layouts.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	t.Raw = s
	return nil
}

// MarshalJSON emits Raw when present so a decoded value re-encodes to the
// same bytes.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Raw != "" {
		return json.Marshal(t.Raw)
	}
	return json.Marshal(t.Time)
}
