package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// timestampLayouts lists the formats servers use for dates: RFC 3339, Python's
// isoformat() without a zone, and the RFC 1123 form Flask's jsonify emits.
var timestampLayouts = []struct {
	layout string
	utc    bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05.999999999", false},
	{"2006-01-02 15:04:05.999999999", false},
	{http.TimeFormat, true},
	{time.RFC1123Z, false},
	{time.RFC1123, false},
}

// Timestamp is a time.Time that tolerates the several date encodings a
// download server may send. Zone-less values are read as local time.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON accepts a string in any of the known layouts, a number of
// seconds since the epoch, or null.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		ts.Time = time.Time{}
		return nil
	}

	if data[0] != '"' {
		secs, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("invalid timestamp %s: %w", data, err)
		}
		whole := int64(secs)
		ts.Time = time.Unix(whole, int64((secs-float64(whole))*float64(time.Second)))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		ts.Time = time.Time{}
		return nil
	}

	for _, l := range timestampLayouts {
		loc := time.Local
		if l.utc {
			loc = time.UTC
		}
		if t, err := time.ParseInLocation(l.layout, s, loc); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp format: %q", s)
}

// MarshalJSON writes RFC 3339, or null for the zero time
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Format(time.RFC3339Nano))
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}
