package date

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timestamp is an instant stored on the wire as epoch milliseconds.
// The zero value means "undefined" and encodes as null.
type Timestamp struct {
	time.Time
}

// FromMillis converts epoch milliseconds to a Timestamp in the local zone.
func FromMillis(ms int64) Timestamp {
	return Timestamp{time.UnixMilli(ms)}
}

// FromTime wraps t.
func FromTime(t time.Time) Timestamp {
	return Timestamp{t}
}

// Millis returns the epoch milliseconds, or 0 when undefined.
func (ts Timestamp) Millis() int64 {
	if ts.IsZero() {
		return 0
	}
	return ts.UnixMilli()
}

// Equal reports whether both timestamps denote the same millisecond.
func (ts Timestamp) Equal(o Timestamp) bool {
	return ts.Millis() == o.Millis()
}

// MarshalJSON encodes the timestamp as a number of milliseconds.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(ts.UnixMilli(), 10)), nil
}

// UnmarshalJSON accepts a number, a numeric string, an RFC 3339 string,
// or null.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := parseTimestampString(s)
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	}

	ms, err := parseMillis(string(data))
	if err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	*ts = FromMillis(ms)
	return nil
}

func parseTimestampString(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}
	if ms, err := parseMillis(s); err == nil {
		return FromMillis(ms), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: expected epoch milliseconds or RFC 3339", s)
	}
	return Timestamp{t}, nil
}

// parseMillis accepts integers and float notation (mock APIs sometimes
// return 1.7e12).
func parseMillis(s string) (int64, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}
