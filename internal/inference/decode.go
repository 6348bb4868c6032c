package inference

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

func isNull(b []byte) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}

// lenientInt accepts a JSON number or a numeric string. Any other shape decodes as absent.
type lenientInt struct {
	v *int
}

func (n *lenientInt) UnmarshalJSON(b []byte) error {
	n.v = nil
	f, ok := lenientNumber(b)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	i := int(f)
	n.v = &i
	return nil
}

// lenientFloat accepts a JSON number or a numeric string. Any other shape decodes as absent.
type lenientFloat struct {
	v *float64
}

func (n *lenientFloat) UnmarshalJSON(b []byte) error {
	n.v = nil
	if f, ok := lenientNumber(b); ok {
		n.v = &f
	}
	return nil
}

func lenientNumber(b []byte) (float64, bool) {
	if isNull(b) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// lenientTime accepts RFC 3339 and the common date-time spellings around it.
// Unparseable values decode as absent.
type lenientTime struct {
	v *time.Time
}

func (t *lenientTime) UnmarshalJSON(b []byte) error {
	t.v = nil
	if isNull(b) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil && !parsed.IsZero() {
			t.v = &parsed
			return nil
		}
	}
	return nil
}
