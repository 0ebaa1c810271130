package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// LenientNumber decodes an upstream counter that may arrive as a JSON
// string, a JSON number, null, or garbage. Decoding never fails; anything
// that is not a finite number leaves Value nil.
type LenientNumber struct {
	Value *int64
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *LenientNumber) UnmarshalJSON(data []byte) error {
	n.Value = ParseLenientNumber(data)
	return nil
}

// ParseLenientNumber coerces a raw JSON value into an integer count.
// Strings are trimmed and parsed; fractional values are truncated.
func ParseLenientNumber(raw json.RawMessage) *int64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		text = strings.TrimSpace(s)
	}
	if text == "" {
		return nil
	}

	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return &v
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	// float64(math.MaxInt64) rounds up to 2^63, which no int64 holds
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return nil
	}
	v := int64(f)
	return &v
}
