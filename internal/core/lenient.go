package core

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a float64 that decodes from JSON with "number or 0" semantics:
// numbers are taken as-is, numeric strings are parsed, booleans become 1 or
// 0 and anything else (null, objects, arrays, unparseable strings) becomes 0.
// Decoding a Number never fails.
type Number float64

// Float returns the value as a finite float64.
func (n Number) Float() float64 {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number(coerce(data))
	return nil
}

// MarshalJSON writes non-finite values as 0.
func (n Number) MarshalJSON() ([]byte, error) {
	return strconv.AppendFloat(nil, n.Float(), 'g', -1, 64), nil
}

// Values is a numeric series that decodes leniently: a non-array becomes an
// empty series and every element is decoded as a Number.
type Values []float64

// UnmarshalJSON implements json.Unmarshaler.
func (v *Values) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*v = Values{}
		return nil
	}
	out := make(Values, len(raw))
	for i, r := range raw {
		out[i] = coerce(r)
	}
	*v = out
	return nil
}

// MarshalJSON writes non-finite entries as 0.
func (v Values) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("[]"), nil
	}
	buf := make([]byte, 0, len(v)*4+2)
	buf = append(buf, '[')
	for i, f := range v {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendFloat(buf, Number(f).Float(), 'g', -1, 64)
	}
	return append(buf, ']'), nil
}

// At returns element i, or 0 when i is out of range.
func (v Values) At(i int) float64 {
	if i < 0 || i >= len(v) {
		return 0
	}
	return Number(v[i]).Float()
}

// Labels is a list of display labels. Non-string elements are rendered with
// their JSON text, null becomes the empty string and a non-array becomes an
// empty list.
type Labels []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *Labels) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*l = Labels{}
		return nil
	}
	out := make(Labels, len(raw))
	for i, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out[i] = s
			continue
		}
		if t := bytes.TrimSpace(r); !bytes.Equal(t, []byte("null")) {
			out[i] = string(t)
		}
	}
	*l = out
	return nil
}

// At returns label i, or the empty string when i is out of range.
func (l Labels) At(i int) string {
	if i < 0 || i >= len(l) {
		return ""
	}
	return l[i]
}

func coerce(data []byte) float64 {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return 0
	}

	switch data[0] {
	case 't':
		if bytes.Equal(data, []byte("true")) {
			return 1
		}
		return 0
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0
		}
		return parseNumeric(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return 0
		}
		return Number(f).Float()
	default:
		return 0
	}
}

// parseNumeric parses a trimmed decimal string. Empty, non-numeric and
// non-finite strings yield 0.
func parseNumeric(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return Number(f).Float()
}

func saturate(f float64) float64 {
	switch {
	case math.IsInf(f, 1):
		return math.MaxFloat64
	case math.IsInf(f, -1):
		return -math.MaxFloat64
	}
	return Number(f).Float()
}
