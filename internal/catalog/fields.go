package catalog

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"
)

// record is one JSON object decoded with UseNumber.
type record map[string]any

func decodeJSON(raw []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return err
	}
	// Reject trailing garbage after the document.
	if _, err := dec.Token(); err != io.EOF {
		return errTrailing
	}
	return nil
}

// str returns the string value at key, "" when absent or not a scalar.
func (r record) str(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// int32Ptr returns the integer at key, or nil when absent, null,
// non-numeric or out of range.
func (r record) int32Ptr(key string) *int32 {
	n, ok := r.integer(key)
	if !ok || n < math.MinInt32 || n > math.MaxInt32 {
		return nil
	}
	v := int32(n)
	return &v
}

// integer accepts JSON numbers and numeric strings.
func (r record) integer(key string) (int64, bool) {
	switch v := r[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		// Integral floats such as 4.0.
		if f, err := v.Float64(); err == nil && f == math.Trunc(f) && math.Abs(f) < 1<<62 {
			return int64(f), true
		}
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// records converts a decoded JSON array into objects, reporting the index
// of the first element that is not an object.
func records(items []any) ([]record, int) {
	out := make([]record, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, i
		}
		out = append(out, record(m))
	}
	return out, -1
}
