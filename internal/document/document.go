// Package document reads loosely typed records coming from the document stores.
//
// Firestore, MongoDB and Postgres JSONB all hand back nested map/slice values
// with slightly different concrete types. Fields normalizes access so domain
// packages can apply numeric-or-zero and string semantics in one place.
package document

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fields is a decoded document.
type Fields map[string]any

// Has reports whether key is present with a non-nil value.
func (f Fields) Has(key string) bool {
	v, ok := f[key]
	return ok && v != nil
}

// String returns the value at key as a trimmed string.
// Numbers are formatted; anything else yields "".
func (f Fields) String(key string) string {
	switch v := f[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case int, int32, int64, float32, float64:
		n, _ := ToNumber(v)
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return ""
	}
}

// Number returns the numeric value at key.
// ok is false when the key is absent or null. A present value that is not
// numeric reads as 0 with ok true.
func (f Fields) Number(key string) (float64, bool) {
	if !f.Has(key) {
		return 0, false
	}
	n, _ := ToNumber(f[key])
	return n, true
}

// NumberPtr is Number returning nil when the key is absent.
func (f Fields) NumberPtr(key string) *float64 {
	n, ok := f.Number(key)
	if !ok {
		return nil
	}
	return &n
}

// Map returns the nested document at key, or nil.
func (f Fields) Map(key string) Fields {
	return AsFields(f[key])
}

// Slice returns the array at key, or nil.
func (f Fields) Slice(key string) []any {
	switch v := f[key].(type) {
	case []any:
		return v
	case primitive.A:
		return []any(v)
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	default:
		return nil
	}
}

// AsFields converts a nested map value into Fields. Returns nil for non-maps.
func AsFields(v any) Fields {
	switch m := v.(type) {
	case Fields:
		return m
	case map[string]any:
		return Fields(m)
	case primitive.M:
		return Fields(m)
	case primitive.D:
		out := make(Fields, len(m))
		for _, e := range m {
			out[e.Key] = e.Value
		}
		return out
	default:
		return nil
	}
}

// ToNumber coerces v to a finite float64. ok is false when v is not numeric,
// in which case the returned value is 0.
func ToNumber(v any) (float64, bool) {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int32:
		n = float64(x)
	case int64:
		n = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
