package exchange

import (
	"encoding/json"
	"strconv"
	"strings"

	"unifex/models"
)

// Safe accessors coerce arbitrary JSON fields into typed values without ever
// panicking. A missing key, a null, or a value of the wrong shape degrades to
// the zero/default so adapters never need defensive branching around exchange
// payloads.

// SafeValue returns the first present, non-nil value among keys.
func SafeValue(m map[string]any, keys ...string) any {
	if m == nil {
		return nil
	}
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func toString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case int:
		return strconv.Itoa(t), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// SafeString returns the first value among keys rendered as a string, or "".
func SafeString(m map[string]any, keys ...string) string {
	if s, ok := toString(SafeValue(m, keys...)); ok {
		return s
	}
	return ""
}

// SafeStringLower is SafeString lower-cased.
func SafeStringLower(m map[string]any, keys ...string) string {
	return strings.ToLower(SafeString(m, keys...))
}

// SafeStringUpper is SafeString upper-cased.
func SafeStringUpper(m map[string]any, keys ...string) string {
	return strings.ToUpper(SafeString(m, keys...))
}

// SafeNumber coerces the field into a nullable decimal. Unparsable values
// yield the unknown Number.
func SafeNumber(m map[string]any, keys ...string) models.Number {
	v := SafeValue(m, keys...)
	if v == nil {
		return models.Number{}
	}
	if s, ok := toString(v); ok {
		return models.N(s)
	}
	return models.Number{}
}

// SafeFloat coerces the field into a float64, 0 when absent or unparsable.
func SafeFloat(m map[string]any, keys ...string) float64 {
	if f, ok := toFloat(SafeValue(m, keys...)); ok {
		return f
	}
	return 0
}

// SafeInteger coerces the field into an int64, accepting numeric strings and
// floats, 0 when absent.
func SafeInteger(m map[string]any, keys ...string) int64 {
	v := SafeValue(m, keys...)
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return int64(f)
		}
	case string:
		s := strings.TrimSpace(t)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f)
		}
	}
	return 0
}

// SafeBool returns a pointer so callers can distinguish false from unknown.
func SafeBool(m map[string]any, keys ...string) *bool {
	switch t := SafeValue(m, keys...).(type) {
	case bool:
		b := t
		return &b
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return &b
		}
	}
	return nil
}

// SafeMap returns a nested object, nil when absent or not an object.
func SafeMap(m map[string]any, keys ...string) map[string]any {
	if v, ok := SafeValue(m, keys...).(map[string]any); ok {
		return v
	}
	return nil
}

// SafeList returns a nested array, nil when absent or not an array.
func SafeList(m map[string]any, keys ...string) []any {
	if v, ok := SafeValue(m, keys...).([]any); ok {
		return v
	}
	return nil
}

// SafeTimestamp reads a millisecond timestamp field.
func SafeTimestamp(m map[string]any, keys ...string) int64 {
	return SafeInteger(m, keys...)
}

// SafeTimestampSeconds reads a second-resolution timestamp, tolerating
// fractional seconds, and converts it to milliseconds.
func SafeTimestampSeconds(m map[string]any, keys ...string) int64 {
	if f, ok := toFloat(SafeValue(m, keys...)); ok && f > 0 {
		return int64(f * 1000)
	}
	return 0
}

// AsMap converts a decoded JSON value into a map, nil when it is not one.
func AsMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
