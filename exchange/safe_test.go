package exchange

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return m
}

func TestSafeString(t *testing.T) {
	m := decode(t, `{"a": "x", "b": 12.5, "c": null, "d": true}`)
	tests := []struct {
		keys []string
		want string
	}{
		{[]string{"a"}, "x"},
		{[]string{"b"}, "12.5"},
		{[]string{"c"}, ""},
		{[]string{"missing"}, ""},
		{[]string{"c", "a"}, "x"},
		{[]string{"d"}, "true"},
	}
	for _, tt := range tests {
		if got := SafeString(m, tt.keys...); got != tt.want {
			t.Errorf("SafeString(%v) = %q, want %q", tt.keys, got, tt.want)
		}
	}
}

func TestSafeNumber(t *testing.T) {
	m := decode(t, `{"s": "65000.5", "f": 1.25, "bad": "oops", "zero": 0}`)
	if got := SafeNumber(m, "s").String(); got != "65000.5" {
		t.Errorf("string field: %s", got)
	}
	if got := SafeNumber(m, "f").String(); got != "1.25" {
		t.Errorf("float field: %s", got)
	}
	if SafeNumber(m, "bad").Valid() {
		t.Error("unparsable field must be unknown")
	}
	if SafeNumber(m, "missing").Valid() {
		t.Error("missing field must be unknown")
	}
	if n := SafeNumber(m, "zero"); !n.Valid() || n.String() != "0" {
		t.Error("explicit zero must stay a known zero")
	}
}

func TestSafeInteger(t *testing.T) {
	m := decode(t, `{"i": 42, "s": "17", "f": 9.9, "fs": "3.7"}`)
	tests := []struct {
		key  string
		want int64
	}{
		{"i", 42},
		{"s", 17},
		{"f", 9},
		{"fs", 3},
		{"missing", 0},
	}
	for _, tt := range tests {
		if got := SafeInteger(m, tt.key); got != tt.want {
			t.Errorf("SafeInteger(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
}

func TestSafeBool(t *testing.T) {
	m := decode(t, `{"t": true, "f": false, "s": "true", "junk": 7}`)
	if b := SafeBool(m, "t"); b == nil || !*b {
		t.Error("true field")
	}
	if b := SafeBool(m, "f"); b == nil || *b {
		t.Error("false field must be known false, not unknown")
	}
	if b := SafeBool(m, "s"); b == nil || !*b {
		t.Error("string bool field")
	}
	if SafeBool(m, "junk") != nil {
		t.Error("non-bool field must be unknown")
	}
	if SafeBool(m, "missing") != nil {
		t.Error("missing field must be unknown")
	}
}

func TestSafeMapAndList(t *testing.T) {
	m := decode(t, `{"obj": {"k": 1}, "arr": [1, 2], "s": "x"}`)
	if SafeMap(m, "obj") == nil {
		t.Error("nested object")
	}
	if SafeMap(m, "arr") != nil || SafeMap(m, "s") != nil {
		t.Error("non-objects must yield nil")
	}
	if got := SafeList(m, "arr"); len(got) != 2 {
		t.Errorf("nested array: %v", got)
	}
	if SafeList(m, "obj") != nil {
		t.Error("non-arrays must yield nil")
	}
	if SafeMap(nil, "x") != nil || SafeList(nil, "x") != nil {
		t.Error("nil input must be tolerated")
	}
}

func TestSafeTimestampSeconds(t *testing.T) {
	m := decode(t, `{"t": 1700000000, "frac": 1700000000.25, "neg": -1}`)
	if got := SafeTimestampSeconds(m, "t"); got != 1700000000000 {
		t.Errorf("whole seconds: %d", got)
	}
	if got := SafeTimestampSeconds(m, "frac"); got != 1700000000250 {
		t.Errorf("fractional seconds: %d", got)
	}
	if got := SafeTimestampSeconds(m, "neg"); got != 0 {
		t.Errorf("negative timestamp: %d", got)
	}
}
