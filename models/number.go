package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Number is a nullable arbitrary-precision numeric value. The zero value is
// "unknown": it marshals to JSON null and reports Valid() == false. Monetary
// fields throughout the unified schema use Number so that a field an exchange
// did not publish stays distinguishable from an actual zero.
type Number struct {
	dec   decimal.Decimal
	valid bool
}

// N parses s into a Number. Empty strings, "null" and unparsable input all
// yield the unknown value rather than an error.
func N(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" || s == "NaN" || s == "-" {
		return Number{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Number{}
	}
	return Number{dec: d, valid: true}
}

// NFloat builds a Number from a float64.
func NFloat(f float64) Number {
	return Number{dec: decimal.NewFromFloat(f), valid: true}
}

// NDecimal wraps an existing decimal.
func NDecimal(d decimal.Decimal) Number {
	return Number{dec: d, valid: true}
}

// Valid reports whether the value is known.
func (n Number) Valid() bool { return n.valid }

// Decimal returns the underlying decimal, zero when unknown.
func (n Number) Decimal() decimal.Decimal { return n.dec }

// Float64 returns the value as a float64, 0 when unknown.
func (n Number) Float64() float64 {
	if !n.valid {
		return 0
	}
	f, _ := n.dec.Float64()
	return f
}

// String renders the decimal, or "" when unknown.
func (n Number) String() string {
	if !n.valid {
		return ""
	}
	return n.dec.String()
}

// Div divides by d, propagating unknown. Division by zero yields unknown.
func (n Number) Div(d int64) Number {
	if !n.valid || d == 0 {
		return Number{}
	}
	return Number{dec: n.dec.Div(decimal.NewFromInt(d)), valid: true}
}

// Mul multiplies two Numbers, propagating unknown.
func (n Number) Mul(other Number) Number {
	if !n.valid || !other.valid {
		return Number{}
	}
	return Number{dec: n.dec.Mul(other.dec), valid: true}
}

// Add sums two Numbers, propagating unknown.
func (n Number) Add(other Number) Number {
	if !n.valid || !other.valid {
		return Number{}
	}
	return Number{dec: n.dec.Add(other.dec), valid: true}
}

// Sub subtracts other from n, propagating unknown.
func (n Number) Sub(other Number) Number {
	if !n.valid || !other.valid {
		return Number{}
	}
	return Number{dec: n.dec.Sub(other.dec), valid: true}
}

// IsNegative reports whether a known value is below zero.
func (n Number) IsNegative() bool {
	return n.valid && n.dec.IsNegative()
}

// Equal reports whether both values are known and numerically equal, or both
// unknown.
func (n Number) Equal(other Number) bool {
	if n.valid != other.valid {
		return false
	}
	if !n.valid {
		return true
	}
	return n.dec.Equal(other.dec)
}

// MarshalJSON renders known values as JSON numbers and unknown values as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return []byte(n.dec.String()), nil
}

// UnmarshalJSON accepts numbers, numeric strings and null.
func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*n = Number{}
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*n = N(str)
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		*n = Number{}
		return nil
	}
	*n = Number{dec: d, valid: true}
	return nil
}
