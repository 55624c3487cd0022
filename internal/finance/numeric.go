// Package finance implements the property financial-metrics pipeline:
// cost basis, straight-line depreciation, income/expense aggregation,
// debt service, NOI/cash-flow composition, tax shield and completeness
// scoring. Every function is a pure transform over already-loaded data.
package finance

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Coerce converts a loosely-typed numeric value to a float64.
// Strings, json.Number and integer types are accepted; missing,
// unparseable or non-finite values become 0, never NaN or Inf.
func Coerce(v any) float64 {
	return CoerceOr(v, 0)
}

// CoerceOr converts a loosely-typed numeric value to a float64,
// returning def when the value is missing or unrepresentable.
func CoerceOr(v any, def float64) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return def
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return def
		}
		f = parsed
	case *float64:
		if n == nil {
			return def
		}
		f = *n
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return def
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return def
		}
		f = parsed
	default:
		return def
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// RateOr resolves an optional rate field to its value, or def when unset.
// Non-finite values also fall back to def.
func RateOr(rate *float64, def float64) float64 {
	if rate == nil {
		return def
	}
	if math.IsNaN(*rate) || math.IsInf(*rate, 0) {
		return def
	}
	return *rate
}
