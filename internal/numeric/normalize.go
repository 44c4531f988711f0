// Package numeric scales raw series into bounded display ranges.
//
// Every function here is total: NaN and infinite inputs are treated as 0,
// empty input yields empty output, and no quotient divides by zero.
package numeric

import "math"

// Finite returns v, or 0 when v is NaN or infinite.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Saturate returns v with infinities pinned to ±math.MaxFloat64. NaN maps
// to 0.
func Saturate(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}

// Clamp bounds v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sanitize returns a copy of values with non-finite entries replaced by 0.
func Sanitize(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = Finite(v)
	}
	return out
}

// PercentOfMax maps each value to value/max*100 where max is the largest
// value, floored at 1. Results are clamped to [0, 100].
func PercentOfMax(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	denom := math.Max(Max(values), 1)
	for i, v := range values {
		out[i] = Clamp(Finite(v)/denom*100, 0, 100)
	}
	return out
}

// PercentOf maps a single value onto [0, 100] against the given maximum,
// flooring the maximum at 1.
func PercentOf(v, max float64) float64 {
	return Clamp(Finite(v)/math.Max(Finite(max), 1)*100, 0, 100)
}

// MinMax maps the smallest value to 0 and the largest to 100. When every
// value is equal they all map to 50.
func MinMax(values []float64) []float64 {
	return RangeMap(values, 0, 100, 50)
}

// RangeMap linearly maps [min(values), max(values)] onto [lo, hi]. When the
// observed range is empty every value maps to flat.
func RangeMap(values []float64, lo, hi, flat float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	min, max := Min(values), Max(values)
	span := halfSpan(min, max)
	for i, v := range values {
		if span == 0 {
			out[i] = flat
			continue
		}
		out[i] = Clamp(lo+halfSpan(min, Finite(v))/span*(hi-lo), math.Min(lo, hi), math.Max(lo, hi))
	}
	return out
}

// Position maps v into [0, 100] against an explicit [min, max] range,
// returning 50 when the range is empty.
func Position(v, min, max float64) float64 {
	span := halfSpan(Finite(min), Finite(max))
	if span == 0 {
		return 50
	}
	return Clamp(halfSpan(Finite(min), Finite(v))/span*100, 0, 100)
}

// halfSpan returns (b-a)/2, which stays finite for any finite a and b.
func halfSpan(a, b float64) float64 {
	return b/2 - a/2
}
